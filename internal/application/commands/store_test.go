package commands

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
)

// memStore is an in-memory ports.FlowStore
type memStore struct {
	mu    sync.Mutex
	flows map[string]domain.Flow
	saves int
}

func newMemStore(flows ...domain.Flow) *memStore {
	s := &memStore{flows: make(map[string]domain.Flow)}
	for _, f := range flows {
		s.flows[f.Name] = f
	}
	return s
}

func (s *memStore) SaveFlow(_ context.Context, f domain.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[f.Name] = f
	s.saves++
	return nil
}

func (s *memStore) LoadFlow(_ context.Context, name string) (domain.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[name]
	if !ok {
		return domain.Flow{}, &application.NotFoundError{Kind: "flow", ID: name}
	}
	return f, nil
}

func (s *memStore) ListFlows(_ context.Context) ([]domain.FlowSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.FlowSummary, 0, len(s.flows))
	for _, f := range s.flows {
		out = append(out, domain.FlowSummary{Name: f.Name, Nodes: len(f.Nodes), Edges: len(f.Edges), SavedAt: f.SavedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) DeleteFlow(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[name]; !ok {
		return &application.NotFoundError{Kind: "flow", ID: name}
	}
	delete(s.flows, name)
	return nil
}

func (s *memStore) flow(t *testing.T, name string) domain.Flow {
	t.Helper()
	f, err := s.LoadFlow(context.Background(), name)
	if err != nil {
		t.Fatalf("flow %s not stored: %v", name, err)
	}
	return f
}

func textNode(id string, x, y float64) domain.Node {
	return domain.Node{
		ID:       id,
		Type:     domain.NodeTypeText,
		Position: domain.Point{X: x, Y: y},
		Data:     domain.TextData{Text: "msg " + id},
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
