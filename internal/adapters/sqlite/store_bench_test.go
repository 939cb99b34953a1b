package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"flowbuilder/internal/domain"
)

func chain(n int) domain.Flow {
	f := domain.Flow{Name: "bench"}
	for i := range n {
		id := fmt.Sprintf("n%d", i)
		f.Nodes = append(f.Nodes, domain.Node{
			ID:       id,
			Type:     domain.NodeTypeText,
			Position: domain.Point{X: float64(i) * 300, Y: 100},
			Data:     domain.TextData{Text: "message " + id},
		})
		if i > 0 {
			prev := fmt.Sprintf("n%d", i-1)
			f.Edges = append(f.Edges, domain.Edge{ID: domain.EdgeID(prev, id), Source: prev, Target: id})
		}
	}
	return f
}

// BenchmarkSaveFlow benchmarks replacing a 500 node flow
func BenchmarkSaveFlow(b *testing.B) {
	s := NewStore()
	if err := s.Open(filepath.Join(b.TempDir(), "bench.db")); err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	flow := chain(500)
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		if err := s.SaveFlow(ctx, flow); err != nil {
			b.Fatalf("save failed: %v", err)
		}
	}
}

// BenchmarkLoadFlow benchmarks loading a 500 node flow
func BenchmarkLoadFlow(b *testing.B) {
	s := NewStore()
	if err := s.Open(filepath.Join(b.TempDir(), "bench.db")); err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.SaveFlow(ctx, chain(500)); err != nil {
		b.Fatalf("save failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := s.LoadFlow(ctx, "bench"); err != nil {
			b.Fatalf("load failed: %v", err)
		}
	}
}
