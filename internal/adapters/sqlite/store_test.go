package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Open(filepath.Join(t.TempDir(), "nested", "flows.db")))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	flow := domain.DemoFlow("main")
	flow.Nodes = append(flow.Nodes, domain.Node{
		ID:       "node_x",
		Type:     domain.NodeTypeText,
		Position: domain.Point{X: 12.5, Y: 0},
		Data:     domain.TextData{Text: ""},
	})
	flow.Edges = append(flow.Edges, domain.Edge{ID: "e2-node_x", Source: "2", Target: "node_x"})
	flow.SavedAt = time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)

	require.NoError(t, s.SaveFlow(ctx, flow))

	got, err := s.LoadFlow(ctx, "main")
	require.NoError(t, err)
	if diff := cmp.Diff(flow, got); diff != "" {
		t.Errorf("flow mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveFlow(ctx, domain.DemoFlow("main")))
	require.NoError(t, s.SaveFlow(ctx, domain.Flow{
		Name:  "main",
		Nodes: []domain.Node{{ID: "solo", Type: domain.NodeTypeText, Data: domain.TextData{Text: "hi"}}},
	}))

	got, err := s.LoadFlow(ctx, "main")
	require.NoError(t, err)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "solo", got.Nodes[0].ID)
	assert.Empty(t, got.Edges)
}

func TestStore_OneEdgePerSource(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	flow := domain.DemoFlow("main")
	flow.Nodes = append(flow.Nodes, domain.Node{ID: "3", Type: domain.NodeTypeText, Data: domain.TextData{Text: "c"}})
	flow.Edges = append(flow.Edges, domain.Edge{ID: "e1-3", Source: "1", Target: "3"})
	require.NoError(t, s.SaveFlow(ctx, flow))

	got, err := s.LoadFlow(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{{ID: "e1-3", Source: "1", Target: "3"}}, got.Edges)
}

func TestStore_ListFlows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	list, err := s.ListFlows(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.SaveFlow(ctx, domain.DemoFlow("zeta")))
	require.NoError(t, s.SaveFlow(ctx, domain.Flow{Name: "alpha"}))

	list, err = s.ListFlows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.FlowSummary{
		{Name: "alpha"},
		{Name: "zeta", Nodes: 2, Edges: 1},
	}, list)
}

func TestStore_NotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.LoadFlow(ctx, "missing")
	assert.True(t, errors.Is(err, application.ErrNotFound))

	err = s.DeleteFlow(ctx, "missing")
	assert.True(t, errors.Is(err, application.ErrNotFound))
}

func TestStore_DeleteFlow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveFlow(ctx, domain.DemoFlow("main")))
	require.NoError(t, s.SaveFlow(ctx, domain.DemoFlow("other")))
	require.NoError(t, s.DeleteFlow(ctx, "main"))

	_, err := s.LoadFlow(ctx, "main")
	assert.ErrorIs(t, err, application.ErrNotFound)

	other, err := s.LoadFlow(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, other.Nodes, 2)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flows.db")
	ctx := context.Background()

	s := NewStore()
	require.NoError(t, s.Open(path))
	require.NoError(t, s.SaveFlow(ctx, domain.DemoFlow("main")))
	require.NoError(t, s.Close())

	s = NewStore()
	require.NoError(t, s.Open(path))
	defer s.Close()

	got, err := s.LoadFlow(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "test message 1", got.Nodes[0].Text())
	assert.Equal(t, path, s.Path())
}
