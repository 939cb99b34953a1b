package domain

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func newTestGraph(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := NewGraph(WithIDGenerator(sequentialIDs()))
	nodes := make([]Node, 0, len(ids))
	for i, id := range ids {
		nodes = append(nodes, Node{
			ID:       id,
			Type:     NodeTypeText,
			Position: Point{X: float64(i) * 300, Y: 100},
			Data:     TextData{Text: "msg " + id},
		})
	}
	g.Restore(nodes, nil)
	return g
}

func TestGraph_AddNode(t *testing.T) {
	g := NewGraph(WithIDGenerator(sequentialIDs()))

	a := g.AddNode(NodeTypeText, Point{X: 10, Y: 20}, TextData{Text: "hello"})
	b := g.AddNode(NodeTypeText, Point{X: -5, Y: 0}, TextData{Text: "world"})

	assert.Equal(t, "n1", a.ID)
	assert.Equal(t, "n2", b.ID)
	assert.Equal(t, Point{X: -5, Y: 0}, b.Position, "the model does not clamp")
	assert.Equal(t, 2, g.Len())

	got, ok := g.Node("n1")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Text())
}

func TestGraph_AddNode_SkipsTakenIDs(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	i := 0
	g := NewGraph(WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))

	first := g.AddNode(NodeTypeText, Point{}, TextData{})
	second := g.AddNode(NodeTypeText, Point{}, TextData{})

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestGraph_DefaultIDsAreUnique(t *testing.T) {
	g := NewGraph()
	seen := make(map[string]bool)
	for range 50 {
		n := g.AddNode(NodeTypeText, Point{}, TextData{})
		require.False(t, seen[n.ID], "duplicate id %s", n.ID)
		assert.Regexp(t, `^node_`, n.ID)
		seen[n.ID] = true
	}
}

func TestGraph_MoveNode(t *testing.T) {
	g := newTestGraph(t, "A")

	moved, ok := g.MoveNode("A", Point{X: 42, Y: 7})
	require.True(t, ok)
	assert.Equal(t, Point{X: 42, Y: 7}, moved.Position)
	assert.Equal(t, "msg A", moved.Text(), "data is preserved")

	_, ok = g.MoveNode("missing", Point{X: 1, Y: 1})
	assert.False(t, ok)
	assert.Equal(t, 1, g.Len())
}

func TestGraph_UpdateNodeData(t *testing.T) {
	g := newTestGraph(t, "A")

	updated, ok := g.UpdateNodeData("A", TextPatch("changed"))
	require.True(t, ok)
	assert.Equal(t, "changed", updated.Text())

	unchanged, ok := g.UpdateNodeData("A", DataPatch{})
	require.True(t, ok)
	assert.Equal(t, "changed", unchanged.Text(), "empty patch keeps data")

	_, ok = g.UpdateNodeData("missing", TextPatch("x"))
	assert.False(t, ok)
}

func TestGraph_UpdateNodeData_NilData(t *testing.T) {
	g := NewGraph()
	g.Restore([]Node{{ID: "A", Type: NodeTypeText}}, nil)

	n, ok := g.UpdateNodeData("A", TextPatch("filled"))
	require.True(t, ok)
	assert.Equal(t, "filled", n.Text())
}

func TestGraph_Connect_ReplacesOutgoingEdge(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")

	g.Connect("A", "B")
	g.Connect("A", "C")

	want := []Edge{{ID: "eA-C", Source: "A", Target: "C"}}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestGraph_Connect_AtMostOneEdgePerSource(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C", "D")
	ops := [][2]string{
		{"A", "B"}, {"B", "C"}, {"A", "D"}, {"C", "A"},
		{"B", "D"}, {"A", "C"}, {"D", "A"}, {"C", "B"},
	}

	for _, op := range ops {
		g.Connect(op[0], op[1])

		perSource := make(map[string]int)
		for _, e := range g.Edges() {
			perSource[e.Source]++
		}
		for src, n := range perSource {
			require.Equal(t, 1, n, "source %s has %d edges after connecting %v", src, n, op)
		}
	}
}

func TestGraph_Connect_FanInAllowed(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")

	g.Connect("A", "C")
	g.Connect("B", "C")

	assert.Len(t, g.Edges(), 2)
}

func TestGraph_Connect_OrderMovesReplacedEdgeToEnd(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")

	g.Connect("A", "B")
	g.Connect("B", "C")
	g.Connect("A", "C")

	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, "B", edges[0].Source)
	assert.Equal(t, "eA-C", edges[1].ID)
}

func TestGraph_Restore(t *testing.T) {
	g := NewGraph()
	g.Restore(
		[]Node{
			{ID: "1", Type: NodeTypeText, Data: TextData{Text: "first"}},
			{ID: "1", Type: NodeTypeText, Data: TextData{Text: "duplicate"}},
			{ID: "2", Type: NodeTypeText},
		},
		[]Edge{
			{ID: "e1-2", Source: "1", Target: "2"},
			{ID: "stale", Source: "1", Target: "1"},
		},
	)

	assert.Equal(t, 2, g.Len())
	n, _ := g.Node("1")
	assert.Equal(t, "first", n.Text())

	e, ok := g.OutgoingEdge("1")
	require.True(t, ok)
	assert.Equal(t, "e1-1", e.ID, "later edges replace earlier ones and ids are rederived")
}

func TestGraph_FlowSnapshotIsCopy(t *testing.T) {
	g := newTestGraph(t, "A")
	f := g.Flow("demo")

	g.MoveNode("A", Point{X: 999, Y: 999})

	assert.Equal(t, "demo", f.Name)
	assert.Equal(t, Point{X: 0, Y: 100}, f.Nodes[0].Position)
}
