package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_SelectDeselect(t *testing.T) {
	var s Selection

	_, ok := s.Current()
	assert.False(t, ok)

	n := Node{ID: "A", Type: NodeTypeText}
	s.Select(n)
	assert.True(t, s.IsSelected("A"))
	assert.False(t, s.IsSelected("B"))

	s.Deselect()
	_, ok = s.Current()
	assert.False(t, ok)
	assert.False(t, s.IsSelected("A"))
}

func TestSelection_SyncAfterMove(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	var s Selection
	a, _ := g.Node("A")
	s.Select(a)

	p := Point{X: 321, Y: 123}
	moved, ok := g.MoveNode("A", p)
	require.True(t, ok)
	s.Sync(moved)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, p, cur.Position)
}

func TestSelection_SyncIgnoresOtherNodes(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	var s Selection
	a, _ := g.Node("A")
	s.Select(a)

	b, _ := g.UpdateNodeData("B", TextPatch("other"))
	s.Sync(b)

	cur, _ := s.Current()
	assert.Equal(t, "A", cur.ID)
	assert.Equal(t, "msg A", cur.Text())
}

func TestSelection_SyncWithoutSelection(t *testing.T) {
	var s Selection
	s.Sync(Node{ID: "A"})

	_, ok := s.Current()
	assert.False(t, ok)
}
