package domain

import "github.com/google/uuid"

// Graph holds the nodes and edges of a flow.
// Edges are keyed by source: a node has at most one outgoing edge.
type Graph struct {
	nodes   []*Node
	index   map[string]int
	edges   map[string]Edge
	sources []string // edge insertion order
	newID   func() string
}

// GraphOption configures a Graph
type GraphOption func(*Graph)

// WithIDGenerator replaces the node ID generator
func WithIDGenerator(gen func() string) GraphOption {
	return func(g *Graph) {
		g.newID = gen
	}
}

// NewNodeID returns a fresh node ID
func NewNodeID() string {
	return "node_" + uuid.NewString()
}

// NewGraph creates an empty graph
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		index: make(map[string]int),
		edges: make(map[string]Edge),
		newID: NewNodeID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GraphFromFlow builds a graph holding the contents of f
func GraphFromFlow(f Flow, opts ...GraphOption) *Graph {
	g := NewGraph(opts...)
	g.Restore(f.Nodes, f.Edges)
	return g
}

// Restore inserts existing nodes and edges. Nodes whose ID is already present
// are skipped. Edges go through Connect, so later edges from the same source
// replace earlier ones.
func (g *Graph) Restore(nodes []Node, edges []Edge) {
	for _, n := range nodes {
		if _, ok := g.index[n.ID]; ok {
			continue
		}
		g.insert(n)
	}
	for _, e := range edges {
		g.Connect(e.Source, e.Target)
	}
}

func (g *Graph) insert(n Node) {
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, &n)
}

// AddNode creates a node with a fresh ID
func (g *Graph) AddNode(t NodeType, pos Point, data NodeData) Node {
	id := g.newID()
	for g.has(id) {
		id = g.newID()
	}
	n := Node{ID: id, Type: t, Position: pos, Data: data}
	g.insert(n)
	return n
}

func (g *Graph) has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the node with the given ID
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return *g.nodes[i], true
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// MoveNode replaces the position of a node. Unknown IDs are ignored.
func (g *Graph) MoveNode(id string, pos Point) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	g.nodes[i].Position = pos
	return *g.nodes[i], true
}

// UpdateNodeData shallow-merges patch into the node's data. Unknown IDs are ignored.
func (g *Graph) UpdateNodeData(id string, patch DataPatch) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	n := g.nodes[i]
	data := n.Data
	if data == nil {
		data, _ = DefaultData(n.Type)
	}
	if data != nil {
		n.Data = data.Apply(patch)
	}
	return *n, true
}

// Connect links source to target, replacing any edge already leaving source.
// It does not check that either node exists.
func (g *Graph) Connect(source, target string) Edge {
	if _, ok := g.edges[source]; ok {
		for i, s := range g.sources {
			if s == source {
				g.sources = append(g.sources[:i], g.sources[i+1:]...)
				break
			}
		}
	}
	e := Edge{ID: EdgeID(source, target), Source: source, Target: target}
	g.edges[source] = e
	g.sources = append(g.sources, source)
	return e
}

// OutgoingEdge returns the edge leaving source, if any
func (g *Graph) OutgoingEdge(source string) (Edge, bool) {
	e, ok := g.edges[source]
	return e, ok
}

// Edges returns all edges in the order they were last connected
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.sources))
	for _, s := range g.sources {
		out = append(out, g.edges[s])
	}
	return out
}

// Flow snapshots the graph under the given name
func (g *Graph) Flow(name string) Flow {
	return Flow{
		Name:  name,
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	}
}
