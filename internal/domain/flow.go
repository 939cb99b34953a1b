package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// NodeType tags the kind of a node and the shape of its data payload
type NodeType string

const (
	NodeTypeText NodeType = "textNode"
)

// DefaultText is the message a freshly dropped text node starts with
const DefaultText = "New message"

func (t NodeType) String() string {
	return string(t)
}

// Known reports whether t is a node kind this build can create and edit
func (t NodeType) Known() bool {
	_, ok := DefaultData(t)
	return ok
}

// Label returns the human-readable name shown in the palette and settings panel
func (t NodeType) Label() string {
	switch t {
	case NodeTypeText:
		return "Message"
	default:
		return string(t)
	}
}

// Point is a position in canvas-local coordinates, origin at the canvas top-left
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// ClampNonNegative returns p with both axes clamped to zero from below
func (p Point) ClampNonNegative() Point {
	return Point{X: max(0, p.X), Y: max(0, p.Y)}
}

// NodeData is the kind-specific payload of a node.
// Implementations are limited to this package; add a variant here to add a node kind.
type NodeData interface {
	Type() NodeType
	Apply(patch DataPatch) NodeData
	isNodeData()
}

// DataPatch is a partial update to node data. Nil fields are left as they are.
type DataPatch struct {
	Text *string
}

// TextPatch returns a patch that sets the message text
func TextPatch(text string) DataPatch {
	return DataPatch{Text: &text}
}

// IsEmpty reports whether the patch changes nothing
func (p DataPatch) IsEmpty() bool {
	return p.Text == nil
}

// TextData is the payload of a message node
type TextData struct {
	Text string `json:"text"`
}

func (TextData) Type() NodeType { return NodeTypeText }

// Apply shallow-merges the patch into a copy of d
func (d TextData) Apply(patch DataPatch) NodeData {
	if patch.Text != nil {
		d.Text = *patch.Text
	}
	return d
}

func (TextData) isNodeData() {}

// DefaultData returns the payload a new node of type t starts with
func DefaultData(t NodeType) (NodeData, bool) {
	switch t {
	case NodeTypeText:
		return TextData{Text: DefaultText}, true
	default:
		return nil, false
	}
}

// MessageText returns the message carried by d, or "" when d has none
func MessageText(d NodeData) string {
	if td, ok := d.(TextData); ok {
		return td.Text
	}
	return ""
}

// MarshalNodeData encodes a payload in its wire form
func MarshalNodeData(d NodeData) ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// UnmarshalNodeData decodes the wire form of a payload for a node of type t
func UnmarshalNodeData(t NodeType, raw []byte) (NodeData, error) {
	switch t {
	case NodeTypeText:
		var d TextData
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("decoding %s data: %w", t, err)
			}
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown node type %q", t)
	}
}

// Node is a message box on the canvas
type Node struct {
	ID       string
	Type     NodeType
	Position Point
	Data     NodeData
}

// Text returns the node's message text
func (n Node) Text() string {
	return MessageText(n.Data)
}

type nodeJSON struct {
	ID       string          `json:"id"`
	Type     NodeType        `json:"type"`
	Position Point           `json:"position"`
	Data     json.RawMessage `json:"data"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	data, err := MarshalNodeData(n.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeJSON{
		ID:       n.ID,
		Type:     n.Type,
		Position: n.Position,
		Data:     data,
	})
}

func (n *Node) UnmarshalJSON(b []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := UnmarshalNodeData(raw.Type, raw.Data)
	if err != nil {
		return err
	}
	*n = Node{
		ID:       raw.ID,
		Type:     raw.Type,
		Position: raw.Position,
		Data:     data,
	}
	return nil
}

// Edge connects the single output of Source to the input of Target
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeID derives an edge ID from its endpoints
func EdgeID(source, target string) string {
	return "e" + source + "-" + target
}

// Flow is a named snapshot of a graph, the unit that gets saved and loaded
type Flow struct {
	Name    string    `json:"name"`
	Nodes   []Node    `json:"nodes"`
	Edges   []Edge    `json:"edges"`
	SavedAt time.Time `json:"savedAt,omitzero"`
}

// FlowSummary describes a stored flow without its contents
type FlowSummary struct {
	Name    string
	Nodes   int
	Edges   int
	SavedAt time.Time
}

// DemoFlow returns the two connected messages shown when nothing has been saved yet
func DemoFlow(name string) Flow {
	return Flow{
		Name: name,
		Nodes: []Node{
			{ID: "1", Type: NodeTypeText, Position: Point{X: 100, Y: 100}, Data: TextData{Text: "test message 1"}},
			{ID: "2", Type: NodeTypeText, Position: Point{X: 400, Y: 100}, Data: TextData{Text: "test message 2"}},
		},
		Edges: []Edge{
			{ID: EdgeID("1", "2"), Source: "1", Target: "2"},
		},
	}
}
