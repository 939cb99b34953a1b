package editor

import "flowbuilder/internal/domain"

// HitKind says what part of the canvas a point falls on
type HitKind int

const (
	HitNone HitKind = iota
	HitCanvas
	HitNodeBody
	HitInputHandle
	HitOutputHandle
)

func (k HitKind) String() string {
	switch k {
	case HitCanvas:
		return "canvas"
	case HitNodeBody:
		return "node"
	case HitInputHandle:
		return "input handle"
	case HitOutputHandle:
		return "output handle"
	default:
		return "none"
	}
}

// Hit is the result of hit testing a canvas point
type Hit struct {
	Kind   HitKind
	NodeID string
}

// HitTest finds what lies under a canvas-local point. Later nodes are drawn
// on top, so they are tested first; a node's handles win over bodies.
func HitTest(g *domain.Graph, l domain.Layout, p domain.Point) Hit {
	nodes := g.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		switch {
		case l.InputHandle(n).Contains(p):
			return Hit{Kind: HitInputHandle, NodeID: n.ID}
		case l.OutputHandle(n).Contains(p):
			return Hit{Kind: HitOutputHandle, NodeID: n.ID}
		case l.Bounds(n).Contains(p):
			return Hit{Kind: HitNodeBody, NodeID: n.ID}
		}
	}
	return Hit{Kind: HitCanvas}
}
