package editor

import (
	"go.uber.org/zap"

	"flowbuilder/internal/domain"
)

func (s *Session) beginConnect(id string) {
	n, ok := s.graph.Node(id)
	if !ok {
		return
	}
	anchor := s.layout.OutputAnchor(n)
	s.state = connecting{
		sourceID: id,
		anchor:   anchor,
		pointer:  anchor,
	}
	s.capture(PointerFuncs{Move: s.connectMove, Up: s.connectEnd})
	s.logger.Debug("connection started", zap.String("source", id))
}

func (s *Session) connectMove(screen domain.Point) {
	c, ok := s.state.(connecting)
	if !ok {
		return
	}
	local, ok := s.toLocal(screen)
	if !ok {
		return
	}
	c.pointer = local
	s.state = c
}

func (s *Session) connectEnd(_ domain.Point, hit Hit) {
	c, ok := s.state.(connecting)
	s.endGesture()
	if !ok {
		return
	}
	if hit.Kind != HitInputHandle || hit.NodeID == c.sourceID {
		s.logger.Debug("connection discarded", zap.String("source", c.sourceID), zap.Stringer("released_on", hit.Kind))
		return
	}
	s.Connect(c.sourceID, hit.NodeID)
}

// Connecting returns the source node of the connection in progress
func (s *Session) Connecting() (string, bool) {
	c, ok := s.state.(connecting)
	return c.sourceID, ok
}

// Preview returns the curve from the connection anchor to the pointer
func (s *Session) Preview() (domain.Curve, bool) {
	c, ok := s.state.(connecting)
	if !ok {
		return domain.Curve{}, false
	}
	return domain.CurveBetween(c.anchor, c.pointer), true
}

// EdgeCurve pairs an edge with the curve drawn for it
type EdgeCurve struct {
	Edge  domain.Edge
	Curve domain.Curve
}

// EdgeCurves returns the curves of all edges whose endpoints exist
func (s *Session) EdgeCurves() []EdgeCurve {
	edges := s.graph.Edges()
	out := make([]EdgeCurve, 0, len(edges))
	for _, e := range edges {
		src, ok := s.graph.Node(e.Source)
		if !ok {
			continue
		}
		dst, ok := s.graph.Node(e.Target)
		if !ok {
			continue
		}
		out = append(out, EdgeCurve{Edge: e, Curve: s.layout.EdgeCurve(src, dst)})
	}
	return out
}
