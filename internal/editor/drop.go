package editor

import (
	"go.uber.org/zap"

	"flowbuilder/internal/domain"
)

// BeginPaletteDrag records the node type being dragged out of the palette
func (s *Session) BeginPaletteDrag(t domain.NodeType) {
	s.token = t
	s.tokenPending = true
}

// CancelPaletteDrag forgets the pending node type
func (s *Session) CancelPaletteDrag() {
	s.token = ""
	s.tokenPending = false
}

// PendingDrop returns the node type waiting to be dropped
func (s *Session) PendingDrop() (domain.NodeType, bool) {
	return s.token, s.tokenPending
}

// Drop places a node of the pending type centered under a screen point.
// Nothing happens without a pending known type or when the viewport cannot
// resolve the canvas. The type is consumed once a node is created.
func (s *Session) Drop(screen domain.Point) (domain.Node, bool) {
	if !s.tokenPending {
		return domain.Node{}, false
	}
	local, ok := s.toLocal(screen)
	if !ok {
		return domain.Node{}, false
	}
	data, ok := domain.DefaultData(s.token)
	if !ok {
		s.logger.Warn("dropped unknown node type", zap.Stringer("type", s.token))
		return domain.Node{}, false
	}

	pos := local.Sub(s.layout.DropOffset()).ClampNonNegative()
	n := s.graph.AddNode(s.token, pos, data)
	s.CancelPaletteDrag()

	s.logger.Info("node dropped",
		zap.String("node", n.ID),
		zap.Stringer("type", n.Type),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
	)
	return n, true
}
