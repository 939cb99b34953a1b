package editor

import (
	"go.uber.org/zap"

	"flowbuilder/internal/domain"
)

func (s *Session) beginDrag(id string, screen domain.Point) {
	n, ok := s.graph.Node(id)
	if !ok {
		return
	}
	s.selection.Select(n)
	s.state = dragging{
		nodeID:     id,
		origin:     screen,
		nodeOrigin: n.Position,
	}
	s.capture(PointerFuncs{Move: s.dragMove, Up: s.dragEnd})
	s.logger.Debug("drag started", zap.String("node", id))
}

func (s *Session) dragMove(screen domain.Point) {
	d, ok := s.state.(dragging)
	if !ok {
		return
	}
	from, ok := s.toLocal(d.origin)
	if !ok {
		return
	}
	to, ok := s.toLocal(screen)
	if !ok {
		return
	}
	pos := d.nodeOrigin.Add(to.Sub(from)).ClampNonNegative()
	s.MoveNode(d.nodeID, pos)
}

func (s *Session) dragEnd(domain.Point, Hit) {
	if d, ok := s.state.(dragging); ok {
		s.logger.Debug("drag ended", zap.String("node", d.nodeID))
	}
	s.endGesture()
}

// Dragging returns the node being dragged
func (s *Session) Dragging() (string, bool) {
	d, ok := s.state.(dragging)
	return d.nodeID, ok
}
