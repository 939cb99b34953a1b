package editor

import (
	"go.uber.org/zap"

	"flowbuilder/internal/domain"
)

// Session owns a graph being edited together with its selection and the
// pointer gesture in progress. All methods must be called from one goroutine,
// in event delivery order.
type Session struct {
	graph     *domain.Graph
	selection domain.Selection
	layout    domain.Layout
	viewport  Viewport
	pointer   Pointer
	logger    *zap.Logger

	state   gesture
	release func()

	hovered    string // input handle under the pointer
	affordance string // input handle shown as a connection target

	token        domain.NodeType
	tokenPending bool
}

// Option configures a Session
type Option func(*Session)

// WithLayout sets the node geometry used for hit testing and anchors
func WithLayout(l domain.Layout) Option {
	return func(s *Session) {
		s.layout = l
	}
}

// WithViewport sets the screen to canvas translation
func WithViewport(v Viewport) Option {
	return func(s *Session) {
		s.viewport = v
	}
}

// WithLogger sets the session logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession starts editing g
func NewSession(g *domain.Graph, opts ...Option) *Session {
	s := &Session{
		graph:    g,
		layout:   domain.DefaultLayout(),
		viewport: identity{},
		logger:   zap.NewNop(),
		state:    idle{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Graph returns the graph being edited
func (s *Session) Graph() *domain.Graph {
	return s.graph
}

// Layout returns the node geometry
func (s *Session) Layout() domain.Layout {
	return s.layout
}

// SetViewport replaces the screen to canvas translation, e.g. after a resize
func (s *Session) SetViewport(v Viewport) {
	s.viewport = v
}

// Load replaces the graph, abandoning any gesture, selection and pending drop
func (s *Session) Load(g *domain.Graph) {
	s.endGesture()
	s.selection.Deselect()
	s.hovered = ""
	s.CancelPaletteDrag()
	s.graph = g
}

// Flow snapshots the graph under the given name
func (s *Session) Flow(name string) domain.Flow {
	return s.graph.Flow(name)
}

func (s *Session) toLocal(screen domain.Point) (domain.Point, bool) {
	if s.viewport == nil {
		return identity{}.ToLocal(screen)
	}
	return s.viewport.ToLocal(screen)
}

// --- graph mutations ---

// MoveNode moves a node and refreshes the selection in the same step
func (s *Session) MoveNode(id string, pos domain.Point) bool {
	n, ok := s.graph.MoveNode(id, pos)
	if ok {
		s.selection.Sync(n)
	}
	return ok
}

// UpdateNodeData merges patch into a node's data and refreshes the selection
func (s *Session) UpdateNodeData(id string, patch domain.DataPatch) bool {
	n, ok := s.graph.UpdateNodeData(id, patch)
	if ok {
		s.selection.Sync(n)
	}
	return ok
}

// Connect links source to target unless they are the same node or either is unknown
func (s *Session) Connect(source, target string) (domain.Edge, bool) {
	if source == target {
		return domain.Edge{}, false
	}
	if _, ok := s.graph.Node(source); !ok {
		return domain.Edge{}, false
	}
	if _, ok := s.graph.Node(target); !ok {
		return domain.Edge{}, false
	}

	prev, replaced := s.graph.OutgoingEdge(source)
	e := s.graph.Connect(source, target)
	if replaced {
		s.logger.Info("edge replaced",
			zap.String("source", source),
			zap.String("old_target", prev.Target),
			zap.String("target", target),
		)
	} else {
		s.logger.Info("edge connected", zap.String("source", source), zap.String("target", target))
	}
	return e, true
}

// --- selection ---

// Selected returns the selected node
func (s *Session) Selected() (domain.Node, bool) {
	return s.selection.Current()
}

// IsSelected reports whether the node is selected
func (s *Session) IsSelected(id string) bool {
	return s.selection.IsSelected(id)
}

// Select selects the node with the given ID if it exists
func (s *Session) Select(id string) bool {
	n, ok := s.graph.Node(id)
	if !ok {
		return false
	}
	s.selection.Select(n)
	return true
}

// Deselect clears the selection
func (s *Session) Deselect() {
	s.selection.Deselect()
}

// --- pointer input ---

// Gesture returns the current gesture state
func (s *Session) Gesture() GestureKind {
	return s.state.kind()
}

// Captured returns the number of active pointer captures
func (s *Session) Captured() int {
	return s.pointer.Captured()
}

// PointerDown handles a primary button press at a screen point on the canvas
func (s *Session) PointerDown(screen domain.Point) Hit {
	local, ok := s.toLocal(screen)
	if !ok {
		return Hit{}
	}
	hit := HitTest(s.graph, s.layout, local)
	switch {
	case s.state.kind() == GestureConnecting && hit.Kind == HitCanvas:
		s.ClickCanvas()
		return hit
	case s.state.kind() != GestureIdle:
		// A release got lost; a new press starts over.
		s.endGesture()
	}

	switch hit.Kind {
	case HitNodeBody:
		s.beginDrag(hit.NodeID, screen)
	case HitOutputHandle:
		s.beginConnect(hit.NodeID)
	case HitInputHandle:
		s.Select(hit.NodeID)
	case HitCanvas:
		s.ClickCanvas()
	}
	return hit
}

// PointerMove handles a pointer move anywhere on screen
func (s *Session) PointerMove(screen domain.Point) {
	s.pointer.Move(screen)

	hit := Hit{}
	if local, ok := s.toLocal(screen); ok {
		hit = HitTest(s.graph, s.layout, local)
	}
	s.trackHover(hit)
}

// PointerUp handles a button release anywhere on screen. Whatever gesture is
// active ends here.
func (s *Session) PointerUp(screen domain.Point) {
	hit := Hit{}
	if local, ok := s.toLocal(screen); ok {
		hit = HitTest(s.graph, s.layout, local)
	}
	s.pointer.Up(screen, hit)
}

// ClickCanvas handles a click on empty canvas: it cancels a connection in
// progress, otherwise it clears the selection.
func (s *Session) ClickCanvas() {
	if s.state.kind() == GestureConnecting {
		s.logger.Debug("connection cancelled")
		s.endGesture()
		return
	}
	s.Deselect()
}

func (s *Session) capture(h PointerHandler) {
	if s.release != nil {
		s.release()
	}
	s.release = s.pointer.Capture(h)
}

func (s *Session) endGesture() {
	s.state = idle{}
	s.affordance = ""
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// --- hover affordance ---

func (s *Session) trackHover(hit Hit) {
	next := ""
	if hit.Kind == HitInputHandle {
		next = hit.NodeID
	}
	if next == s.hovered {
		return
	}
	if s.hovered != "" {
		s.HoverLeave(s.hovered)
	}
	if next != "" {
		s.HoverEnter(next)
	}
}

// HoverEnter marks the pointer as over a node's input handle
func (s *Session) HoverEnter(id string) {
	s.hovered = id
	if c, ok := s.state.(connecting); ok && c.sourceID != id {
		s.affordance = id
	}
}

// HoverLeave marks the pointer as off a node's input handle and resets its affordance
func (s *Session) HoverLeave(id string) {
	if s.hovered == id {
		s.hovered = ""
	}
	s.affordance = ""
}

// Highlighted returns the input handle currently offered as a connection target
func (s *Session) Highlighted() (string, bool) {
	return s.affordance, s.affordance != ""
}
