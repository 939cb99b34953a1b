package editor

import "flowbuilder/internal/domain"

// GestureKind names the state of the pointer gesture machine
type GestureKind int

// Gesture states
const (
	GestureIdle GestureKind = iota
	GestureDragging
	GestureConnecting
)

func (k GestureKind) String() string {
	switch k {
	case GestureDragging:
		return "dragging"
	case GestureConnecting:
		return "connecting"
	default:
		return "idle"
	}
}

// gesture is one of idle, dragging or connecting
type gesture interface {
	kind() GestureKind
}

type idle struct{}

func (idle) kind() GestureKind { return GestureIdle }

// dragging moves nodeID by the pointer's travel since origin.
// origin is in screen space, nodeOrigin in canvas space.
type dragging struct {
	nodeID     string
	origin     domain.Point
	nodeOrigin domain.Point
}

func (dragging) kind() GestureKind { return GestureDragging }

// connecting draws a preview from the source's output anchor to the pointer,
// both in canvas space.
type connecting struct {
	sourceID string
	anchor   domain.Point
	pointer  domain.Point
}

func (connecting) kind() GestureKind { return GestureConnecting }
