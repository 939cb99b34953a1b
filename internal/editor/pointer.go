package editor

import "flowbuilder/internal/domain"

// PointerHandler receives global pointer events while it holds a capture
type PointerHandler interface {
	PointerMove(screen domain.Point)
	PointerUp(screen domain.Point, hit Hit)
}

// PointerFuncs adapts a pair of functions to PointerHandler
type PointerFuncs struct {
	Move func(screen domain.Point)
	Up   func(screen domain.Point, hit Hit)
}

func (f PointerFuncs) PointerMove(screen domain.Point) {
	if f.Move != nil {
		f.Move(screen)
	}
}

func (f PointerFuncs) PointerUp(screen domain.Point, hit Hit) {
	if f.Up != nil {
		f.Up(screen, hit)
	}
}

type capture struct {
	id      int
	handler PointerHandler
}

// Pointer fans global move and release events out to the handlers that captured it.
// Handlers are called in capture order.
type Pointer struct {
	captures []capture
	nextID   int
}

// Capture registers h until the returned release func is called.
// Calling release more than once is harmless.
func (p *Pointer) Capture(h PointerHandler) (release func()) {
	p.nextID++
	id := p.nextID
	p.captures = append(p.captures, capture{id: id, handler: h})
	return func() {
		for i, c := range p.captures {
			if c.id == id {
				p.captures = append(p.captures[:i], p.captures[i+1:]...)
				return
			}
		}
	}
}

// Captured returns the number of handlers currently registered
func (p *Pointer) Captured() int {
	return len(p.captures)
}

// Move delivers a pointer move to every handler
func (p *Pointer) Move(screen domain.Point) {
	for _, c := range p.snapshot() {
		c.handler.PointerMove(screen)
	}
}

// Up delivers a pointer release to every handler
func (p *Pointer) Up(screen domain.Point, hit Hit) {
	for _, c := range p.snapshot() {
		c.handler.PointerUp(screen, hit)
	}
}

// snapshot lets handlers release their capture while being called
func (p *Pointer) snapshot() []capture {
	return append([]capture(nil), p.captures...)
}
