package editor

import "flowbuilder/internal/domain"

// Viewport translates screen coordinates into canvas-local ones
type Viewport interface {
	// ToLocal returns false when the canvas origin cannot be resolved.
	ToLocal(screen domain.Point) (domain.Point, bool)
}

// GridViewport maps a block of terminal cells onto the canvas.
// Origin is the screen cell of the canvas's top-left corner and Scale the
// number of canvas units covered by one cell on each axis.
type GridViewport struct {
	Origin domain.Point
	Cols   int
	Rows   int
	ScaleX float64
	ScaleY float64
}

// ToLocal converts a screen cell to canvas units
func (v GridViewport) ToLocal(screen domain.Point) (domain.Point, bool) {
	if v.ScaleX <= 0 || v.ScaleY <= 0 {
		return domain.Point{}, false
	}
	d := screen.Sub(v.Origin)
	return domain.Point{X: d.X * v.ScaleX, Y: d.Y * v.ScaleY}, true
}

// Contains reports whether a screen cell lies on the canvas
func (v GridViewport) Contains(screen domain.Point) bool {
	d := screen.Sub(v.Origin)
	return d.X >= 0 && d.Y >= 0 && d.X < float64(v.Cols) && d.Y < float64(v.Rows)
}

// identity treats screen and canvas coordinates as the same space
type identity struct{}

func (identity) ToLocal(screen domain.Point) (domain.Point, bool) {
	return screen, true
}
