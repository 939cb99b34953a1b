package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Rect is an axis-aligned rectangle; Min is inclusive, Max exclusive
type Rect struct {
	Min, Max Point
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Layout holds the rendered geometry of a node in canvas units
type Layout struct {
	NodeWidth  float64
	NodeHeight float64
	// HandleY is the vertical offset of both handles from the node's top edge.
	HandleY    float64
	HandleSize float64
}

// DefaultLayout returns the geometry of the message card
func DefaultLayout() Layout {
	return Layout{
		NodeWidth:  200,
		NodeHeight: 100,
		HandleY:    40,
		HandleSize: 20,
	}
}

// Bounds returns the area covered by the node body
func (l Layout) Bounds(n Node) Rect {
	return Rect{
		Min: n.Position,
		Max: n.Position.Add(Point{X: l.NodeWidth, Y: l.NodeHeight}),
	}
}

// InputAnchor is where incoming edges end: the left edge at handle height
func (l Layout) InputAnchor(n Node) Point {
	return n.Position.Add(Point{X: 0, Y: l.HandleY})
}

// OutputAnchor is where the outgoing edge starts: the right edge at handle height
func (l Layout) OutputAnchor(n Node) Point {
	return n.Position.Add(Point{X: l.NodeWidth, Y: l.HandleY})
}

// InputHandle returns the hit area of the node's input handle
func (l Layout) InputHandle(n Node) Rect {
	return l.handle(l.InputAnchor(n))
}

// OutputHandle returns the hit area of the node's output handle
func (l Layout) OutputHandle(n Node) Rect {
	return l.handle(l.OutputAnchor(n))
}

func (l Layout) handle(center Point) Rect {
	half := l.HandleSize / 2
	return Rect{
		Min: Point{X: center.X - half, Y: center.Y - half},
		Max: Point{X: center.X + half, Y: center.Y + half},
	}
}

// DropOffset is subtracted from a drop point so the new node is centered under it
func (l Layout) DropOffset() Point {
	return Point{X: l.NodeWidth / 2, Y: l.NodeHeight / 2}
}

// Curve is a cubic Bézier curve
type Curve struct {
	From, C1, C2, To Point
}

// CurveBetween builds the S-curve used for edges and the connection preview.
// Both control points are offset horizontally by half the horizontal distance.
func CurveBetween(from, to Point) Curve {
	offset := math.Abs(to.X-from.X) * 0.5
	return Curve{
		From: from,
		C1:   Point{X: from.X + offset, Y: from.Y},
		C2:   Point{X: to.X - offset, Y: to.Y},
		To:   to,
	}
}

// EdgeCurve returns the curve drawn for an edge from src to dst
func (l Layout) EdgeCurve(src, dst Node) Curve {
	return CurveBetween(l.OutputAnchor(src), l.InputAnchor(dst))
}

// At evaluates the curve at t in [0, 1]
func (c Curve) At(t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Point{
		X: a*c.From.X + b*c.C1.X + d*c.C2.X + e*c.To.X,
		Y: a*c.From.Y + b*c.C1.Y + d*c.C2.Y + e*c.To.Y,
	}
}

// Sample returns n+1 evenly spaced points along the curve, endpoints included
func (c Curve) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = c.At(float64(i) / float64(n))
	}
	return pts
}

// Path renders the curve as an SVG path
func (c Curve) Path() string {
	return fmt.Sprintf("M %s %s C %s %s %s %s %s %s",
		num(c.From.X), num(c.From.Y),
		num(c.C1.X), num(c.C1.Y),
		num(c.C2.X), num(c.C2.Y),
		num(c.To.X), num(c.To.Y),
	)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
