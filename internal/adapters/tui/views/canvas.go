package views

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"flowbuilder/internal/adapters/tui/styles"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/editor"
)

// CardHeader is the title drawn on every message card
const CardHeader = "Send Message"

// EmptyMessage is shown on a card whose text is blank
const EmptyMessage = "Empty message"

type cellStyle uint8

const (
	styleBlank cellStyle = iota
	styleEdge
	stylePreview
	styleBorder
	styleSelected
	styleDragging
	styleTarget
	styleHeader
	styleText
	styleEmpty
	styleHandle
	styleHandleTarget
)

var cellStyles = map[cellStyle]lipgloss.Style{
	styleEdge:         styles.Edge,
	stylePreview:      styles.Preview,
	styleBorder:       styles.CardBorder,
	styleSelected:     styles.CardSelected,
	styleDragging:     styles.CardDragging,
	styleTarget:       styles.CardTarget,
	styleHeader:       styles.CardHeader,
	styleText:         styles.CardText,
	styleEmpty:        styles.CardEmpty,
	styleHandle:       styles.Handle,
	styleHandleTarget: styles.HandleTarget,
}

type cell struct {
	r     rune
	style cellStyle
}

// grid is a block of terminal cells the canvas is drawn into
type grid struct {
	cols, rows int
	cells      []cell
}

func newGrid(cols, rows int) *grid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range g.cells {
		g.cells[i] = cell{r: ' '}
	}
	return g
}

func (g *grid) set(col, row int, r rune, s cellStyle) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return
	}
	g.cells[row*g.cols+col] = cell{r: r, style: s}
}

func (g *grid) at(col, row int) cell {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return cell{}
	}
	return g.cells[row*g.cols+col]
}

func (g *grid) text(col, row int, s string, st cellStyle) {
	for _, r := range s {
		g.set(col, row, r, st)
		col++
	}
}

// lines renders each row, merging runs of equally styled cells
func (g *grid) lines() []string {
	out := make([]string, g.rows)
	var run strings.Builder
	for row := 0; row < g.rows; row++ {
		var b strings.Builder
		cur := styleBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == styleBlank {
				b.WriteString(run.String())
			} else {
				b.WriteString(cellStyles[cur].Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < g.cols; col++ {
			c := g.cells[row*g.cols+col]
			if c.style != cur {
				flush()
				cur = c.style
			}
			run.WriteRune(c.r)
		}
		flush()
		out[row] = b.String()
	}
	return out
}

// Canvas draws the graph of an editing session into a block of cells
type Canvas struct {
	session  *editor.Session
	viewport editor.GridViewport
}

// NewCanvas creates a canvas renderer for the session
func NewCanvas(s *editor.Session, vp editor.GridViewport) *Canvas {
	return &Canvas{session: s, viewport: vp}
}

// Render draws edges first, then the connection preview, then the cards on top
func (c *Canvas) Render() string {
	return strings.Join(c.draw().lines(), "\n")
}

func (c *Canvas) draw() *grid {
	g := newGrid(c.viewport.Cols, c.viewport.Rows)

	l := c.session.Layout()
	for _, ec := range c.session.EdgeCurves() {
		c.plot(g, ec.Curve, '•', styleEdge)
		if dst, ok := c.session.Graph().Node(ec.Edge.Target); ok {
			col, row := c.handleCell(l.InputHandle(dst), false)
			g.set(col-1, row, '▸', styleEdge)
		}
	}
	if preview, ok := c.session.Preview(); ok {
		c.plot(g, preview, '∙', stylePreview)
	}
	for _, n := range c.session.Graph().Nodes() {
		c.card(g, n)
	}
	return g
}

func (c *Canvas) plot(g *grid, curve domain.Curve, r rune, s cellStyle) {
	c0, r0 := c.cell(curve.From)
	c1, r1 := c.cell(curve.To)
	steps := 2*(abs(c1-c0)+abs(r1-r0)) + 4
	for _, p := range curve.Sample(steps) {
		col, row := c.cell(p)
		g.set(col, row, r, s)
	}
}

// cell returns the cell whose center is nearest to p; ties go up and left
func (c *Canvas) cell(p domain.Point) (col, row int) {
	return nearest(p.X, c.viewport.ScaleX), nearest(p.Y, c.viewport.ScaleY)
}

func nearest(v, scale float64) int {
	return int(math.Ceil(v/scale - 1))
}

// span returns the cells whose centers fall inside [lo, hi)
func span(lo, hi, scale float64) (first, end int) {
	first = int(math.Ceil(lo/scale - 0.5))
	end = int(math.Ceil(hi/scale - 0.5))
	return first, end
}

// handleCell returns the cell drawn for a handle. It is the outermost cell
// on the given side whose center lies in the handle's hit area, so clicking
// the glyph hits the handle.
func (c *Canvas) handleCell(area domain.Rect, outer bool) (col, row int) {
	first, end := span(area.Min.X, area.Max.X, c.viewport.ScaleX)
	top, bottom := span(area.Min.Y, area.Max.Y, c.viewport.ScaleY)
	if first >= end || top >= bottom {
		center := domain.Point{X: (area.Min.X + area.Max.X) / 2, Y: (area.Min.Y + area.Max.Y) / 2}
		return c.cell(center)
	}
	if outer {
		return end - 1, top
	}
	if first < 0 && end > 0 {
		// keep handles of nodes at the left edge on screen
		first = 0
	}
	return first, top
}

func (c *Canvas) cardStyle(id string) cellStyle {
	if dragged, ok := c.session.Dragging(); ok && dragged == id {
		return styleDragging
	}
	if c.session.IsSelected(id) {
		return styleSelected
	}
	if src, ok := c.session.Connecting(); ok && src != id {
		return styleTarget
	}
	return styleBorder
}

func (c *Canvas) card(g *grid, n domain.Node) {
	l := c.session.Layout()
	b := l.Bounds(n)
	left, right := span(b.Min.X, b.Max.X, c.viewport.ScaleX)
	top, bottom := span(b.Min.Y, b.Max.Y, c.viewport.ScaleY)
	w, h := right-left, bottom-top
	if w < 2 || h < 2 {
		return
	}
	border := c.cardStyle(n.ID)

	for row := top; row < bottom; row++ {
		for col := left; col < right; col++ {
			g.set(col, row, ' ', styleText)
		}
	}
	for col := left + 1; col < right-1; col++ {
		g.set(col, top, '─', border)
		g.set(col, bottom-1, '─', border)
	}
	for row := top + 1; row < bottom-1; row++ {
		g.set(left, row, '│', border)
		g.set(right-1, row, '│', border)
	}
	g.set(left, top, '╭', border)
	g.set(right-1, top, '╮', border)
	g.set(left, bottom-1, '╰', border)
	g.set(right-1, bottom-1, '╯', border)

	inner := w - 2
	if inner > 2 {
		g.text(left+1, top, truncate(" "+CardHeader+" ", inner), styleHeader)
	}

	text, st := n.Text(), styleText
	if strings.TrimSpace(text) == "" {
		text, st = EmptyMessage, styleEmpty
	}
	for i, line := range wrapText(text, inner-1, h-2) {
		g.text(left+2, top+1+i, line, st)
	}

	c.handles(g, n)
}

func (c *Canvas) handles(g *grid, n domain.Node) {
	l := c.session.Layout()
	source, connecting := c.session.Connecting()
	highlighted, _ := c.session.Highlighted()

	col, row := c.handleCell(l.InputHandle(n), false)
	switch {
	case highlighted == n.ID:
		g.set(col, row, '◉', styleHandleTarget)
	case connecting && source != n.ID:
		g.set(col, row, '○', styleHandleTarget)
	default:
		g.set(col, row, '●', styleHandle)
	}

	col, row = c.handleCell(l.OutputHandle(n), true)
	if connecting && source == n.ID {
		g.set(col, row, '◆', stylePreview)
	} else {
		g.set(col, row, '●', styleHandle)
	}
}

// wrapText breaks text into at most maxLines lines of width runes.
// Overflow is marked with an ellipsis on the last line.
func wrapText(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			for utf8.RuneCountInString(word) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				r := []rune(word)
				lines = append(lines, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case line == "":
				line = word
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncate(lines[maxLines-1]+"…", width)
		if !strings.HasSuffix(lines[maxLines-1], "…") {
			r := []rune(lines[maxLines-1])
			r[len(r)-1] = '…'
			lines[maxLines-1] = string(r)
		}
	}
	return lines
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
