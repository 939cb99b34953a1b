package views

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"flowbuilder/internal/adapters/tui/styles"
	"flowbuilder/internal/domain"
)

// PanelWidth is the number of columns taken by the side panel, border included
const PanelWidth = 34

// Panel rows, counted from the top of the body
const (
	paletteTileTop      = 2
	paletteTileBottom   = 4
	settingsBackRow     = 0
	settingsFieldTop    = 3
	settingsFieldBottom = 5
)

// panelContentWidth is the width left inside the panel border and padding
const panelContentWidth = PanelWidth - 3

// paletteItems lists the node types that can be dragged onto the canvas
var paletteItems = []domain.NodeType{domain.NodeTypeText}

func renderPalette(dragging bool) string {
	v := NewViewBuilder().
		Line(styles.PanelTitle.Render("Nodes Panel")).
		BlankLine()

	tile := styles.PaletteTile
	if dragging {
		tile = styles.PaletteTileActive
	}
	for _, t := range paletteItems {
		v.Line(tile.Width(panelContentWidth - 2).Render("✉ " + t.Label()))
	}

	hint := "Drag onto the canvas to add a message, or press a."
	if dragging {
		hint = "Release over the canvas to drop."
	}
	return v.BlankLine().
		Raw(styles.MutedText.Width(panelContentWidth).Render(hint)).
		String()
}

// SettingsPanel edits the selected node
type SettingsPanel struct {
	form   *InputForm
	nodeID string
}

// NewSettingsPanel creates a settings panel with an empty text field
func NewSettingsPanel() *SettingsPanel {
	form := NewInputForm(NewInputField("Text", "Enter your message...", 0))
	form.SetWidth(panelContentWidth - 5)
	return &SettingsPanel{form: form}
}

// Bind shows n in the panel. The text field is reloaded when the node
// changes or its text was changed elsewhere.
func (p *SettingsPanel) Bind(n domain.Node) {
	if p.nodeID != n.ID {
		p.form.Blur()
	}
	if p.nodeID != n.ID || p.form.Value(0) != n.Text() {
		p.form.SetValue(0, n.Text())
	}
	p.nodeID = n.ID
}

// NodeID returns the node currently bound to the panel
func (p *SettingsPanel) NodeID() string {
	return p.nodeID
}

// Focus starts editing the text field
func (p *SettingsPanel) Focus() tea.Cmd {
	return p.form.Focus(0)
}

// Blur stops editing the text field
func (p *SettingsPanel) Blur() {
	p.form.Blur()
}

// Focused reports whether the text field is being edited
func (p *SettingsPanel) Focused() bool {
	return p.form.Focused()
}

// Update feeds a key to the text field and reports the new text when it changed
func (p *SettingsPanel) Update(msg tea.Msg) (string, bool, tea.Cmd) {
	before := p.form.Value(0)
	_, cmd := p.form.Update(msg)
	after := p.form.Value(0)
	return after, after != before, cmd
}

// View renders the panel for n
func (p *SettingsPanel) View(n domain.Node) string {
	v := NewViewBuilder().
		Line(styles.HelpKey.Render("←") + " " + styles.PanelTitle.Render(n.Type.Label())).
		BlankLine().
		Line(styles.InputLabel.Render(p.form.Fields[0].Label)).
		Line(p.form.RenderField(0, panelContentWidth-2)).
		BlankLine().
		Muted("Node ID: " + n.ID).
		Muted("Position: " + FormatPosition(n.Position)).
		BlankLine()

	if p.form.Focused() {
		return v.Raw(p.form.RenderHelp("done")).String()
	}
	return v.Help(BuilderKeys.Edit, BuilderKeys.External).String()
}

// FormatPosition renders a position rounded to whole canvas units
func FormatPosition(p domain.Point) string {
	return fmt.Sprintf("(%d, %d)", int(math.Round(p.X)), int(math.Round(p.Y)))
}

func renderPanel(content string, height int) string {
	return styles.Panel.
		Width(PanelWidth-1).
		Height(height).
		MaxHeight(height).
		Padding(0, 1).
		Render(content)
}
