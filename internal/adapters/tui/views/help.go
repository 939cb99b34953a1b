package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"flowbuilder/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBuilderMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("flowbuilder Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Chatbot flow builder"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Mouse"))
	b.WriteString("\n")
	b.WriteString(helpLine("drag Message tile", "Drop a new message onto the canvas"))
	b.WriteString(helpLine("drag a card", "Move the message"))
	b.WriteString(helpLine("click a card", "Select it and open its settings"))
	b.WriteString(helpLine("drag ● → ●", "Connect an output handle to an input handle"))
	b.WriteString(helpLine("click empty canvas", "Deselect / cancel a connection"))
	b.WriteString(helpLine("Save Changes", "Check and save the flow"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Keyboard"))
	b.WriteString("\n")
	b.WriteString(helpLine("a", "Add a message at the center"))
	b.WriteString(helpLine("tab / shift+tab", "Select next / previous message"))
	b.WriteString(helpLine("enter / e", "Edit the selected message"))
	b.WriteString(helpLine("ctrl+e", "Edit the selected message in $EDITOR"))
	b.WriteString(helpLine("arrows / hjkl", "Move the selected message"))
	b.WriteString(helpLine("c", "Connect from / to the selected message"))
	b.WriteString(helpLine("esc", "Deselect / dismiss"))
	b.WriteString(helpLine("s / ctrl+s", "Save"))
	b.WriteString(helpLine("ctrl+r", "Revert to the saved flow"))
	b.WriteString(helpLine("y", "Copy the flow as JSON"))
	b.WriteString(helpLine("/", "Find a message"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Saving"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  A flow with more than one message can only be saved"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  when at most one message has no incoming connection."))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	w := len([]rune(s))
	if w >= length {
		return s
	}
	return s + strings.Repeat(" ", length-w)
}

// SetSize updates the view dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
