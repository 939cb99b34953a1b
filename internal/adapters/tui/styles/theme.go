package styles

import (
	"github.com/charmbracelet/lipgloss"

	"flowbuilder/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Accent    = lipgloss.Color("#3B82F6") // Blue
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Node type colors
	MessageColor = lipgloss.Color("#2DD4BF") // Teal

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	SaveButton = lipgloss.NewStyle().
			Background(Accent).
			Foreground(White).
			Bold(true)

	// Toasts
	ToastError = lipgloss.NewStyle().
			Background(lipgloss.Color("#FEE2E2")).
			Foreground(lipgloss.Color("#B91C1C")).
			Bold(true)

	ToastSuccess = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Canvas
	CardBorder = lipgloss.NewStyle().
			Foreground(Muted)

	CardSelected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	CardDragging = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	CardTarget = lipgloss.NewStyle().
			Foreground(Secondary)

	CardHeader = lipgloss.NewStyle().
			Foreground(MessageColor).
			Bold(true)

	CardText = lipgloss.NewStyle()

	CardEmpty = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	Edge = lipgloss.NewStyle().
		Foreground(Muted)

	Preview = lipgloss.NewStyle().
		Foreground(Warning)

	Handle = lipgloss.NewStyle().
		Foreground(MessageColor)

	HandleTarget = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Side panel
	Panel = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Muted)

	PanelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(White)

	PaletteTile = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MessageColor).
			Foreground(MessageColor).
			Padding(0, 1)

	PaletteTileActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Warning).
				Foreground(Warning).
				Padding(0, 1)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Padding(0, 1).
			MarginRight(1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Search
	SearchMatch = lipgloss.NewStyle().
			Background(Warning).
			Foreground(Black)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// NodeColor returns the color for a node type
func NodeColor(t domain.NodeType) lipgloss.Color {
	switch t {
	case domain.NodeTypeText:
		return MessageColor
	default:
		return Primary
	}
}
