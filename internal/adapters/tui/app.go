package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"flowbuilder/internal/adapters/editor"
	"flowbuilder/internal/adapters/tui/views"
	flowedit "flowbuilder/internal/editor"
	"flowbuilder/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBuilder ViewState = iota
	ViewHelp
)

// Options configures the TUI application
type Options struct {
	FlowName string
	// ScaleX and ScaleY are the canvas units covered by one terminal cell.
	ScaleX float64
	ScaleY float64
}

// App is the main TUI application model
type App struct {
	editor ports.EditorOpener
	logger *zap.Logger

	state   ViewState
	builder *views.BuilderModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(session *flowedit.Session, store ports.FlowStore, ed ports.EditorOpener, logger *zap.Logger, opts Options) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		editor:  ed,
		logger:  logger,
		state:   ViewBuilder,
		builder: views.NewBuilderModel(session, store, logger, opts.FlowName, opts.ScaleX, opts.ScaleY),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.builder.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.builder.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBuilderMsg:
		a.state = ViewBuilder
		return a, nil

	case views.OpenEditorMsg:
		a.state = ViewBuilder
		return a, a.openEditor(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBuilder:
		_, cmd = a.builder.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// openEditor writes the message to a temporary file, opens it in $EDITOR and
// reports the edited text back to the builder
func (a *App) openEditor(msg views.OpenEditorMsg) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	failed := func(err error) tea.Cmd {
		return func() tea.Msg {
			return views.MessageEditedMsg{NodeID: msg.NodeID, Err: err}
		}
	}

	file, err := editor.WriteMessageFile(msg.Text)
	if err != nil {
		return failed(err)
	}

	cmd, err := a.editor.Command(file.Path)
	if err != nil {
		file.ReadAndRemove()
		return failed(err)
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		text, readErr := file.ReadAndRemove()
		if err == nil {
			err = readErr
		}
		if err != nil {
			a.logger.Warn("editor failed", zap.String("node", msg.NodeID), zap.Error(err))
		}
		return views.MessageEditedMsg{NodeID: msg.NodeID, Text: text, Err: err}
	})
}

// State returns the view currently shown
func (a *App) State() ViewState {
	return a.state
}

// Builder returns the flow builder view
func (a *App) Builder() *views.BuilderModel {
	return a.builder
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewHelp:
		return a.help.View()
	default:
		return a.builder.View()
	}
}
