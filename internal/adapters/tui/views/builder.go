package views

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"flowbuilder/internal/adapters/tui/styles"
	"flowbuilder/internal/application"
	"flowbuilder/internal/application/commands"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/editor"
	"flowbuilder/internal/ports"
)

// BuilderKeyMap defines key bindings for the flow builder view
type BuilderKeyMap struct {
	Save      key.Binding
	Add       key.Binding
	Next      key.Binding
	Prev      key.Binding
	Edit      key.Binding
	External  key.Binding
	Link      key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Copy      key.Binding
	Revert    key.Binding
	Search    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var BuilderKeys = BuilderKeyMap{
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "save"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add message"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next node"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous node"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("enter", "edit text"),
	),
	External: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "edit in $EDITOR"),
	),
	Link: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "connect"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "move left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "move right"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy JSON"),
	),
	Revert: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "revert"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

// Screen rows above the canvas
const (
	headerRow = 0
	toastRow  = 1
	bodyTop   = 2
)

const saveLabel = " Save Changes "

const toastClose = "[x]"

// toastDuration is how long a success toast stays up
const toastDuration = 3 * time.Second

type toast struct {
	text  string
	isErr bool
}

// BuilderModel is the model for the flow builder: canvas, side panel and save button
type BuilderModel struct {
	ViewState

	session  *editor.Session
	store    ports.FlowStore
	logger   *zap.Logger
	flowName string
	scaleX   float64
	scaleY   float64

	settings    *SettingsPanel
	search      *InputForm
	searching   bool
	paletteDrag bool
	linkFrom    string

	toast    toast
	toastSeq int
}

// NewBuilderModel creates a builder editing the session's graph as flowName.
// scaleX and scaleY are the canvas units covered by one terminal cell.
func NewBuilderModel(session *editor.Session, store ports.FlowStore, logger *zap.Logger, flowName string, scaleX, scaleY float64) *BuilderModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	search := NewInputForm(NewInputField("Find", "message text or node ID", 64))
	search.SetWidth(32)
	return &BuilderModel{
		session:  session,
		store:    store,
		logger:   logger,
		flowName: flowName,
		scaleX:   scaleX,
		scaleY:   scaleY,
		settings: NewSettingsPanel(),
		search:   search,
	}
}

// Init initializes the builder
func (m *BuilderModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions and the canvas viewport
func (m *BuilderModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.session.SetViewport(m.Viewport())
}

// Viewport returns the block of cells the canvas occupies
func (m *BuilderModel) Viewport() editor.GridViewport {
	return editor.GridViewport{
		Origin: domain.Point{X: 0, Y: bodyTop},
		Cols:   max(m.Width-PanelWidth, 1),
		Rows:   max(m.Height-bodyTop-1, 1),
		ScaleX: m.scaleX,
		ScaleY: m.scaleY,
	}
}

// Session returns the editing session behind the builder
func (m *BuilderModel) Session() *editor.Session {
	return m.session
}

// FlowName returns the name the flow is saved under
func (m *BuilderModel) FlowName() string {
	return m.flowName
}

// Toast returns the toast currently shown, if any
func (m *BuilderModel) Toast() (string, bool, bool) {
	return m.toast.text, m.toast.isErr, m.toast.text != ""
}

// DismissToast closes the toast
func (m *BuilderModel) DismissToast() {
	m.toast = toast{}
}

// Update handles messages for the builder
func (m *BuilderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		m.syncSettings()
		return m, cmd

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.syncSettings()
		return m, cmd

	case savedMsg:
		m.toastSeq++
		m.toast = toast{text: msg.result.Message}
		seq := m.toastSeq
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq}
		})

	case saveFailedMsg:
		m.toastSeq++
		text := msg.err.Error()
		if errors.Is(msg.err, application.ErrCannotSave) {
			text = application.SaveRejectedMessage
		}
		m.toast = toast{text: text, isErr: true}
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq && !m.toast.isErr {
			m.toast = toast{}
		}
		return m, nil

	case MessageEditedMsg:
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
			return m, nil
		}
		if m.session.UpdateNodeData(msg.NodeID, domain.TextPatch(msg.Text)) {
			m.SetMessage("Updated message text", false)
		}
		m.syncSettings()
		return m, nil
	}

	return m, nil
}

// --- mouse ---

// cellPoint is the screen point at the center of a terminal cell
func cellPoint(x, y int) domain.Point {
	return domain.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

func (m *BuilderModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	pt := cellPoint(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		return m.press(msg.X, msg.Y, pt)

	case tea.MouseActionMotion:
		m.session.PointerMove(pt)

	case tea.MouseActionRelease:
		if m.paletteDrag {
			m.paletteDrag = false
			if m.Viewport().Contains(pt) {
				m.dropAt(pt)
			} else {
				m.session.CancelPaletteDrag()
			}
		}
		m.session.PointerUp(pt)
	}
	return nil
}

func (m *BuilderModel) press(x, y int, pt domain.Point) tea.Cmd {
	vp := m.Viewport()

	switch {
	case y == headerRow && x >= m.Width-lipgloss.Width(saveLabel):
		return m.save()

	case y == toastRow && m.toast.isErr && m.onToastClose(x):
		m.DismissToast()
		return nil

	case vp.Contains(pt):
		m.settings.Blur()
		m.searching = false
		m.session.PointerDown(pt)
		return nil

	case y >= bodyTop && x >= vp.Cols:
		return m.pressPanel(y - bodyTop)
	}
	return nil
}

func (m *BuilderModel) pressPanel(row int) tea.Cmd {
	if _, ok := m.session.Selected(); ok {
		switch {
		case row == settingsBackRow:
			m.settings.Blur()
			m.session.Deselect()
		case row >= settingsFieldTop && row <= settingsFieldBottom:
			return m.settings.Focus()
		}
		return nil
	}

	if row >= paletteTileTop && row <= paletteTileBottom {
		m.session.BeginPaletteDrag(domain.NodeTypeText)
		m.paletteDrag = true
	}
	return nil
}

func (m *BuilderModel) onToastClose(x int) bool {
	start := lipgloss.Width(" " + m.toast.text + " ")
	return x >= start && x < start+lipgloss.Width(toastClose)
}

func (m *BuilderModel) dropAt(pt domain.Point) {
	if n, ok := m.session.Drop(pt); ok {
		m.SetMessage(fmt.Sprintf("Added %s at %s", n.Type.Label(), FormatPosition(n.Position)), false)
		return
	}
	m.session.CancelPaletteDrag()
}

// --- keyboard ---

func (m *BuilderModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.updateSearch(msg)
	}
	if m.settings.Focused() {
		return m.updateSettings(msg)
	}

	m.ClearMessage()

	switch {
	case key.Matches(msg, BuilderKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BuilderKeys.Save):
		return m.save()

	case key.Matches(msg, BuilderKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, BuilderKeys.Add):
		vp := m.Viewport()
		m.session.BeginPaletteDrag(domain.NodeTypeText)
		m.dropAt(domain.Point{X: float64(vp.Cols) / 2, Y: bodyTop + float64(vp.Rows)/2})

	case key.Matches(msg, BuilderKeys.Next):
		m.cycleSelection(1)

	case key.Matches(msg, BuilderKeys.Prev):
		m.cycleSelection(-1)

	case key.Matches(msg, BuilderKeys.Edit):
		if n, ok := m.session.Selected(); ok {
			m.settings.Bind(n)
			return m.settings.Focus()
		}

	case key.Matches(msg, BuilderKeys.External):
		return m.openEditor()

	case key.Matches(msg, BuilderKeys.Link):
		m.link()

	case key.Matches(msg, BuilderKeys.Back):
		m.back()

	case key.Matches(msg, BuilderKeys.Up):
		m.nudge(0, -m.scaleY)
	case key.Matches(msg, BuilderKeys.Down):
		m.nudge(0, m.scaleY)
	case key.Matches(msg, BuilderKeys.Left):
		m.nudge(-m.scaleX, 0)
	case key.Matches(msg, BuilderKeys.Right):
		m.nudge(m.scaleX, 0)

	case key.Matches(msg, BuilderKeys.Copy):
		m.copyFlow()

	case key.Matches(msg, BuilderKeys.Revert):
		m.revert()

	case key.Matches(msg, BuilderKeys.Search):
		m.searching = true
		m.search.SetValue(0, "")
		return m.search.Focus(0)
	}
	return nil
}

func (m *BuilderModel) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BuilderKeys.ForceQuit):
		return tea.Quit
	case msg.String() == "ctrl+s":
		return m.save()
	case key.Matches(msg, BuilderKeys.External):
		m.settings.Blur()
		return m.openEditor()
	case key.Matches(msg, m.settings.form.Keys.Submit, m.settings.form.Keys.Cancel):
		m.settings.Blur()
		return nil
	}

	text, changed, cmd := m.settings.Update(msg)
	if changed {
		m.session.UpdateNodeData(m.settings.NodeID(), domain.TextPatch(text))
	}
	return cmd
}

func (m *BuilderModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BuilderKeys.ForceQuit):
		return tea.Quit
	case key.Matches(msg, m.search.Keys.Submit, m.search.Keys.Cancel):
		m.searching = false
		m.search.Blur()
		return nil
	}

	_, cmd := m.search.Update(msg)
	query := strings.TrimSpace(m.search.Value(0))
	matches := commands.FuzzySort(m.session.Graph().Nodes(), query)
	switch {
	case query == "":
		m.ClearMessage()
	case len(matches) == 0:
		m.SetMessage("No match for "+query, true)
	default:
		m.session.Select(matches[0].Node.ID)
		m.SetMessage(fmt.Sprintf("%d match(es)", len(matches)), false)
	}
	return cmd
}

func (m *BuilderModel) cycleSelection(step int) {
	nodes := m.session.Graph().Nodes()
	if len(nodes) == 0 {
		return
	}
	next := 0
	if step < 0 {
		next = len(nodes) - 1
	}
	if cur, ok := m.session.Selected(); ok {
		for i, n := range nodes {
			if n.ID == cur.ID {
				next = (i + step + len(nodes)) % len(nodes)
				break
			}
		}
	}
	m.session.Select(nodes[next].ID)
}

func (m *BuilderModel) nudge(dx, dy float64) {
	n, ok := m.session.Selected()
	if !ok {
		return
	}
	pos := n.Position.Add(domain.Point{X: dx, Y: dy}).ClampNonNegative()
	m.session.MoveNode(n.ID, pos)
}

// link marks the selected node as a source, or connects the marked source to it
func (m *BuilderModel) link() {
	n, ok := m.session.Selected()
	if !ok {
		m.SetMessage("Select a node first", true)
		return
	}
	if m.linkFrom == "" || m.linkFrom == n.ID {
		m.linkFrom = n.ID
		m.SetMessage("Connecting from "+n.ID+": select a target and press c", false)
		return
	}
	source := m.linkFrom
	m.linkFrom = ""
	if _, ok := m.session.Connect(source, n.ID); !ok {
		m.SetMessage("Cannot connect "+source+" to "+n.ID, true)
		return
	}
	m.SetMessage("Connected "+source+" → "+n.ID, false)
}

func (m *BuilderModel) back() {
	switch {
	case m.linkFrom != "":
		m.linkFrom = ""
	case m.toast.isErr:
		m.DismissToast()
	default:
		m.session.ClickCanvas()
	}
}

func (m *BuilderModel) copyFlow() {
	data, err := json.MarshalIndent(m.session.Flow(m.flowName), "", "  ")
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		m.SetMessage("Clipboard unavailable: "+err.Error(), true)
		return
	}
	m.SetMessage("Copied flow JSON to clipboard", false)
}

func (m *BuilderModel) revert() {
	flow, err := commands.NewLoadFlowCommand(m.store, m.flowName).Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.session.Load(domain.GraphFromFlow(flow))
	m.linkFrom = ""
	m.SetMessage("Reverted to the saved flow", false)
}

func (m *BuilderModel) openEditor() tea.Cmd {
	n, ok := m.session.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return OpenEditorMsg{NodeID: n.ID, Text: n.Text()}
	}
}

func (m *BuilderModel) save() tea.Cmd {
	m.toast = toast{}
	flow := m.session.Flow(m.flowName)
	store, logger := m.store, m.logger
	return func() tea.Msg {
		result, err := commands.NewSaveFlowCommand(store, logger, flow).Execute(context.Background())
		if err != nil {
			return saveFailedMsg{err: err}
		}
		return savedMsg{result: result}
	}
}

func (m *BuilderModel) syncSettings() {
	if n, ok := m.session.Selected(); ok {
		m.settings.Bind(n)
		return
	}
	m.settings.Blur()
}

// --- view ---

// View renders the builder
func (m *BuilderModel) View() string {
	vp := m.Viewport()

	var panel string
	if n, ok := m.session.Selected(); ok {
		panel = m.settings.View(n)
	} else {
		panel = renderPalette(m.paletteDrag)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		NewCanvas(m.session, vp).Render(),
		renderPanel(panel, vp.Rows),
	)

	return strings.Join([]string{
		m.renderHeader(),
		m.renderToast(),
		body,
		m.renderStatus(),
	}, "\n")
}

func (m *BuilderModel) renderHeader() string {
	left := styles.Header.Render(" flowbuilder ") + styles.MutedText.Render(m.flowName)
	right := styles.SaveButton.Render(saveLabel)
	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m *BuilderModel) renderToast() string {
	switch {
	case m.toast.isErr:
		return styles.ToastError.Render(" " + m.toast.text + " " + toastClose + " ")
	case m.toast.text != "":
		return styles.ToastSuccess.Render(" ✓ " + m.toast.text)
	case m.Message != "":
		return " " + RenderMessage(m.Message, m.MessageErr)
	}
	return ""
}

func (m *BuilderModel) renderStatus() string {
	if m.searching {
		return styles.InputLabel.Render(" / ") + m.search.Fields[0].Input.View()
	}
	if _, ok := m.session.Selected(); ok {
		return " " + RenderHelpLine(BuilderKeys.Edit, BuilderKeys.Up, BuilderKeys.Link,
			BuilderKeys.Back, BuilderKeys.Save, BuilderKeys.Help)
	}
	return " " + RenderHelpLine(BuilderKeys.Add, BuilderKeys.Next, BuilderKeys.Save,
		BuilderKeys.Search, BuilderKeys.Copy, BuilderKeys.Help, BuilderKeys.Quit)
}
