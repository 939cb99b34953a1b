package views

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flowbuilder/internal/adapters/sqlite"
	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/editor"
)

const (
	testWidth  = 100
	testHeight = 30
	panelX     = testWidth - PanelWidth + 2
)

func newTestBuilder(t *testing.T, edges ...domain.Edge) (*BuilderModel, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore()
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "flows.db")))
	t.Cleanup(func() { store.Close() })

	g := domain.GraphFromFlow(domain.Flow{
		Name:  "main",
		Nodes: []domain.Node{message("a", 100, 100, "first"), message("b", 400, 100, "second")},
		Edges: edges,
	})
	m := NewBuilderModel(editor.NewSession(g), store, zap.NewNop(), "main", 10, 20)
	m.SetSize(testWidth, testHeight)
	return m, store
}

func mouse(m *BuilderModel, action tea.MouseAction, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return cmd
}

func press(m *BuilderModel, x, y int) tea.Cmd {
	return mouse(m, tea.MouseActionPress, x, y)
}

func move(m *BuilderModel, x, y int) {
	mouse(m, tea.MouseActionMotion, x, y)
}

func release(m *BuilderModel, x, y int) {
	mouse(m, tea.MouseActionRelease, x, y)
}

func typeKeys(m *BuilderModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyPress(m *BuilderModel, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

// run executes a command and feeds its message back into the model
func run(t *testing.T, m *BuilderModel, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	return next
}

func position(t *testing.T, m *BuilderModel, id string) domain.Point {
	t.Helper()
	n, ok := m.Session().Graph().Node(id)
	require.True(t, ok, "node %s missing", id)
	return n.Position
}

func TestBuilderDragMovesNode(t *testing.T) {
	m, _ := newTestBuilder(t)

	press(m, 15, 7)
	assert.Equal(t, editor.GestureDragging, m.Session().Gesture())
	move(m, 20, 9)
	release(m, 20, 9)

	assert.Equal(t, domain.Point{X: 150, Y: 140}, position(t, m, "a"))
	assert.Equal(t, editor.GestureIdle, m.Session().Gesture())
	sel, ok := m.Session().Selected()
	require.True(t, ok)
	assert.Equal(t, "a", sel.ID)
}

func TestBuilderConnectByMouse(t *testing.T) {
	m, _ := newTestBuilder(t)

	press(m, 30, 8)
	assert.Equal(t, editor.GestureConnecting, m.Session().Gesture())

	move(m, 39, 8)
	target, ok := m.Session().Highlighted()
	require.True(t, ok)
	assert.Equal(t, "b", target)

	release(m, 39, 8)
	assert.Equal(t, []domain.Edge{{ID: domain.EdgeID("a", "b"), Source: "a", Target: "b"}}, m.Session().Graph().Edges())
	assert.Equal(t, editor.GestureIdle, m.Session().Gesture())
}

func TestBuilderPaletteDrop(t *testing.T) {
	m, _ := newTestBuilder(t)

	press(m, panelX, bodyTop+paletteTileTop+1)
	pending, ok := m.Session().PendingDrop()
	require.True(t, ok)
	assert.Equal(t, domain.NodeTypeText, pending)

	move(m, 20, 12)
	release(m, 20, 12)

	require.Equal(t, 3, m.Session().Graph().Len())
	added := m.Session().Graph().Nodes()[2]
	assert.Equal(t, domain.Point{X: 105, Y: 160}, added.Position)
	assert.Equal(t, domain.DefaultText, added.Text())
	_, ok = m.Session().PendingDrop()
	assert.False(t, ok)
}

func TestBuilderPaletteReleaseOffCanvasCancels(t *testing.T) {
	m, _ := newTestBuilder(t)

	press(m, panelX, bodyTop+paletteTileTop)
	release(m, panelX, bodyTop+10)

	assert.Equal(t, 2, m.Session().Graph().Len())
	_, ok := m.Session().PendingDrop()
	assert.False(t, ok)
}

func TestBuilderSaveRejected(t *testing.T) {
	m, store := newTestBuilder(t)

	cmd := press(m, testWidth-1, headerRow)
	run(t, m, cmd)

	text, isErr, shown := m.Toast()
	require.True(t, shown)
	assert.True(t, isErr)
	assert.Equal(t, application.SaveRejectedMessage, text)

	_, err := store.LoadFlow(context.Background(), "main")
	assert.ErrorIs(t, err, application.ErrNotFound)

	press(m, len(" "+text+" "), toastRow)
	_, _, shown = m.Toast()
	assert.False(t, shown)
}

func TestBuilderSaveSuccess(t *testing.T) {
	m, store := newTestBuilder(t, domain.Edge{ID: domain.EdgeID("a", "b"), Source: "a", Target: "b"})

	tick := run(t, m, keyPress(m, tea.KeyCtrlS))

	text, isErr, shown := m.Toast()
	require.True(t, shown)
	assert.False(t, isErr)
	assert.Equal(t, application.SavedMessage, text)
	assert.NotNil(t, tick)

	saved, err := store.LoadFlow(context.Background(), "main")
	require.NoError(t, err)
	assert.Len(t, saved.Nodes, 2)
	assert.Len(t, saved.Edges, 1)

	m.Update(toastExpiredMsg{seq: m.toastSeq})
	_, _, shown = m.Toast()
	assert.False(t, shown)
}

func TestBuilderStaleToastExpiryIsIgnored(t *testing.T) {
	m, _ := newTestBuilder(t, domain.Edge{ID: domain.EdgeID("a", "b"), Source: "a", Target: "b"})

	run(t, m, keyPress(m, tea.KeyCtrlS))
	stale := m.toastSeq
	run(t, m, keyPress(m, tea.KeyCtrlS))

	m.Update(toastExpiredMsg{seq: stale})
	_, _, shown := m.Toast()
	assert.True(t, shown)
}

func TestBuilderSettingsEditsText(t *testing.T) {
	m, _ := newTestBuilder(t)

	press(m, 15, 7)
	release(m, 15, 7)
	require.True(t, m.Session().IsSelected("a"))

	press(m, panelX, bodyTop+settingsFieldTop+1)
	require.True(t, m.settings.Focused())

	typeKeys(m, "!")
	n, _ := m.Session().Graph().Node("a")
	assert.Equal(t, "first!", n.Text())
	sel, _ := m.Session().Selected()
	assert.Equal(t, "first!", sel.Text())

	keyPress(m, tea.KeyEsc)
	assert.False(t, m.settings.Focused())

	press(m, panelX, bodyTop+settingsBackRow)
	_, ok := m.Session().Selected()
	assert.False(t, ok)
}

func TestBuilderClearedTextStaysEmpty(t *testing.T) {
	m, _ := newTestBuilder(t)
	m.Session().Select("a")
	m.syncSettings()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.settings.Focused())
	for range len("first") {
		keyPress(m, tea.KeyBackspace)
	}

	n, _ := m.Session().Graph().Node("a")
	assert.Equal(t, "", n.Text())
	assert.Contains(t, m.View(), EmptyMessage)
}

func TestBuilderKeyboardAdd(t *testing.T) {
	m, _ := newTestBuilder(t)

	typeKeys(m, "a")

	require.Equal(t, 3, m.Session().Graph().Len())
	added := m.Session().Graph().Nodes()[2]
	// center of a 66x27 canvas, shifted by half a card
	assert.Equal(t, domain.Point{X: 230, Y: 220}, added.Position)
}

func TestBuilderKeyboardLink(t *testing.T) {
	m, _ := newTestBuilder(t)

	m.Session().Select("a")
	typeKeys(m, "c")
	m.Session().Select("b")
	typeKeys(m, "c")

	assert.Equal(t, []domain.Edge{{ID: domain.EdgeID("a", "b"), Source: "a", Target: "b"}}, m.Session().Graph().Edges())
}

func TestBuilderKeyboardMoveAndCycle(t *testing.T) {
	m, _ := newTestBuilder(t)

	keyPress(m, tea.KeyTab)
	sel, ok := m.Session().Selected()
	require.True(t, ok)
	assert.Equal(t, "a", sel.ID)

	keyPress(m, tea.KeyTab)
	sel, _ = m.Session().Selected()
	assert.Equal(t, "b", sel.ID)

	keyPress(m, tea.KeyRight)
	keyPress(m, tea.KeyDown)
	assert.Equal(t, domain.Point{X: 410, Y: 120}, position(t, m, "b"))

	keyPress(m, tea.KeyEsc)
	_, ok = m.Session().Selected()
	assert.False(t, ok)
}

func TestBuilderKeyboardMoveStopsAtCanvasEdge(t *testing.T) {
	m, _ := newTestBuilder(t)
	m.Session().Select("a")

	for range 12 {
		keyPress(m, tea.KeyLeft)
		keyPress(m, tea.KeyUp)
	}

	assert.Equal(t, domain.Point{X: 0, Y: 0}, position(t, m, "a"))
	assert.Equal(t, editor.GestureIdle, m.Session().Gesture())
}

func TestBuilderSearchSelectsBestMatch(t *testing.T) {
	m, _ := newTestBuilder(t)

	typeKeys(m, "/")
	require.True(t, m.searching)
	typeKeys(m, "second")

	sel, ok := m.Session().Selected()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)

	keyPress(m, tea.KeyEnter)
	assert.False(t, m.searching)
}

func TestBuilderRevertReloadsSavedFlow(t *testing.T) {
	m, store := newTestBuilder(t)
	saved := domain.DemoFlow("main")
	require.NoError(t, store.SaveFlow(context.Background(), saved))

	keyPress(m, tea.KeyCtrlR)

	assert.Equal(t, 2, m.Session().Graph().Len())
	_, ok := m.Session().Graph().Node("1")
	assert.True(t, ok)
	assert.Len(t, m.Session().Graph().Edges(), 1)
}

func TestBuilderEditorResult(t *testing.T) {
	m, _ := newTestBuilder(t)
	m.Session().Select("a")

	cmd := keyPress(m, tea.KeyCtrlE)
	require.NotNil(t, cmd)
	msg, ok := cmd().(OpenEditorMsg)
	require.True(t, ok)
	assert.Equal(t, OpenEditorMsg{NodeID: "a", Text: "first"}, msg)

	m.Update(MessageEditedMsg{NodeID: "a", Text: "line one\nline two"})
	n, _ := m.Session().Graph().Node("a")
	assert.Equal(t, "line one\nline two", n.Text())
}

func TestBuilderView(t *testing.T) {
	m, _ := newTestBuilder(t)

	out := m.View()
	assert.Len(t, strings.Split(out, "\n"), testHeight)
	assert.Contains(t, out, "Save Changes")
	assert.Contains(t, out, "Nodes Panel")
	assert.Contains(t, out, CardHeader)

	m.Session().Select("a")
	out = m.View()
	assert.Contains(t, out, "Node ID: a")
	assert.Contains(t, out, "Position: (100, 100)")
}
