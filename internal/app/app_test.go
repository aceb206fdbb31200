package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/internal/ui/boardview"
	"github.com/nhle/taskboard/internal/ui/form"
	"github.com/nhle/taskboard/internal/ui/home"
	"github.com/nhle/taskboard/tests/testutil"
)

// update applies one message without running the returned command.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// press sends a key and feeds the messages emitted by the views back in.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		var cmd tea.Cmd
		m, cmd = update(t, m, msg)
		for i := 0; cmd != nil && i < 8; i++ {
			out := cmd()
			if out == nil {
				break
			}
			m, cmd = update(t, m, out)
		}
	}
	return m
}

// pressOpen sends a key whose view message opens a form, without running
// the form's own commands.
func pressOpen(t *testing.T, m Model, k string) Model {
	t.Helper()
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func sequentialIDs() func(string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestCreateAndOpenWorkspace(t *testing.T) {
	p, _ := testutil.NewTestPersister(t)
	ctrl := board.NewController(nil, board.Options{Persister: p, NewID: sequentialIDs()})
	m := sized(t, New(ctrl, nil))
	assert.Equal(t, ViewHome, m.CurrentView())

	m, _ = update(t, m, home.NewMsg{})
	assert.Equal(t, ViewForm, m.CurrentView())

	m, _ = update(t, m, form.SubmittedMsg{Title: "Plan"})
	assert.Equal(t, ViewHome, m.CurrentView())
	require.Len(t, ctrl.State().Workspaces, 1)
	wsID := ctrl.State().Workspaces[0].ID

	m, _ = update(t, m, home.OpenMsg{ID: wsID})
	assert.Equal(t, ViewBoard, m.CurrentView())
	assert.True(t, ctrl.State().IsActive(wsID))
	assert.Contains(t, m.View(), "Plan")

	saved, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wsID, *saved.ActiveWorkspaceID)
}

func TestScenarioThroughViews(t *testing.T) {
	ctrl := board.NewController(nil, board.Options{NewID: sequentialIDs()})
	wsID := ctrl.CreateWorkspace("Plan")
	ctrl.OpenWorkspace(wsID)
	m := sized(t, New(ctrl, nil))
	require.Equal(t, ViewBoard, m.CurrentView())

	m, _ = update(t, m, boardview.CreateSectionMsg{})
	m, _ = update(t, m, form.SubmittedMsg{Title: "Todo"})
	secID := ctrl.State().Workspace(wsID).Sections[0].ID

	m, _ = update(t, m, boardview.CreateCardMsg{SectionID: secID})
	m, _ = update(t, m, form.SubmittedMsg{Title: "Buy milk"})
	card := ctrl.State().Workspace(wsID).Section(secID).Cards[0]

	m, _ = update(t, m, boardview.CreateSubtaskMsg{SectionID: secID, CardID: card.ID})
	m, _ = update(t, m, form.SubmittedMsg{Title: "2%"})

	card = ctrl.State().Workspace(wsID).Section(secID).Card(card.ID)
	require.Len(t, card.Subtasks, 1)
	assert.Equal(t, "0/1", card.Progress().String())
	assert.Contains(t, m.View(), "0/1")

	// tab focuses the subtask, space toggles it.
	m = press(t, m, "tab", "space")
	card = ctrl.State().Workspace(wsID).Section(secID).Card(card.ID)
	assert.Equal(t, "1/1", card.Progress().String())

	m, _ = update(t, m, boardview.ToggleMsg{Path: board.Path{
		WorkspaceID: wsID, SectionID: secID, CardID: card.ID, SubtaskID: card.Subtasks[0].ID,
	}})
	card = ctrl.State().Workspace(wsID).Section(secID).Card(card.ID)
	assert.Equal(t, 0, card.Progress().Done)
	assert.Contains(t, m.View(), "0/1")
}

func TestRenameAndDeleteFlow(t *testing.T) {
	ctrl := board.NewController(nil, board.Options{NewID: sequentialIDs()})
	wsID := ctrl.CreateWorkspace("Plan")
	secID := ctrl.CreateSection(wsID, "Todo")
	ctrl.OpenWorkspace(wsID)
	m := sized(t, New(ctrl, nil))

	m, _ = update(t, m, boardview.RenameMsg{Path: board.Path{WorkspaceID: wsID, SectionID: secID}, Title: "Todo"})
	m, _ = update(t, m, form.SubmittedMsg{Title: "Doing"})
	assert.Equal(t, "Doing", ctrl.State().Workspace(wsID).Section(secID).Title)

	m, _ = update(t, m, boardview.DeleteMsg{Path: board.Path{WorkspaceID: wsID, SectionID: secID}, Title: "Doing"})
	m, _ = update(t, m, form.ConfirmedMsg{Yes: false})
	assert.NotNil(t, ctrl.State().Workspace(wsID).Section(secID), "kept when not confirmed")

	m, _ = update(t, m, boardview.DeleteMsg{Path: board.Path{WorkspaceID: wsID, SectionID: secID}, Title: "Doing"})
	m, _ = update(t, m, form.ConfirmedMsg{Yes: true})
	assert.Nil(t, ctrl.State().Workspace(wsID).Section(secID))
	assert.Equal(t, ViewBoard, m.CurrentView())

	m, _ = update(t, m, home.DeleteMsg{ID: wsID, Title: "Plan"})
	m, _ = update(t, m, form.ConfirmedMsg{Yes: true})
	assert.Empty(t, ctrl.State().Workspaces)
	assert.Nil(t, ctrl.State().ActiveWorkspaceID)
	assert.Equal(t, ViewHome, m.CurrentView())
}

func TestCancelledFormChangesNothing(t *testing.T) {
	ctrl := board.NewController(nil, board.Options{})
	m := sized(t, New(ctrl, nil))
	before := ctrl.State()

	m, _ = update(t, m, home.NewMsg{})
	m, _ = update(t, m, form.CancelMsg{})
	assert.Equal(t, ViewHome, m.CurrentView())
	assert.Same(t, before, ctrl.State())

	// A submit arriving with nothing pending is ignored too.
	_, _ = update(t, m, form.SubmittedMsg{Title: "stray"})
	assert.Same(t, before, ctrl.State())
}

func dragBoard(t *testing.T) (*board.Controller, Model, [5]string) {
	t.Helper()
	ctrl := board.NewController(nil, board.Options{NewID: sequentialIDs()})
	wsID := ctrl.CreateWorkspace("Plan")
	a := ctrl.CreateSection(wsID, "A")
	b := ctrl.CreateSection(wsID, "B")
	x := ctrl.CreateCard(wsID, a, "x")
	y := ctrl.CreateCard(wsID, a, "y")
	ctrl.CreateCard(wsID, b, "z")
	ctrl.OpenWorkspace(wsID)
	return ctrl, sized(t, New(ctrl, nil)), [5]string{wsID, a, b, x, y}
}

func titles(cards []*model.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func TestKeyboardCardDrag(t *testing.T) {
	ctrl, m, ids := dragBoard(t)
	wsID, a, b := ids[0], ids[1], ids[2]

	// Focus y, pick it up, hover the next section, drop.
	m = press(t, m, "j", "j", "m")
	_, dragging := ctrl.Dragging()
	require.True(t, dragging)
	assert.Contains(t, m.View(), "moving card")

	m = press(t, m, "l")
	ws := ctrl.State().Workspace(wsID)
	assert.Equal(t, []string{"x"}, titles(ws.Section(a).Cards))
	assert.Equal(t, []string{"y", "z"}, titles(ws.Section(b).Cards), "card moves while hovering")

	m = press(t, m, "enter")
	_, dragging = ctrl.Dragging()
	assert.False(t, dragging)
	assert.Equal(t, []string{"y", "z"}, titles(ctrl.State().Workspace(wsID).Section(b).Cards))
	assert.Equal(t, ViewBoard, m.CurrentView())
}

func TestKeyboardCardDragWithinSection(t *testing.T) {
	ctrl, m, ids := dragBoard(t)
	wsID, a := ids[0], ids[1]

	m = press(t, m, "j", "m", "j", "enter")
	assert.Equal(t, []string{"y", "x"}, titles(ctrl.State().Workspace(wsID).Section(a).Cards))

	// x is still focused after the move; moving it back up restores the order.
	press(t, m, "m", "k", "enter")
	assert.Equal(t, []string{"x", "y"}, titles(ctrl.State().Workspace(wsID).Section(a).Cards))
}

func TestKeyboardCardDragReversesWithinGesture(t *testing.T) {
	ctrl, m, ids := dragBoard(t)
	wsID, a := ids[0], ids[1]

	m = press(t, m, "j", "m", "j")
	assert.Equal(t, []string{"y", "x"}, titles(ctrl.State().Workspace(wsID).Section(a).Cards))

	m = press(t, m, "k")
	assert.Equal(t, []string{"x", "y"}, titles(ctrl.State().Workspace(wsID).Section(a).Cards), "k undoes j")

	press(t, m, "enter")
	assert.Equal(t, []string{"x", "y"}, titles(ctrl.State().Workspace(wsID).Section(a).Cards))
}

func TestKeyboardCardDragReversesAfterCrossing(t *testing.T) {
	ctrl, m, ids := dragBoard(t)
	wsID, a, b := ids[0], ids[1], ids[2]

	m = press(t, m, "j", "j", "m", "l")
	assert.Equal(t, []string{"y", "z"}, titles(ctrl.State().Workspace(wsID).Section(b).Cards))

	m = press(t, m, "j")
	assert.Equal(t, []string{"z", "y"}, titles(ctrl.State().Workspace(wsID).Section(b).Cards))

	m = press(t, m, "k")
	assert.Equal(t, []string{"y", "z"}, titles(ctrl.State().Workspace(wsID).Section(b).Cards))

	press(t, m, "h", "enter")
	ws := ctrl.State().Workspace(wsID)
	assert.Equal(t, []string{"y", "x"}, titles(ws.Section(a).Cards))
	assert.Equal(t, []string{"z"}, titles(ws.Section(b).Cards))
}

func TestKeyboardSectionDrag(t *testing.T) {
	ctrl, m, ids := dragBoard(t)
	wsID, a, b := ids[0], ids[1], ids[2]

	m = press(t, m, "l", "M", "h")
	assert.Equal(t, a, ctrl.State().Workspace(wsID).Sections[0].ID, "sections move only on drop")

	press(t, m, "enter")
	ws := ctrl.State().Workspace(wsID)
	assert.Equal(t, b, ws.Sections[0].ID)
	assert.Equal(t, a, ws.Sections[1].ID)
}

func TestKeyboardDragCancel(t *testing.T) {
	ctrl, m, _ := dragBoard(t)
	before := ctrl.State()

	m = press(t, m, "l", "M", "h", "esc")
	_, dragging := ctrl.Dragging()
	assert.False(t, dragging)
	assert.Same(t, before, ctrl.State())
	assert.Equal(t, ViewBoard, m.CurrentView(), "esc while dragging does not leave the board")

	m = press(t, m, "esc")
	assert.Equal(t, ViewHome, m.CurrentView())
	assert.Nil(t, ctrl.State().ActiveWorkspaceID)
}

func TestHelpToggle(t *testing.T) {
	ctrl := board.NewController(nil, board.Options{})
	m := sized(t, New(ctrl, nil))

	m = press(t, m, "?")
	assert.Equal(t, ViewHelp, m.CurrentView())
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = press(t, m, "?")
	assert.Equal(t, ViewHome, m.CurrentView())
}

func TestQuit(t *testing.T) {
	ctrl := board.NewController(nil, board.Options{})
	m := sized(t, New(ctrl, nil))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

type brokenPersister struct{}

func (brokenPersister) Save(context.Context, *model.BoardState) error {
	return errors.New("disk full")
}

func TestSaveErrorShownInStatusBar(t *testing.T) {
	ctrl := board.NewController(nil, board.Options{Persister: brokenPersister{}})
	m := sized(t, New(ctrl, nil))

	m, _ = update(t, m, home.NewMsg{})
	m, _ = update(t, m, form.SubmittedMsg{Title: "Plan"})

	text, alert := m.statusText()
	assert.True(t, alert)
	assert.True(t, strings.Contains(text, "disk full"))
	assert.Len(t, ctrl.State().Workspaces, 1, "state stays authoritative")
}

func TestStartsOnBoardWhenWorkspaceActive(t *testing.T) {
	p, slot := testutil.NewTestPersister(t)
	require.NoError(t, p.Save(context.Background(), testutil.FixtureBoard()))

	loaded, err := p.Load(context.Background())
	require.NoError(t, err)
	ctrl := board.NewController(loaded, board.Options{Persister: store.NewPersister(slot)})

	m := sized(t, New(ctrl, nil))
	assert.Equal(t, ViewBoard, m.CurrentView())
	view := m.View()
	assert.Contains(t, view, "Todo")
	assert.Contains(t, view, "Buy milk")
}

func TestCardDetail(t *testing.T) {
	ctrl, m, ids := dragBoard(t)
	wsID, a, y := ids[0], ids[1], ids[4]
	ctrl.CreateSubtask(wsID, a, y, "first")
	ctrl.CreateSubtask(wsID, a, y, "second")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = press(t, m, "j", "j", "enter")
	require.Equal(t, ViewDetail, m.CurrentView())
	view := m.View()
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "0/2")

	m = press(t, m, "j", "j", "space")
	card := ctrl.State().Workspace(wsID).Section(a).Card(y)
	assert.False(t, card.Subtasks[0].Completed)
	assert.True(t, card.Subtasks[1].Completed)
	assert.Contains(t, m.View(), "1/2")

	// s opens a form; the new subtask lands on the shown card.
	m = pressOpen(t, m, "s")
	require.Equal(t, ViewForm, m.CurrentView())
	m, _ = update(t, m, form.SubmittedMsg{Title: "third"})
	assert.Equal(t, ViewDetail, m.CurrentView())
	assert.Len(t, ctrl.State().Workspace(wsID).Section(a).Card(y).Subtasks, 3)

	m = press(t, m, "esc")
	assert.Equal(t, ViewBoard, m.CurrentView())
}

func TestCardDetailClosesWhenCardDeleted(t *testing.T) {
	ctrl, m, ids := dragBoard(t)
	wsID, a, y := ids[0], ids[1], ids[4]

	m = press(t, m, "j", "j", "enter")
	require.Equal(t, ViewDetail, m.CurrentView())

	// Row -1 is the card itself.
	m = pressOpen(t, m, "d")
	require.Equal(t, ViewForm, m.CurrentView())
	m, _ = update(t, m, form.ConfirmedMsg{Yes: true})

	assert.Nil(t, ctrl.State().Workspace(wsID).Section(a).Card(y))
	assert.Equal(t, ViewBoard, m.CurrentView())
}
