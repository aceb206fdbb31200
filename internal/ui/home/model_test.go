package home

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
)

func workspaces() []*model.Workspace {
	return []*model.Workspace{
		{ID: "w1", Title: "Plan", Sections: []*model.Section{{ID: "s1", Title: "Todo", Cards: []*model.Card{}}}},
		{ID: "w2", Title: "Home", Sections: []*model.Section{}},
		{ID: "w3", Title: "Work", Sections: []*model.Section{}},
	}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func intent(t *testing.T, m Model, k tea.KeyMsg) tea.Msg {
	t.Helper()
	_, cmd := m.Update(k)
	require.NotNil(t, cmd)
	return cmd()
}

func TestIntents(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetWorkspaces(workspaces())

	assert.Equal(t, NewMsg{}, intent(t, m, runeKey("n")))
	assert.Equal(t, OpenMsg{ID: "w1"}, intent(t, m, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, RenameMsg{ID: "w1", Title: "Plan"}, intent(t, m, runeKey("r")))
	assert.Equal(t, DeleteMsg{ID: "w1", Title: "Plan"}, intent(t, m, runeKey("d")))
	assert.Equal(t, ReorderMsg{ID: "w1", OverID: "w2"}, intent(t, m, runeKey("J")))

	_, cmd := m.Update(runeKey("K"))
	assert.Nil(t, cmd, "first workspace cannot move up")
}

func TestCursorMovesAndSurvivesRefresh(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetWorkspaces(workspaces())

	m, _ = m.Update(runeKey("j"))
	assert.Equal(t, "w2", m.SelectedID())

	// w2 moves to the front; the cursor follows it.
	ws := workspaces()
	ws[0], ws[1] = ws[1], ws[0]
	m.SetWorkspaces(ws)
	assert.Equal(t, "w2", m.SelectedID())

	m.Select("w3")
	assert.Equal(t, "w3", m.SelectedID())

	// Deleting the last workspace clamps the cursor.
	m.SetWorkspaces(ws[:2])
	assert.Equal(t, "w1", m.SelectedID())
}

func TestEmptyList(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetWorkspaces(nil)

	assert.Empty(t, m.SelectedID())
	assert.Contains(t, m.View(), "No workspaces yet")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestViewShowsSummaries(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetWorkspaces(workspaces())

	view := m.View()
	assert.Contains(t, view, "Plan")
	assert.Contains(t, view, "1 section, 0 cards")
}
