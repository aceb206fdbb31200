// Package detail shows one card with its subtasks in a scrollable pane.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui/boardview"
)

// BackMsg signals the parent to return to the board, focused on CardID.
type BackMsg struct{ CardID string }

const barWidth = 20

// Model is the card detail view. Row -1 is the card itself, rows from 0
// are its subtasks.
type Model struct {
	keys     *keys.KeyMap
	viewport viewport.Model
	ws       *model.Workspace
	cardID   string
	row      int
	width    int
	height   int
}

// New creates an empty detail view.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		keys:     k,
		viewport: vp,
		row:      -1,
		width:    width,
		height:   height,
	}
}

// Show opens cardID from ws with the card row selected.
func (m *Model) Show(ws *model.Workspace, cardID string) {
	m.ws = ws
	m.cardID = cardID
	m.row = -1
	m.refresh()
	m.viewport.GotoTop()
}

// SetWorkspace refreshes the view after a state change. The card is looked
// up again by id, so it may have moved sections.
func (m *Model) SetWorkspace(ws *model.Workspace) {
	m.ws = ws
	if card := m.card(); card != nil && m.row >= len(card.Subtasks) {
		m.row = len(card.Subtasks) - 1
	}
	m.refresh()
}

// Valid reports whether the shown card still exists.
func (m Model) Valid() bool {
	return m.card() != nil
}

// CardID returns the id of the shown card.
func (m Model) CardID() string {
	return m.cardID
}

func (m Model) section() *model.Section {
	if m.ws == nil {
		return nil
	}
	return m.ws.SectionOfCard(m.cardID)
}

func (m Model) card() *model.Card {
	sec := m.section()
	if sec == nil {
		return nil
	}
	return sec.Card(m.cardID)
}

func (m Model) path() board.Path {
	p := board.Path{WorkspaceID: m.ws.ID, SectionID: m.section().ID, CardID: m.cardID}
	if card := m.card(); m.row >= 0 && m.row < len(card.Subtasks) {
		p.SubtaskID = card.Subtasks[m.row].ID
	}
	return p
}

func (m Model) selectedTitle() string {
	card := m.card()
	if m.row >= 0 {
		return card.Subtasks[m.row].Title
	}
	return card.Title
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	card := m.card()
	if !ok || card == nil {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, emit(BackMsg{CardID: m.cardID})

	case key.Matches(keyMsg, m.keys.Up):
		if m.row > -1 {
			m.row--
			m.refresh()
		}
	case key.Matches(keyMsg, m.keys.Down), key.Matches(keyMsg, m.keys.NextSubtask):
		if m.row < len(card.Subtasks)-1 {
			m.row++
			m.refresh()
		}

	case key.Matches(keyMsg, m.keys.Toggle), key.Matches(keyMsg, m.keys.Select):
		if m.row >= 0 {
			return m, emit(boardview.ToggleMsg{Path: m.path()})
		}

	case key.Matches(keyMsg, m.keys.New), key.Matches(keyMsg, m.keys.NewSubtask):
		return m, emit(boardview.CreateSubtaskMsg{SectionID: m.section().ID, CardID: m.cardID})

	case key.Matches(keyMsg, m.keys.Rename):
		return m, emit(boardview.RenameMsg{Path: m.path(), Title: m.selectedTitle()})

	case key.Matches(keyMsg, m.keys.Delete):
		return m, emit(boardview.DeleteMsg{Path: m.path(), Title: m.selectedTitle()})

	default:
		// pgup/pgdn and friends scroll long subtask lists.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the detail view.
func (m Model) View() string {
	if m.card() == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No card selected")
	}
	return m.viewport.View()
}

// Hint returns the status bar text for the detail view.
func (m Model) Hint() string {
	return "j/k select | space toggle | s subtask | r rename | d delete | esc back"
}

// refresh re-renders the content and keeps the selected row visible.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())

	line := m.row + 5 // rows before the first subtask
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if h := m.viewport.Height; h > 0 && line >= m.viewport.YOffset+h {
		m.viewport.SetYOffset(line - h + 1)
	}
}

func (m Model) renderContent() string {
	sec, card := m.section(), m.card()
	if card == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	title := titleStyle.Render(card.Title)
	if m.row == -1 {
		title = theme.SelectedItemStyle.Render(card.Title)
	}

	p := card.Progress()
	lines := []string{
		title,
		metaStyle.Render(fmt.Sprintf("in %s · %s", sec.Title, m.ws.Title)),
		"",
		progressBar(p) + "  " + theme.ProgressStyle(p.Done, p.Total).Render(p.String()),
		"",
	}

	if len(card.Subtasks) == 0 {
		lines = append(lines, theme.HelpStyle.Render("No subtasks yet. Press s to add one."))
	}
	for i, st := range card.Subtasks {
		box, text := "[ ]", st.Title
		if st.Completed {
			box = "[x]"
			text = theme.DimmedStyle.Render(text)
		}
		entry := box + " " + text
		if i == m.row {
			lines = append(lines, theme.SelectedItemStyle.Render(entry))
		} else {
			lines = append(lines, theme.ListItemStyle.Render(entry))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func progressBar(p model.Progress) string {
	filled := int(p.Percent() / 100 * barWidth)
	bar := theme.ProgressStyle(p.Done, p.Total).Render(strings.Repeat("█", filled))
	return bar + lipgloss.NewStyle().Foreground(theme.ColorSubtle).Render(strings.Repeat("░", barWidth-filled))
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.refresh()
}
