// Package home is the workspace picker shown when no workspace is open.
package home

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/theme"
)

// OpenMsg asks to open workspace ID.
type OpenMsg struct{ ID string }

// NewMsg asks for a new workspace.
type NewMsg struct{}

// RenameMsg asks to rename workspace ID, currently titled Title.
type RenameMsg struct{ ID, Title string }

// DeleteMsg asks to delete workspace ID, titled Title.
type DeleteMsg struct{ ID, Title string }

// ReorderMsg asks to move workspace ID to OverID's position.
type ReorderMsg struct{ ID, OverID string }

// workspaceItem wraps a workspace so it can be used in a bubbles/list.
type workspaceItem struct {
	ws *model.Workspace
}

func (i workspaceItem) FilterValue() string { return i.ws.Title }

// itemDelegate renders one workspace per line with its summary.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wi, ok := item.(workspaceItem)
	if !ok {
		return
	}

	summary := theme.BadgeStyle.Render(wi.ws.Summary())
	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(wi.ws.Title)+summary)
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(wi.ws.Title)+summary)
}

// Model lists the workspaces of the board.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a workspace list.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height)
	l.Title = "Workspaces"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = theme.HeaderStyle
	l.Styles.NoItems = theme.HelpStyle.PaddingLeft(2)
	l.SetStatusBarItemName("workspace", "workspaces")

	return Model{list: l, keys: k, width: width, height: height}
}

// SetWorkspaces replaces the listed workspaces, keeping the cursor on the
// same workspace when it still exists.
func (m *Model) SetWorkspaces(workspaces []*model.Workspace) {
	selected := m.SelectedID()

	items := make([]list.Item, len(workspaces))
	for i, ws := range workspaces {
		items[i] = workspaceItem{ws: ws}
	}
	m.list.SetItems(items)

	for i, ws := range workspaces {
		if ws.ID == selected {
			m.list.Select(i)
			return
		}
	}
	if m.list.Index() >= len(workspaces) && len(workspaces) > 0 {
		m.list.Select(len(workspaces) - 1)
	}
}

// Select moves the cursor to workspace id.
func (m *Model) Select(id string) {
	for i, item := range m.list.Items() {
		if item.(workspaceItem).ws.ID == id {
			m.list.Select(i)
			return
		}
	}
}

// SelectedID returns the id of the workspace under the cursor, or "".
func (m Model) SelectedID() string {
	if wi, ok := m.list.SelectedItem().(workspaceItem); ok {
		return wi.ws.ID
	}
	return ""
}

func (m Model) selected() (*model.Workspace, bool) {
	wi, ok := m.list.SelectedItem().(workspaceItem)
	if !ok {
		return nil, false
	}
	return wi.ws, true
}

// neighbour returns the id of the workspace offset positions away from the
// cursor, or "".
func (m Model) neighbour(offset int) string {
	i := m.list.Index() + offset
	items := m.list.Items()
	if i < 0 || i >= len(items) {
		return ""
	}
	return items[i].(workspaceItem).ws.ID
}

// Update handles key presses for the workspace list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		ws, hasSelection := m.selected()

		switch {
		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewMsg{} }

		case key.Matches(msg, m.keys.Select):
			if hasSelection {
				id := ws.ID
				return m, func() tea.Msg { return OpenMsg{ID: id} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Rename):
			if hasSelection {
				id, title := ws.ID, ws.Title
				return m, func() tea.Msg { return RenameMsg{ID: id, Title: title} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if hasSelection {
				id, title := ws.ID, ws.Title
				return m, func() tea.Msg { return DeleteMsg{ID: id, Title: title} }
			}
			return m, nil

		case key.Matches(msg, m.keys.MoveUp), key.Matches(msg, m.keys.MoveDown):
			offset := 1
			if key.Matches(msg, m.keys.MoveUp) {
				offset = -1
			}
			over := m.neighbour(offset)
			if hasSelection && over != "" {
				id := ws.ID
				return m, func() tea.Msg { return ReorderMsg{ID: id, OverID: over} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// handled by the list below
		default:
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the workspace list.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		empty := lipgloss.JoinVertical(lipgloss.Left,
			theme.HeaderStyle.Render("Workspaces"),
			"",
			theme.HelpStyle.Render("No workspaces yet. Press n to create one."),
		)
		return lipgloss.NewStyle().Padding(1, 2).Render(empty)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.list.View())
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(max(width-4, 0), max(height-2, 0))
}
