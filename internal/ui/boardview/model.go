// Package boardview renders the open workspace as columns of cards and turns
// key presses into board intents. It keeps no board data of its own beyond
// the workspace it was last given.
package boardview

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/reorder"
)

// CreateSectionMsg asks for a new section in the open workspace.
type CreateSectionMsg struct{}

// CreateCardMsg asks for a new card at the end of SectionID.
type CreateCardMsg struct{ SectionID string }

// CreateSubtaskMsg asks for a new subtask on a card.
type CreateSubtaskMsg struct{ SectionID, CardID string }

// RenameMsg asks to retitle the entity at Path, currently titled Title.
type RenameMsg struct {
	Path  board.Path
	Title string
}

// DeleteMsg asks to delete the entity at Path, titled Title.
type DeleteMsg struct {
	Path  board.Path
	Title string
}

// ToggleMsg asks to flip the subtask at Path.
type ToggleMsg struct{ Path board.Path }

// DragStartMsg picks up Target.
type DragStartMsg struct{ Target reorder.Target }

// DragOverMsg reports the cursor resting on Target while dragging.
type DragOverMsg struct{ Target reorder.Target }

// DragEndMsg drops on Target; a nil Target cancels the drag.
type DragEndMsg struct{ Target *reorder.Target }

// OpenCardMsg asks to show a card in detail.
type OpenCardMsg struct{ CardID string }

// BackMsg asks to close the workspace.
type BackMsg struct{}

// Model is the board view of one workspace.
type Model struct {
	keys *keys.KeyMap
	ws   *model.Workspace
	drag *reorder.Dragging

	// Focus is tracked by id so it survives moves. An empty cardID means
	// the section header is focused. subIdx is -1 when no subtask is.
	secID  string
	cardID string
	subIdx int

	width  int
	height int
}

// New creates an empty board view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, subIdx: -1, width: width, height: height}
}

// SetWorkspace shows ws with the gesture state drag (nil when idle).
// Focus stays on the same section and card when they still exist.
func (m *Model) SetWorkspace(ws *model.Workspace, drag *reorder.Dragging) {
	if m.ws == nil || ws == nil || m.ws.ID != ws.ID {
		m.secID, m.cardID, m.subIdx = "", "", -1
	}
	m.ws = ws
	m.drag = drag
	m.repairFocus()
}

// Workspace returns the workspace being shown.
func (m Model) Workspace() *model.Workspace {
	return m.ws
}

// Dragging reports whether a gesture is in progress.
func (m Model) Dragging() bool {
	return m.drag != nil
}

// FocusCard moves the cursor to cardID in secID.
func (m *Model) FocusCard(secID, cardID string) {
	m.secID, m.cardID, m.subIdx = secID, cardID, -1
	m.repairFocus()
}

// FocusSection moves the cursor to the header of secID.
func (m *Model) FocusSection(secID string) {
	m.secID, m.cardID, m.subIdx = secID, "", -1
	m.repairFocus()
}

// repairFocus points the cursor at something that exists: the focused card
// may have moved to another section, or been deleted.
func (m *Model) repairFocus() {
	if m.ws == nil || len(m.ws.Sections) == 0 {
		m.secID, m.cardID, m.subIdx = "", "", -1
		return
	}

	if m.cardID != "" {
		if sec := m.ws.SectionOfCard(m.cardID); sec != nil {
			m.secID = sec.ID
			m.clampSubtask()
			return
		}
		m.cardID = ""
		m.subIdx = -1
	}

	if m.ws.Section(m.secID) == nil {
		m.secID = m.ws.Sections[0].ID
	}
	m.subIdx = -1
}

func (m *Model) clampSubtask() {
	card := m.focusedCard()
	if card == nil || m.subIdx >= len(card.Subtasks) {
		m.subIdx = -1
	}
}

func (m Model) column() int {
	if m.ws == nil {
		return -1
	}
	return m.ws.SectionIndex(m.secID)
}

func (m Model) focusedSection() *model.Section {
	if m.ws == nil {
		return nil
	}
	return m.ws.Section(m.secID)
}

func (m Model) focusedCard() *model.Card {
	sec := m.focusedSection()
	if sec == nil || m.cardID == "" {
		return nil
	}
	return sec.Card(m.cardID)
}

func (m Model) focusedSubtask() *model.Subtask {
	card := m.focusedCard()
	if card == nil || m.subIdx < 0 || m.subIdx >= len(card.Subtasks) {
		return nil
	}
	return card.Subtasks[m.subIdx]
}

// target is the entity under the cursor as a drop target.
func (m Model) target() reorder.Target {
	if m.cardID != "" {
		return reorder.Target{ID: m.cardID, Kind: reorder.KindCard}
	}
	if m.secID != "" {
		return reorder.Target{ID: m.secID, Kind: reorder.KindSection}
	}
	return reorder.Target{}
}

// moveColumn shifts focus by delta sections, landing on the first card.
func (m *Model) moveColumn(delta int) bool {
	col := m.column()
	next := col + delta
	if col < 0 || next < 0 || next >= len(m.ws.Sections) {
		return false
	}
	sec := m.ws.Sections[next]
	m.secID = sec.ID
	m.cardID = ""
	if len(sec.Cards) > 0 {
		m.cardID = sec.Cards[0].ID
	}
	m.subIdx = -1
	return true
}

// moveRow shifts focus by delta within the column, where row -1 is the
// section header.
func (m *Model) moveRow(delta int) bool {
	sec := m.focusedSection()
	if sec == nil {
		return false
	}
	row := -1
	if m.cardID != "" {
		row = sec.CardIndex(m.cardID)
	}
	next := row + delta
	if next < -1 || next >= len(sec.Cards) {
		return false
	}
	m.cardID = ""
	if next >= 0 {
		m.cardID = sec.Cards[next].ID
	}
	m.subIdx = -1
	return true
}

func (m *Model) path() board.Path {
	p := board.Path{WorkspaceID: m.ws.ID, SectionID: m.secID}
	if m.cardID != "" {
		p.CardID = m.cardID
		if st := m.focusedSubtask(); st != nil {
			p.SubtaskID = st.ID
		}
	}
	return p
}

func (m Model) focusedTitle() string {
	if st := m.focusedSubtask(); st != nil {
		return st.Title
	}
	if card := m.focusedCard(); card != nil {
		return card.Title
	}
	if sec := m.focusedSection(); sec != nil {
		return sec.Title
	}
	return ""
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Update handles key presses.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.ws == nil {
		return m, nil
	}
	if m.drag != nil {
		return m.updateDragging(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, emit(BackMsg{})

	case key.Matches(keyMsg, m.keys.Left):
		m.moveColumn(-1)
	case key.Matches(keyMsg, m.keys.Right):
		m.moveColumn(1)
	case key.Matches(keyMsg, m.keys.Up):
		m.moveRow(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveRow(1)

	case key.Matches(keyMsg, m.keys.Select):
		if m.cardID != "" {
			return m, emit(OpenCardMsg{CardID: m.cardID})
		}

	case key.Matches(keyMsg, m.keys.NextSubtask):
		if card := m.focusedCard(); card != nil && len(card.Subtasks) > 0 {
			m.subIdx++
			if m.subIdx >= len(card.Subtasks) {
				m.subIdx = -1
			}
		}

	case key.Matches(keyMsg, m.keys.NewSection):
		return m, emit(CreateSectionMsg{})

	case key.Matches(keyMsg, m.keys.New):
		if m.secID == "" {
			return m, emit(CreateSectionMsg{})
		}
		return m, emit(CreateCardMsg{SectionID: m.secID})

	case key.Matches(keyMsg, m.keys.NewSubtask):
		if m.cardID != "" {
			return m, emit(CreateSubtaskMsg{SectionID: m.secID, CardID: m.cardID})
		}

	case key.Matches(keyMsg, m.keys.Rename):
		if m.secID != "" {
			return m, emit(RenameMsg{Path: m.path(), Title: m.focusedTitle()})
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if m.secID != "" {
			return m, emit(DeleteMsg{Path: m.path(), Title: m.focusedTitle()})
		}

	case key.Matches(keyMsg, m.keys.Toggle):
		if m.focusedSubtask() != nil {
			return m, emit(ToggleMsg{Path: m.path()})
		}

	case key.Matches(keyMsg, m.keys.PickCard):
		if m.cardID != "" {
			return m, emit(DragStartMsg{Target: reorder.Target{ID: m.cardID, Kind: reorder.KindCard}})
		}

	case key.Matches(keyMsg, m.keys.PickSection):
		if m.secID != "" {
			return m, emit(DragStartMsg{Target: reorder.Target{ID: m.secID, Kind: reorder.KindSection}})
		}
	}
	return m, nil
}

// updateDragging handles keys while a gesture is in progress.
func (m Model) updateDragging(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, emit(DragEndMsg{})
	case key.Matches(msg, m.keys.Select):
		t := m.target()
		return m, emit(DragEndMsg{Target: &t})
	}

	if m.drag.Kind == reorder.KindSection {
		// The cursor is the drop target; it visits section headers only.
		moved := false
		switch {
		case key.Matches(msg, m.keys.Left):
			moved = m.moveColumn(-1)
		case key.Matches(msg, m.keys.Right):
			moved = m.moveColumn(1)
		}
		m.cardID = ""
		if !moved {
			return m, nil
		}
		return m, emit(DragOverMsg{Target: m.target()})
	}

	// The cursor stays on the dragged card; each key hovers a neighbour so
	// the card moves one step in that direction.
	over, ok := m.cardNeighbour(msg)
	if !ok {
		return m, nil
	}
	return m, emit(DragOverMsg{Target: over})
}

// cardNeighbour returns the hover target one step from the dragged card.
// Targets carry an explicit place so that stepping back over the card just
// passed reverses the move.
func (m Model) cardNeighbour(msg tea.KeyMsg) (reorder.Target, bool) {
	sec := m.ws.SectionOfCard(m.drag.ID)
	if sec == nil {
		return reorder.Target{}, false
	}
	row := sec.CardIndex(m.drag.ID)

	switch {
	case key.Matches(msg, m.keys.Up):
		if row > 0 {
			return reorder.Target{ID: sec.Cards[row-1].ID, Kind: reorder.KindCard, Place: reorder.PlaceBefore}, true
		}
	case key.Matches(msg, m.keys.Down):
		if row < len(sec.Cards)-1 {
			return reorder.Target{ID: sec.Cards[row+1].ID, Kind: reorder.KindCard, Place: reorder.PlaceAfter}, true
		}
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		delta := 1
		if key.Matches(msg, m.keys.Left) {
			delta = -1
		}
		col := m.ws.SectionIndex(sec.ID) + delta
		if col < 0 || col >= len(m.ws.Sections) {
			return reorder.Target{}, false
		}
		next := m.ws.Sections[col]
		if len(next.Cards) == 0 {
			return reorder.Target{ID: next.ID, Kind: reorder.KindSection}, true
		}
		return reorder.Target{ID: next.Cards[min(row, len(next.Cards)-1)].ID, Kind: reorder.KindCard, Place: reorder.PlaceBefore}, true
	}
	return reorder.Target{}, false
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
