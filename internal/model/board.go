package model

// Subtask is a leaf checklist entry on a card.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Card is a task unit within a section.
type Card struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Subtasks []*Subtask `json:"subtasks"`
}

// Section is an ordered column of cards within a workspace.
type Section struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Cards []*Card `json:"cards"`
}

// Workspace is a top-level, independently browsable board.
type Workspace struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Sections []*Section `json:"sections"`
}

// BoardState is the root of the board tree.
//
// A *BoardState handed out by the state container is treated as immutable:
// transitions build a new root and copy only the path to the changed node,
// so anything reachable from an older root stays valid.
type BoardState struct {
	Workspaces        []*Workspace `json:"workspaces"`
	ActiveWorkspaceID *string      `json:"activeWorkspaceId"`
}

// EmptyBoard returns a board with no workspaces and no active workspace.
func EmptyBoard() *BoardState {
	return &BoardState{Workspaces: []*Workspace{}}
}

// Workspace returns the workspace with the given ID, or nil.
func (b *BoardState) Workspace(id string) *Workspace {
	if b == nil {
		return nil
	}
	for _, w := range b.Workspaces {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// WorkspaceIndex returns the position of the workspace with the given ID, or -1.
func (b *BoardState) WorkspaceIndex(id string) int {
	if b == nil {
		return -1
	}
	for i, w := range b.Workspaces {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// ActiveWorkspace returns the workspace referenced by ActiveWorkspaceID, or nil.
func (b *BoardState) ActiveWorkspace() *Workspace {
	if b == nil || b.ActiveWorkspaceID == nil {
		return nil
	}
	return b.Workspace(*b.ActiveWorkspaceID)
}

// IsActive reports whether id is the active workspace.
func (b *BoardState) IsActive(id string) bool {
	return b.ActiveWorkspaceID != nil && *b.ActiveWorkspaceID == id
}

// Section returns the section with the given ID, or nil.
func (w *Workspace) Section(id string) *Section {
	if w == nil {
		return nil
	}
	for _, s := range w.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SectionIndex returns the position of the section with the given ID, or -1.
func (w *Workspace) SectionIndex(id string) int {
	if w == nil {
		return -1
	}
	for i, s := range w.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// SectionOfCard returns the section that currently holds cardID, or nil.
func (w *Workspace) SectionOfCard(cardID string) *Section {
	if w == nil {
		return nil
	}
	for _, s := range w.Sections {
		if s.CardIndex(cardID) >= 0 {
			return s
		}
	}
	return nil
}

// Card returns the card with the given ID, or nil.
func (s *Section) Card(id string) *Card {
	if i := s.CardIndex(id); i >= 0 {
		return s.Cards[i]
	}
	return nil
}

// CardIndex returns the position of the card with the given ID, or -1.
func (s *Section) CardIndex(id string) int {
	if s == nil {
		return -1
	}
	for i, c := range s.Cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Subtask returns the subtask with the given ID, or nil.
func (c *Card) Subtask(id string) *Subtask {
	if c == nil {
		return nil
	}
	for _, st := range c.Subtasks {
		if st.ID == id {
			return st
		}
	}
	return nil
}
