// Package board owns the board state tree: path-addressed immutable updates
// and the state container that applies user intents to it.
package board

import "github.com/nhle/taskboard/internal/model"

// Path addresses a node in the tree. Components are filled from the left;
// an empty component ends the path. A path of depth 0 addresses the root.
type Path struct {
	WorkspaceID string
	SectionID   string
	CardID      string
	SubtaskID   string
}

// Depth returns how many leading components are set, or -1 when a set
// component follows an empty one.
func (p Path) Depth() int {
	ids := [...]string{p.WorkspaceID, p.SectionID, p.CardID, p.SubtaskID}
	depth := 0
	for depth < len(ids) && ids[depth] != "" {
		depth++
	}
	for _, id := range ids[depth:] {
		if id != "" {
			return -1
		}
	}
	return depth
}

// Parent returns p without its last set component.
func (p Path) Parent() Path {
	switch p.Depth() {
	case 4:
		p.SubtaskID = ""
	case 3:
		p.CardID = ""
	case 2:
		p.SectionID = ""
	default:
		return Path{}
	}
	return p
}

// Kind names the node type p addresses.
func (p Path) Kind() string {
	switch p.Depth() {
	case 0:
		return "board"
	case 1:
		return "workspace"
	case 2:
		return "section"
	case 3:
		return "card"
	case 4:
		return "subtask"
	default:
		return "item"
	}
}

// Mutation is a transformation for the node a Path addresses. Only the
// field matching the path depth is used.
type Mutation struct {
	Root      func(*model.BoardState) *model.BoardState
	Workspace func(*model.Workspace) *model.Workspace
	Section   func(*model.Section) *model.Section
	Card      func(*model.Card) *model.Card
	Subtask   func(*model.Subtask) *model.Subtask
}

// Apply replaces the node at p with the matching transformation's output.
// An unknown id anywhere on the path, a malformed path, or a missing
// transformation for the path depth returns s itself.
func Apply(s *model.BoardState, p Path, m Mutation) *model.BoardState {
	switch p.Depth() {
	case 0:
		if m.Root == nil {
			return s
		}
		return m.Root(s)
	case 1:
		if m.Workspace == nil {
			return s
		}
		return UpdateWorkspace(s, p.WorkspaceID, m.Workspace)
	case 2:
		if m.Section == nil {
			return s
		}
		return UpdateSection(s, p.WorkspaceID, p.SectionID, m.Section)
	case 3:
		if m.Card == nil {
			return s
		}
		return UpdateCard(s, p.WorkspaceID, p.SectionID, p.CardID, m.Card)
	case 4:
		if m.Subtask == nil {
			return s
		}
		return UpdateSubtask(s, p.WorkspaceID, p.SectionID, p.CardID, p.SubtaskID, m.Subtask)
	}
	return s
}

// Exists reports whether every id on p resolves.
func Exists(s *model.BoardState, p Path) bool {
	switch p.Depth() {
	case 0:
		return s != nil
	case 1:
		return s.Workspace(p.WorkspaceID) != nil
	case 2:
		return s.Workspace(p.WorkspaceID).Section(p.SectionID) != nil
	case 3:
		return s.Workspace(p.WorkspaceID).Section(p.SectionID).Card(p.CardID) != nil
	case 4:
		return s.Workspace(p.WorkspaceID).Section(p.SectionID).Card(p.CardID).Subtask(p.SubtaskID) != nil
	}
	return false
}

// UpdateWorkspace returns a new root with the workspace wsID replaced by
// fn's result. Every other workspace keeps its pointer.
func UpdateWorkspace(
	s *model.BoardState,
	wsID string,
	fn func(*model.Workspace) *model.Workspace,
) *model.BoardState {
	i := s.WorkspaceIndex(wsID)
	if i < 0 {
		return s
	}
	next := *s
	next.Workspaces = replaceAt(s.Workspaces, i, fn(s.Workspaces[i]))
	return &next
}

// UpdateSection returns a new root with one section replaced.
func UpdateSection(
	s *model.BoardState,
	wsID, secID string,
	fn func(*model.Section) *model.Section,
) *model.BoardState {
	if !Exists(s, Path{WorkspaceID: wsID, SectionID: secID}) {
		return s
	}
	return UpdateWorkspace(s, wsID, func(w *model.Workspace) *model.Workspace {
		i := w.SectionIndex(secID)
		next := *w
		next.Sections = replaceAt(w.Sections, i, fn(w.Sections[i]))
		return &next
	})
}

// UpdateCard returns a new root with one card replaced.
func UpdateCard(
	s *model.BoardState,
	wsID, secID, cardID string,
	fn func(*model.Card) *model.Card,
) *model.BoardState {
	if !Exists(s, Path{WorkspaceID: wsID, SectionID: secID, CardID: cardID}) {
		return s
	}
	return UpdateSection(s, wsID, secID, func(sec *model.Section) *model.Section {
		i := sec.CardIndex(cardID)
		next := *sec
		next.Cards = replaceAt(sec.Cards, i, fn(sec.Cards[i]))
		return &next
	})
}

// UpdateSubtask returns a new root with one subtask replaced.
func UpdateSubtask(
	s *model.BoardState,
	wsID, secID, cardID, subID string,
	fn func(*model.Subtask) *model.Subtask,
) *model.BoardState {
	p := Path{WorkspaceID: wsID, SectionID: secID, CardID: cardID, SubtaskID: subID}
	if !Exists(s, p) {
		return s
	}
	return UpdateCard(s, wsID, secID, cardID, func(c *model.Card) *model.Card {
		next := *c
		next.Subtasks = make([]*model.Subtask, len(c.Subtasks))
		for i, st := range c.Subtasks {
			if st.ID == subID {
				next.Subtasks[i] = fn(st)
				continue
			}
			next.Subtasks[i] = st
		}
		return &next
	})
}

// replaceAt copies items with position i set to v.
func replaceAt[T any](items []T, i int, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

// appendItem copies items with v added at the end.
func appendItem[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, v)
}

// removeWhere copies items without the elements matching drop.
func removeWhere[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}
