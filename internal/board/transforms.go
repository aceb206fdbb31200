package board

import "github.com/nhle/taskboard/internal/model"

// Transformations handed to the Update* functions. Each returns a fresh
// node and leaves its input untouched.

func renameWorkspace(title string) func(*model.Workspace) *model.Workspace {
	return func(w *model.Workspace) *model.Workspace {
		next := *w
		next.Title = title
		return &next
	}
}

func appendSection(sec *model.Section) func(*model.Workspace) *model.Workspace {
	return func(w *model.Workspace) *model.Workspace {
		next := *w
		next.Sections = appendItem(w.Sections, sec)
		return &next
	}
}

func removeSection(secID string) func(*model.Workspace) *model.Workspace {
	return func(w *model.Workspace) *model.Workspace {
		next := *w
		next.Sections = removeWhere(w.Sections, func(s *model.Section) bool { return s.ID == secID })
		return &next
	}
}

func renameSection(title string) func(*model.Section) *model.Section {
	return func(s *model.Section) *model.Section {
		next := *s
		next.Title = title
		return &next
	}
}

func appendCard(card *model.Card) func(*model.Section) *model.Section {
	return func(s *model.Section) *model.Section {
		next := *s
		next.Cards = appendItem(s.Cards, card)
		return &next
	}
}

func removeCard(cardID string) func(*model.Section) *model.Section {
	return func(s *model.Section) *model.Section {
		next := *s
		next.Cards = removeWhere(s.Cards, func(c *model.Card) bool { return c.ID == cardID })
		return &next
	}
}

func renameCard(title string) func(*model.Card) *model.Card {
	return func(c *model.Card) *model.Card {
		next := *c
		next.Title = title
		return &next
	}
}

func appendSubtask(st *model.Subtask) func(*model.Card) *model.Card {
	return func(c *model.Card) *model.Card {
		next := *c
		next.Subtasks = appendItem(c.Subtasks, st)
		return &next
	}
}

func removeSubtask(subID string) func(*model.Card) *model.Card {
	return func(c *model.Card) *model.Card {
		next := *c
		next.Subtasks = removeWhere(c.Subtasks, func(st *model.Subtask) bool { return st.ID == subID })
		return &next
	}
}

func renameSubtask(title string) func(*model.Subtask) *model.Subtask {
	return func(st *model.Subtask) *model.Subtask {
		next := *st
		next.Title = title
		return &next
	}
}

func toggleSubtask(st *model.Subtask) *model.Subtask {
	next := *st
	next.Completed = !st.Completed
	return &next
}

func replaceWorkspace(ws *model.Workspace) func(*model.Workspace) *model.Workspace {
	return func(*model.Workspace) *model.Workspace { return ws }
}
