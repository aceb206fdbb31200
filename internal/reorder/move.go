// Package reorder computes section and card orderings for drag-and-drop
// gestures. Every function here is pure: inputs are never modified and
// results share every untouched node with the input.
package reorder

import (
	"slices"

	"github.com/nhle/taskboard/internal/model"
)

// Move returns a copy of items with the element at from relocated to to.
// All other elements keep their relative order. Out-of-range indices yield
// an unchanged copy.
func Move[T any](items []T, from, to int) []T {
	out := slices.Clone(items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	v := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, v)
}

// MoveCardWithinSection moves cardID to overCardID's index when both live in
// the same section. It reports false, returning ws, when either card is
// missing, they sit in different sections, or nothing would change.
func MoveCardWithinSection(ws *model.Workspace, cardID, overCardID string) (*model.Workspace, bool) {
	sec := ws.SectionOfCard(cardID)
	if sec == nil || sec.CardIndex(overCardID) < 0 {
		return ws, false
	}
	from, to := sec.CardIndex(cardID), sec.CardIndex(overCardID)
	if from == to {
		return ws, false
	}
	next := *sec
	next.Cards = Move(sec.Cards, from, to)
	return withSections(ws, &next), true
}

// MoveCardAcrossSections removes cardID from its section and inserts it into
// overCardID's section just before overCardID. Both sections change in the
// one returned workspace.
func MoveCardAcrossSections(ws *model.Workspace, cardID, overCardID string) (*model.Workspace, bool) {
	src, dst := ws.SectionOfCard(cardID), ws.SectionOfCard(overCardID)
	if src == nil || dst == nil || src.ID == dst.ID {
		return ws, false
	}
	return transfer(ws, src, dst, cardID, dst.CardIndex(overCardID)), true
}

// MoveCardToSection removes cardID from its section and appends it to
// sectionID. Dropping a card on its own section does nothing.
func MoveCardToSection(ws *model.Workspace, cardID, sectionID string) (*model.Workspace, bool) {
	src, dst := ws.SectionOfCard(cardID), ws.Section(sectionID)
	if src == nil || dst == nil || src.ID == dst.ID {
		return ws, false
	}
	return transfer(ws, src, dst, cardID, len(dst.Cards)), true
}

// MoveCard dispatches to the same-section or cross-section move depending on
// where the two cards currently live.
func MoveCard(ws *model.Workspace, cardID, overCardID string) (*model.Workspace, bool) {
	src, dst := ws.SectionOfCard(cardID), ws.SectionOfCard(overCardID)
	if src == nil || dst == nil || cardID == overCardID {
		return ws, false
	}
	if src.ID == dst.ID {
		return MoveCardWithinSection(ws, cardID, overCardID)
	}
	return MoveCardAcrossSections(ws, cardID, overCardID)
}

// MoveCardBeside places cardID directly before overCardID, or directly
// after it when after is set, in whichever section overCardID lives. It
// reports false when either card is missing or cardID already sits there.
func MoveCardBeside(ws *model.Workspace, cardID, overCardID string, after bool) (*model.Workspace, bool) {
	src, dst := ws.SectionOfCard(cardID), ws.SectionOfCard(overCardID)
	if src == nil || dst == nil || cardID == overCardID {
		return ws, false
	}

	at := dst.CardIndex(overCardID)
	if after {
		at++
	}
	if src.ID != dst.ID {
		return transfer(ws, src, dst, cardID, at), true
	}

	// at is an index into Cards with cardID still in it.
	from := src.CardIndex(cardID)
	if from < at {
		at--
	}
	if from == at {
		return ws, false
	}
	next := *src
	next.Cards = Move(src.Cards, from, at)
	return withSections(ws, &next), true
}

// MoveSection moves sectionID to overSectionID's index.
func MoveSection(ws *model.Workspace, sectionID, overSectionID string) (*model.Workspace, bool) {
	from, to := ws.SectionIndex(sectionID), ws.SectionIndex(overSectionID)
	if from < 0 || to < 0 || from == to {
		return ws, false
	}
	next := *ws
	next.Sections = Move(ws.Sections, from, to)
	return &next, true
}

// MoveWorkspace moves wsID to overID's index in the board's workspace list.
func MoveWorkspace(b *model.BoardState, wsID, overID string) (*model.BoardState, bool) {
	from, to := b.WorkspaceIndex(wsID), b.WorkspaceIndex(overID)
	if from < 0 || to < 0 || from == to {
		return b, false
	}
	next := *b
	next.Workspaces = Move(b.Workspaces, from, to)
	return &next, true
}

// transfer moves cardID from src to position at in dst.
func transfer(ws *model.Workspace, src, dst *model.Section, cardID string, at int) *model.Workspace {
	card := src.Card(cardID)

	nextSrc := *src
	nextSrc.Cards = slices.DeleteFunc(slices.Clone(src.Cards), func(c *model.Card) bool {
		return c.ID == cardID
	})

	nextDst := *dst
	nextDst.Cards = slices.Insert(slices.Clone(dst.Cards), at, card)

	return withSections(ws, &nextSrc, &nextDst)
}

// withSections returns a copy of ws with the given sections swapped in by ID.
func withSections(ws *model.Workspace, replaced ...*model.Section) *model.Workspace {
	next := *ws
	next.Sections = make([]*model.Section, len(ws.Sections))
	for i, s := range ws.Sections {
		next.Sections[i] = s
		for _, r := range replaced {
			if r.ID == s.ID {
				next.Sections[i] = r
			}
		}
	}
	return &next
}
