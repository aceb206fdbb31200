package model

import "fmt"

// Progress is the subtask completion tally of a card.
type Progress struct {
	Done  int
	Total int
}

// String renders the tally as "done/total".
func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Done, p.Total)
}

// Percent returns completion in the range 0-100. A card without subtasks is 0.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total) * 100
}

// Complete reports whether every subtask is done. Cards with no subtasks
// are never complete.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Done == p.Total
}

// Progress counts completed subtasks on the card.
func (c *Card) Progress() Progress {
	p := Progress{Total: len(c.Subtasks)}
	for _, st := range c.Subtasks {
		if st.Completed {
			p.Done++
		}
	}
	return p
}

// CardCount is the number shown on the section's badge.
func (s *Section) CardCount() int {
	return len(s.Cards)
}

// CardCount returns the number of cards across all sections.
func (w *Workspace) CardCount() int {
	n := 0
	for _, s := range w.Sections {
		n += len(s.Cards)
	}
	return n
}

// Summary renders e.g. "1 section, 3 cards".
func (w *Workspace) Summary() string {
	noun := "sections"
	if len(w.Sections) == 1 {
		noun = "section"
	}
	return fmt.Sprintf("%d %s, %d cards", len(w.Sections), noun, w.CardCount())
}
