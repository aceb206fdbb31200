package boardview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/reorder"
	"github.com/nhle/taskboard/internal/theme"
)

const (
	minColumnWidth = 24
	maxColumnWidth = 40
)

// View renders the workspace as side-by-side columns. When the columns do
// not fit, a window of them around the focused one is shown.
func (m Model) View() string {
	if m.ws == nil {
		return ""
	}
	if len(m.ws.Sections) == 0 {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			theme.HelpStyle.Render("This workspace has no sections. Press N to add one."),
		)
	}

	width := m.columnWidth()
	first, last := m.visibleColumns(width)

	cols := make([]string, 0, last-first+2)
	if first > 0 {
		cols = append(cols, theme.HelpStyle.Render(fmt.Sprintf("‹%d", first)))
	}
	for i := first; i < last; i++ {
		cols = append(cols, m.renderColumn(m.ws.Sections[i], width))
	}
	if hidden := len(m.ws.Sections) - last; hidden > 0 {
		cols = append(cols, theme.HelpStyle.Render(fmt.Sprintf("%d›", hidden)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// columnWidth is the outer width of one column, borders included.
func (m Model) columnWidth() int {
	n := len(m.ws.Sections)
	w := minColumnWidth
	if n > 0 && m.width/n > w {
		w = m.width / n
	}
	return min(w, maxColumnWidth)
}

// visibleColumns returns the half-open range of sections to draw.
func (m Model) visibleColumns(width int) (int, int) {
	n := len(m.ws.Sections)
	fit := max(1, (m.width-4)/width)
	if fit >= n {
		return 0, n
	}
	col := max(m.column(), 0)
	first := max(0, col-fit/2)
	if first+fit > n {
		first = n - fit
	}
	return first, first + fit
}

func (m Model) renderColumn(sec *model.Section, width int) string {
	inner := width - 4 // border and padding
	focused := sec.ID == m.secID

	title := theme.ColumnTitleStyle.Render(truncate(sec.Title, inner-6))
	if m.draggingID(sec.ID) {
		title = theme.DraggingStyle.Render("⇄ " + truncate(sec.Title, inner-8))
	} else if focused && m.cardID == "" {
		if m.drag != nil {
			title = theme.HoverStyle.Render(truncate(sec.Title, inner-6))
		} else {
			title = theme.SelectedCardStyle.Render(truncate(sec.Title, inner-6))
		}
	}
	badge := theme.BadgeStyle.Render(fmt.Sprintf("%d", sec.CardCount()))
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, badge)

	lines := []string{header, ""}
	if len(sec.Cards) == 0 {
		lines = append(lines, theme.HelpStyle.Render("(empty)"))
	}
	for _, card := range sec.Cards {
		lines = append(lines, m.renderCard(card, inner, focused && card.ID == m.cardID)...)
	}

	style := theme.ColumnStyle
	if focused {
		style = theme.FocusedColumnStyle
	}
	return style.
		Width(width - 2).
		Height(max(m.height-2, 3)).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(card *model.Card, width int, focused bool) []string {
	p := card.Progress()
	counter := ""
	switch {
	case p.Complete():
		counter = " " + theme.ProgressStyle(p.Done, p.Total).Render("✓ "+p.String())
	case p.Total > 0:
		counter = " " + theme.ProgressStyle(p.Done, p.Total).Render(p.String())
	}
	title := truncate(card.Title, width-lipgloss.Width(counter)-2)

	var line string
	switch {
	case m.draggingID(card.ID):
		line = theme.DraggingStyle.Render("⇄ "+title) + counter
	case focused:
		line = theme.SelectedCardStyle.Render(title) + counter
	default:
		line = theme.CardStyle.Render(title) + counter
	}

	lines := []string{line}
	if !focused {
		return lines
	}
	for i, st := range card.Subtasks {
		box := "[ ]"
		text := truncate(st.Title, width-6)
		if st.Completed {
			box = "[x]"
			text = theme.DimmedStyle.Render(text)
		}
		entry := "  " + box + " " + text
		if i == m.subIdx {
			entry = theme.SelectedItemStyle.Render(box + " " + text)
		}
		lines = append(lines, entry)
	}
	return lines
}

func (m Model) draggingID(id string) bool {
	return m.drag != nil && m.drag.ID == id
}

// Hint returns the status bar text for the current mode.
func (m Model) Hint() string {
	if m.drag != nil {
		what := "card"
		if m.drag.Kind == reorder.KindSection {
			what = "section"
		}
		return fmt.Sprintf("moving %s: h/j/k/l move | enter drop | esc cancel", what)
	}
	return "h/l sections | j/k cards | n card | N section | s subtask | space toggle | m/M move | esc back | ? help"
}

func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
