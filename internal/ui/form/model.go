// Package form shows the small huh forms the board needs: a single title
// input for create/rename, and a yes/no confirmation for deletes.
package form

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
)

// SubmittedMsg is dispatched when a title form is completed. Title is
// trimmed and never blank.
type SubmittedMsg struct {
	Title string
}

// ConfirmedMsg is dispatched when a confirmation form is completed.
// Yes reports the answer.
type ConfirmedMsg struct {
	Yes bool
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title   string
	confirm bool
}

// Model is the Bubble Tea model for the title and confirmation forms.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	heading string
	confirm bool
	width   int
	height  int
}

// New creates an idle form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartTitle shows a title input prefilled with initial.
func (m *Model) StartTitle(heading, label, initial string) tea.Cmd {
	m.heading = heading
	m.confirm = false
	m.fb.title = initial
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(label).
				Placeholder("Enter a title").
				Value(&m.fb.title).
				Validate(validateRequired(label)),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
	return m.form.Init()
}

// StartConfirm asks a yes/no question, defaulting to no.
func (m *Model) StartConfirm(heading, question string) tea.Cmd {
	m.heading = heading
	m.confirm = true
	m.fb.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
	return m.form.Init()
}

// Active reports whether a form is showing.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.handleSubmit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.heading) + "\n" + m.form.View()

	return theme.PanelStyle.Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) handleSubmit() tea.Cmd {
	if m.confirm {
		yes := m.fb.confirm
		return func() tea.Msg { return ConfirmedMsg{Yes: yes} }
	}
	title := strings.TrimSpace(m.fb.title)
	return func() tea.Msg { return SubmittedMsg{Title: title} }
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 30 {
		w = 30
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
