package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/board"
)

type editOp int

const (
	opNone editOp = iota
	opCreateWorkspace
	opCreateSection
	opCreateCard
	opCreateSubtask
	opRename
	opDelete
)

// pendingEdit remembers what an open form is for.
type pendingEdit struct {
	op   editOp
	path board.Path
}

func (m *Model) askTitle(p pendingEdit, heading, label, initial string) tea.Cmd {
	m.pending = p
	m.previousView = m.currentView
	m.currentView = ViewForm
	return m.formView.StartTitle(heading, label, initial)
}

func (m *Model) askConfirm(p pendingEdit, question string) tea.Cmd {
	m.pending = p
	m.previousView = m.currentView
	m.currentView = ViewForm
	return m.formView.StartConfirm("Delete", question)
}

// applyTitle runs the pending create or rename with title.
func (m *Model) applyTitle(title string) {
	op, p := m.pending.op, m.pending.path
	m.pending = pendingEdit{}

	switch op {
	case opCreateWorkspace:
		if id := m.ctrl.CreateWorkspace(title); id != "" {
			m.afterIntent()
			m.home.Select(id)
			return
		}

	case opCreateSection:
		if id := m.ctrl.CreateSection(p.WorkspaceID, title); id != "" {
			m.afterIntent()
			m.boardView.FocusSection(id)
			return
		}

	case opCreateCard:
		if id := m.ctrl.CreateCard(p.WorkspaceID, p.SectionID, title); id != "" {
			m.afterIntent()
			m.boardView.FocusCard(p.SectionID, id)
			return
		}

	case opCreateSubtask:
		m.ctrl.CreateSubtask(p.WorkspaceID, p.SectionID, p.CardID, title)

	case opRename:
		m.ctrl.Rename(p, title)
	}
	m.afterIntent()
}

// applyDelete runs the pending delete.
func (m *Model) applyDelete() {
	if m.pending.op != opDelete {
		return
	}
	m.ctrl.Delete(m.pending.path)
	m.afterIntent()
}
