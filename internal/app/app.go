package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/logging"
	"github.com/nhle/taskboard/internal/reorder"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/boardview"
	"github.com/nhle/taskboard/internal/ui/detail"
	"github.com/nhle/taskboard/internal/ui/form"
	helpview "github.com/nhle/taskboard/internal/ui/help"
	"github.com/nhle/taskboard/internal/ui/home"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewHome ViewState = iota
	ViewBoard
	ViewDetail
	ViewForm
	ViewHelp
)

// Model is the root Bubble Tea model. It routes input to the active view
// and turns view messages into Controller intents.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	ctrl         *board.Controller
	logger       *log.Logger
	keys         *keys.KeyMap
	home         home.Model
	boardView    boardview.Model
	detail       detail.Model
	formView     form.Model
	helpView     helpview.Model
	pending      pendingEdit
	notice       string
	ready        bool
}

// New creates the root model over ctrl. The board view opens directly when
// the stored state has an active workspace.
func New(ctrl *board.Controller, logger *log.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	k := keys.DefaultKeyMap()
	m := Model{
		currentView: ViewHome,
		ctrl:        ctrl,
		logger:      logger,
		keys:        k,
		home:        home.New(k, 80, 24),
		boardView:   boardview.New(k, 80, 24),
		detail:      detail.New(k, 80, 24),
		formView:    form.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
	m.sync()
	if ctrl.State().ActiveWorkspace() != nil {
		m.currentView = ViewBoard
	}
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// CurrentView returns the view being shown.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// sync pushes the controller's current state into the views.
func (m *Model) sync() {
	s := m.ctrl.State()
	m.home.SetWorkspaces(s.Workspaces)

	var drag *reorder.Dragging
	if d, ok := m.ctrl.Dragging(); ok {
		drag = &d
	}
	m.boardView.SetWorkspace(s.ActiveWorkspace(), drag)
	m.detail.SetWorkspace(s.ActiveWorkspace())

	if m.currentView == ViewDetail && !m.detail.Valid() {
		m.currentView = ViewBoard
	}
	if s.ActiveWorkspace() == nil && m.currentView == ViewBoard {
		m.currentView = ViewHome
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.home.SetSize(contentWidth, contentHeight)
		m.boardView.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case form.SubmittedMsg:
		m.currentView = m.previousView
		m.applyTitle(msg.Title)
		return m, nil

	case form.ConfirmedMsg:
		m.currentView = m.previousView
		if msg.Yes {
			m.applyDelete()
		}
		m.pending = pendingEdit{}
		return m, nil

	case form.CancelMsg:
		m.currentView = m.previousView
		m.pending = pendingEdit{}
		return m, nil

	case helpview.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case home.OpenMsg:
		m.ctrl.OpenWorkspace(msg.ID)
		m.sync()
		if m.ctrl.State().IsActive(msg.ID) {
			m.currentView = ViewBoard
		}
		return m, nil

	case home.NewMsg:
		return m, m.askTitle(pendingEdit{op: opCreateWorkspace}, "New workspace", "Title", "")

	case home.RenameMsg:
		p := pendingEdit{op: opRename, path: board.Path{WorkspaceID: msg.ID}}
		return m, m.askTitle(p, "Rename workspace", "Title", msg.Title)

	case home.DeleteMsg:
		p := pendingEdit{op: opDelete, path: board.Path{WorkspaceID: msg.ID}}
		return m, m.askConfirm(p, fmt.Sprintf("Delete workspace %q and everything in it?", msg.Title))

	case home.ReorderMsg:
		m.ctrl.ReorderWorkspaces(msg.ID, msg.OverID)
		m.sync()
		return m, nil

	case boardview.BackMsg:
		m.ctrl.CloseWorkspace()
		m.sync()
		m.currentView = ViewHome
		return m, nil

	case boardview.OpenCardMsg:
		m.detail.Show(m.ctrl.State().ActiveWorkspace(), msg.CardID)
		if m.detail.Valid() {
			m.currentView = ViewDetail
		}
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewBoard
		if ws := m.ctrl.State().ActiveWorkspace(); ws != nil {
			if sec := ws.SectionOfCard(msg.CardID); sec != nil {
				m.boardView.FocusCard(sec.ID, msg.CardID)
			}
		}
		return m, nil

	case boardview.CreateSectionMsg:
		p := pendingEdit{op: opCreateSection, path: board.Path{WorkspaceID: m.activeID()}}
		return m, m.askTitle(p, "New section", "Title", "")

	case boardview.CreateCardMsg:
		p := pendingEdit{op: opCreateCard, path: board.Path{WorkspaceID: m.activeID(), SectionID: msg.SectionID}}
		return m, m.askTitle(p, "New card", "Title", "")

	case boardview.CreateSubtaskMsg:
		p := pendingEdit{op: opCreateSubtask, path: board.Path{
			WorkspaceID: m.activeID(), SectionID: msg.SectionID, CardID: msg.CardID,
		}}
		return m, m.askTitle(p, "New subtask", "Title", "")

	case boardview.RenameMsg:
		return m, m.askTitle(pendingEdit{op: opRename, path: msg.Path}, "Rename "+msg.Path.Kind(), "Title", msg.Title)

	case boardview.DeleteMsg:
		p := pendingEdit{op: opDelete, path: msg.Path}
		return m, m.askConfirm(p, fmt.Sprintf("Delete %s %q?", msg.Path.Kind(), msg.Title))

	case boardview.ToggleMsg:
		p := msg.Path
		m.ctrl.ToggleSubtask(p.WorkspaceID, p.SectionID, p.CardID, p.SubtaskID)
		m.afterIntent()
		return m, nil

	case boardview.DragStartMsg:
		m.notice = ""
		if !m.ctrl.DragStart(msg.Target) {
			m.logger.Debug("drag start rejected", "target", msg.Target.ID)
			m.notice = "nothing to move here"
		}
		m.sync()
		return m, nil

	case boardview.DragOverMsg:
		m.ctrl.DragOver(msg.Target)
		m.afterIntent()
		return m, nil

	case boardview.DragEndMsg:
		m.ctrl.DragEnd(msg.Target)
		m.afterIntent()
		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewForm {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.ctrl.DragCancel()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Taskboard", m.headerContext())
	content := m.renderContent()
	text, alert := m.statusText()
	statusBar := m.layout.RenderStatusBar(text, alert)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHome:
		return m.home.View()
	case ViewBoard:
		return m.boardView.View()
	case ViewDetail:
		return m.detail.View()
	case ViewForm:
		return m.formView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// headerContext describes what is open.
func (m Model) headerContext() string {
	s := m.ctrl.State()
	if ws := s.ActiveWorkspace(); ws != nil {
		return fmt.Sprintf("%s · %s", ws.Title, ws.Summary())
	}
	if n := len(s.Workspaces); n != 1 {
		return fmt.Sprintf("%d workspaces", n)
	}
	return "1 workspace"
}

// statusText returns keyboard hints, or the last save error when there is
// one.
func (m Model) statusText() (string, bool) {
	if err := m.ctrl.LastSaveErr(); err != nil {
		return "not saved: " + err.Error(), true
	}
	if m.notice != "" {
		return m.notice, false
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back", false
	case ViewForm:
		return "enter submit | esc cancel", false
	case ViewBoard:
		return m.boardView.Hint(), false
	case ViewDetail:
		return m.detail.Hint(), false
	default:
		return "q quit | ? help | n new | enter open | r rename | d delete | K/J reorder", false
	}
}

func (m Model) activeID() string {
	if ws := m.ctrl.State().ActiveWorkspace(); ws != nil {
		return ws.ID
	}
	return ""
}

// afterIntent refreshes the views and clears the one-shot notice.
func (m *Model) afterIntent() {
	m.notice = ""
	m.sync()
}
