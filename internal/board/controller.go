package board

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/reorder"
)

// Persister writes full board snapshots to durable storage.
type Persister interface {
	Save(ctx context.Context, b *model.BoardState) error
}

// Options configures a Controller.
type Options struct {
	// Persister receives a snapshot after every accepted transition.
	// Nil keeps the board in memory only.
	Persister Persister

	// Logger defaults to a logger that discards everything.
	Logger *log.Logger

	// WriteTimeout bounds each Save. Defaults to 2s.
	WriteTimeout time.Duration

	// NewID generates entity ids. Defaults to NewID.
	NewID func(prefix string) string
}

// Controller is the single owner of the board state. Every user intent is a
// method that replaces the state with a new root and then persists it.
//
// A Controller is not safe for concurrent use; it is driven from one event
// loop, which also gives transitions a strict order.
type Controller struct {
	state     *model.BoardState
	persister Persister
	logger    *log.Logger
	timeout   time.Duration
	newID     func(prefix string) string
	gesture   reorder.Gesture
	observers []func(*model.BoardState)
	saveErr   error
}

// NewController creates a Controller starting from initial. A nil initial
// state starts from an empty board.
func NewController(initial *model.BoardState, opts Options) *Controller {
	if initial == nil {
		initial = model.EmptyBoard()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 2 * time.Second
	}
	if opts.NewID == nil {
		opts.NewID = NewID
	}
	return &Controller{
		state:     initial,
		persister: opts.Persister,
		logger:    opts.Logger,
		timeout:   opts.WriteTimeout,
		newID:     opts.NewID,
	}
}

// State returns the current board. Callers must not modify it.
func (c *Controller) State() *model.BoardState {
	return c.state
}

// Subscribe registers fn to be called with the new state after every
// accepted transition.
func (c *Controller) Subscribe(fn func(*model.BoardState)) {
	c.observers = append(c.observers, fn)
}

// LastSaveErr returns the error from the most recent snapshot write, or nil
// if it succeeded. The in-memory state stays authoritative either way.
func (c *Controller) LastSaveErr() error {
	return c.saveErr
}

// commit installs next as the current state. When next is the current
// state (stale ids, nothing to do) it reports false and does nothing else.
func (c *Controller) commit(intent string, next *model.BoardState) bool {
	if next == c.state {
		c.logger.Debug("transition ignored", "intent", intent)
		return false
	}
	c.state = next
	c.persist(intent)
	for _, fn := range c.observers {
		fn(next)
	}
	return true
}

func (c *Controller) persist(intent string) {
	if c.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	c.saveErr = c.persister.Save(ctx, c.state)
	if c.saveErr != nil {
		c.logger.Error("saving board snapshot", "intent", intent, "err", c.saveErr)
	}
}

// cleanTitle trims title and reports whether anything is left.
func cleanTitle(title string) (string, bool) {
	title = strings.TrimSpace(title)
	return title, title != ""
}

// --- Workspaces ---

// CreateWorkspace appends a new empty workspace and returns its id, or ""
// when title is blank.
func (c *Controller) CreateWorkspace(title string) string {
	title, ok := cleanTitle(title)
	if !ok {
		return ""
	}
	ws := &model.Workspace{ID: c.newID(PrefixWorkspace), Title: title, Sections: []*model.Section{}}

	next := *c.state
	next.Workspaces = appendItem(c.state.Workspaces, ws)
	c.commit("create workspace", &next)
	return ws.ID
}

// RenameWorkspace sets the title of workspace id.
func (c *Controller) RenameWorkspace(id, title string) {
	c.Rename(Path{WorkspaceID: id}, title)
}

// DeleteWorkspace removes workspace id and everything in it. If it was the
// active workspace, no workspace is active afterwards.
func (c *Controller) DeleteWorkspace(id string) {
	if c.state.Workspace(id) == nil {
		c.commit("delete workspace", c.state)
		return
	}
	next := *c.state
	next.Workspaces = removeWhere(c.state.Workspaces, func(w *model.Workspace) bool { return w.ID == id })
	if c.state.IsActive(id) {
		next.ActiveWorkspaceID = nil
		c.gesture.Cancel()
	}
	c.commit("delete workspace", &next)
}

// OpenWorkspace makes id the active workspace.
func (c *Controller) OpenWorkspace(id string) {
	if c.state.Workspace(id) == nil || c.state.IsActive(id) {
		c.commit("open workspace", c.state)
		return
	}
	c.gesture.Cancel()
	next := *c.state
	next.ActiveWorkspaceID = &id
	c.commit("open workspace", &next)
}

// CloseWorkspace clears the active workspace.
func (c *Controller) CloseWorkspace() {
	c.gesture.Cancel()
	if c.state.ActiveWorkspaceID == nil {
		return
	}
	next := *c.state
	next.ActiveWorkspaceID = nil
	c.commit("close workspace", &next)
}

// ReorderWorkspaces moves workspace id to overID's position.
func (c *Controller) ReorderWorkspaces(id, overID string) {
	next, _ := reorder.MoveWorkspace(c.state, id, overID)
	c.commit("reorder workspaces", next)
}

// --- Sections ---

// CreateSection appends a new empty section to workspace wsID and returns
// its id, or "" when nothing was created.
func (c *Controller) CreateSection(wsID, title string) string {
	title, ok := cleanTitle(title)
	if !ok {
		return ""
	}
	sec := &model.Section{ID: c.newID(PrefixSection), Title: title, Cards: []*model.Card{}}
	if !c.commit("create section", UpdateWorkspace(c.state, wsID, appendSection(sec))) {
		return ""
	}
	return sec.ID
}

// RenameSection sets the title of a section.
func (c *Controller) RenameSection(wsID, secID, title string) {
	c.Rename(Path{WorkspaceID: wsID, SectionID: secID}, title)
}

// DeleteSection removes a section and all of its cards.
func (c *Controller) DeleteSection(wsID, secID string) {
	c.Delete(Path{WorkspaceID: wsID, SectionID: secID})
}

// ReorderSections moves secID to overSecID's position within workspace wsID.
func (c *Controller) ReorderSections(wsID, secID, overSecID string) {
	ws, ok := reorder.MoveSection(c.state.Workspace(wsID), secID, overSecID)
	next := c.state
	if ok {
		next = UpdateWorkspace(c.state, wsID, replaceWorkspace(ws))
	}
	c.commit("reorder sections", next)
}

// --- Cards ---

// CreateCard appends a new card to a section and returns its id, or "" when
// nothing was created.
func (c *Controller) CreateCard(wsID, secID, title string) string {
	title, ok := cleanTitle(title)
	if !ok {
		return ""
	}
	card := &model.Card{ID: c.newID(PrefixCard), Title: title, Subtasks: []*model.Subtask{}}
	if !c.commit("create card", UpdateSection(c.state, wsID, secID, appendCard(card))) {
		return ""
	}
	return card.ID
}

// RenameCard sets the title of a card.
func (c *Controller) RenameCard(wsID, secID, cardID, title string) {
	c.Rename(Path{WorkspaceID: wsID, SectionID: secID, CardID: cardID}, title)
}

// DeleteCard removes a card and its subtasks.
func (c *Controller) DeleteCard(wsID, secID, cardID string) {
	c.Delete(Path{WorkspaceID: wsID, SectionID: secID, CardID: cardID})
}

// MoveCard moves cardID onto overCardID's position, within its section or
// across sections (inserted before overCardID).
func (c *Controller) MoveCard(wsID, cardID, overCardID string) {
	ws, ok := reorder.MoveCard(c.state.Workspace(wsID), cardID, overCardID)
	next := c.state
	if ok {
		next = UpdateWorkspace(c.state, wsID, replaceWorkspace(ws))
	}
	c.commit("move card", next)
}

// MoveCardToSection appends cardID to the end of section secID.
func (c *Controller) MoveCardToSection(wsID, cardID, secID string) {
	ws, ok := reorder.MoveCardToSection(c.state.Workspace(wsID), cardID, secID)
	next := c.state
	if ok {
		next = UpdateWorkspace(c.state, wsID, replaceWorkspace(ws))
	}
	c.commit("move card to section", next)
}

// --- Subtasks ---

// CreateSubtask appends a new, incomplete subtask to a card and returns its
// id, or "" when nothing was created.
func (c *Controller) CreateSubtask(wsID, secID, cardID, title string) string {
	title, ok := cleanTitle(title)
	if !ok {
		return ""
	}
	st := &model.Subtask{ID: c.newID(PrefixSubtask), Title: title}
	if !c.commit("create subtask", UpdateCard(c.state, wsID, secID, cardID, appendSubtask(st))) {
		return ""
	}
	return st.ID
}

// RenameSubtask sets the title of a subtask.
func (c *Controller) RenameSubtask(wsID, secID, cardID, subID, title string) {
	c.Rename(Path{WorkspaceID: wsID, SectionID: secID, CardID: cardID, SubtaskID: subID}, title)
}

// DeleteSubtask removes a subtask.
func (c *Controller) DeleteSubtask(wsID, secID, cardID, subID string) {
	c.Delete(Path{WorkspaceID: wsID, SectionID: secID, CardID: cardID, SubtaskID: subID})
}

// ToggleSubtask flips the completion state of a subtask.
func (c *Controller) ToggleSubtask(wsID, secID, cardID, subID string) {
	c.commit("toggle subtask", UpdateSubtask(c.state, wsID, secID, cardID, subID, toggleSubtask))
}

// --- Path-addressed edits ---

// Rename retitles the workspace, section, card or subtask p addresses. Blank
// titles and paths that do not resolve change nothing.
func (c *Controller) Rename(p Path, title string) {
	title, ok := cleanTitle(title)
	if !ok {
		return
	}
	c.commit("rename "+p.Kind(), Apply(c.state, p, Mutation{
		Workspace: renameWorkspace(title),
		Section:   renameSection(title),
		Card:      renameCard(title),
		Subtask:   renameSubtask(title),
	}))
}

// Delete removes the node p addresses and everything under it. Sections,
// cards and subtasks are removed by transforming their parent; workspaces
// go through DeleteWorkspace so the active one is closed.
func (c *Controller) Delete(p Path) {
	switch {
	case p.Depth() == 1:
		c.DeleteWorkspace(p.WorkspaceID)
		return
	case p.Depth() < 1 || !Exists(c.state, p):
		c.commit("delete "+p.Kind(), c.state)
		return
	}
	c.commit("delete "+p.Kind(), Apply(c.state, p.Parent(), Mutation{
		Workspace: removeSection(p.SectionID),
		Section:   removeCard(p.CardID),
		Card:      removeSubtask(p.SubtaskID),
	}))
}

// --- Drag and drop ---

// DragStart begins dragging a section or card of the active workspace.
func (c *Controller) DragStart(item reorder.Target) bool {
	return c.gesture.Start(c.state.ActiveWorkspace(), item)
}

// Dragging returns the drag in progress, if any.
func (c *Controller) Dragging() (reorder.Dragging, bool) {
	return c.gesture.Active()
}

// DragOver feeds a hover event to the gesture and commits any card move it
// produces.
func (c *Controller) DragOver(over reorder.Target) {
	ws := c.state.ActiveWorkspace()
	next, ok := c.gesture.Over(ws, over)
	if !ok {
		if over.Kind != reorder.KindNone && ws.SectionOfCard(over.ID) == nil && ws.Section(over.ID) == nil {
			c.logger.Debug("drag target not on board", "target", over.ID, "kind", over.Kind)
		}
		return
	}
	c.commit("drag over", UpdateWorkspace(c.state, ws.ID, replaceWorkspace(next)))
}

// DragEnd releases the gesture over target; nil means released outside any
// drop zone. Section drops are committed here.
func (c *Controller) DragEnd(over *reorder.Target) {
	ws := c.state.ActiveWorkspace()
	next, ok := c.gesture.End(ws, over)
	if !ok {
		return
	}
	c.commit("drag end", UpdateWorkspace(c.state, ws.ID, replaceWorkspace(next)))
}

// DragCancel abandons the gesture without changing the board.
func (c *Controller) DragCancel() {
	c.gesture.Cancel()
}
