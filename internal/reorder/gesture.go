package reorder

import "github.com/nhle/taskboard/internal/model"

// Kind identifies what a drag source or drop target is.
type Kind int

const (
	KindNone Kind = iota
	KindSection
	KindCard
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindCard:
		return "card"
	default:
		return "none"
	}
}

// Place says where a card hovering another card should land.
type Place int

const (
	// PlaceAuto takes the hovered card's index within its section, or
	// the slot just before it when coming from another section.
	PlaceAuto Place = iota
	PlaceBefore
	PlaceAfter
)

// Target is an entity under the pointer, or the entity being dragged.
// Place only matters for card targets.
type Target struct {
	ID    string
	Kind  Kind
	Place Place
}

// Dragging describes the gesture in progress. Exactly one of Section and
// Card is set, holding the value captured when the gesture started.
type Dragging struct {
	ID      string
	Kind    Kind
	Section *model.Section
	Card    *model.Card
}

// Gesture is the three-phase drag state machine: Start, then any number of
// Over events, then End (or Cancel).
//
// Card moves are produced during Over so the board reflects them live;
// section moves are produced only at End. Each result is computed from the
// workspace passed in, which must be the current authoritative one.
//
// The zero value is an idle gesture.
type Gesture struct {
	active *Dragging

	// where the last card move left the dragged card; see Over.
	last placement
}

// placement is the dragged card's position relative to a hovered card.
type placement struct {
	over    string
	section string
	before  bool
}

// placementOf reports where cardID sits relative to overID, or false when
// the two are not in the same section.
func placementOf(ws *model.Workspace, cardID, overID string) (placement, bool) {
	sec := ws.SectionOfCard(cardID)
	if sec == nil || sec.CardIndex(overID) < 0 {
		return placement{}, false
	}
	return placement{
		over:    overID,
		section: sec.ID,
		before:  sec.CardIndex(cardID) < sec.CardIndex(overID),
	}, true
}

// Start begins dragging item within ws. It reports false and stays idle
// when item is not a section or card of ws.
func (g *Gesture) Start(ws *model.Workspace, item Target) bool {
	g.Cancel()
	if ws == nil {
		return false
	}

	switch item.Kind {
	case KindSection:
		sec := ws.Section(item.ID)
		if sec == nil {
			return false
		}
		g.active = &Dragging{ID: item.ID, Kind: KindSection, Section: sec}
	case KindCard:
		sec := ws.SectionOfCard(item.ID)
		if sec == nil {
			return false
		}
		g.active = &Dragging{ID: item.ID, Kind: KindCard, Card: sec.Card(item.ID)}
	default:
		return false
	}
	return true
}

// Active returns the drag in progress.
func (g *Gesture) Active() (Dragging, bool) {
	if g.active == nil {
		return Dragging{}, false
	}
	return *g.active, true
}

// Over handles the pointer hovering over. It returns the workspace with the
// dragged card moved and true, or ws and false when the event changes
// nothing.
//
// PlaceBefore and PlaceAfter are idempotent on their own: once the card
// sits there, the same event changes nothing. A PlaceAuto hover on the card
// the previous move was computed against is ignored while the dragged card
// still sits on the side of it that move produced, so identical pointer
// events do not keep swapping the pair. Both checks read positions from ws,
// never the identity of the workspace value.
func (g *Gesture) Over(ws *model.Workspace, over Target) (*model.Workspace, bool) {
	if g.active == nil || ws == nil {
		return ws, false
	}
	if over.Kind == KindNone || over.ID == g.active.ID {
		return ws, false
	}
	if g.active.Kind != KindCard {
		return ws, false
	}

	var (
		next *model.Workspace
		ok   bool
	)
	switch over.Kind {
	case KindCard:
		if over.Place == PlaceAuto && g.repeated(ws, over.ID) {
			return ws, false
		}
		switch over.Place {
		case PlaceBefore:
			next, ok = MoveCardBeside(ws, g.active.ID, over.ID, false)
		case PlaceAfter:
			next, ok = MoveCardBeside(ws, g.active.ID, over.ID, true)
		default:
			next, ok = MoveCard(ws, g.active.ID, over.ID)
		}
		if ok {
			g.last, _ = placementOf(next, g.active.ID, over.ID)
		}
	case KindSection:
		next, ok = MoveCardToSection(ws, g.active.ID, over.ID)
		if ok {
			g.last = placement{}
		}
	}
	if !ok {
		return ws, false
	}
	return next, true
}

// repeated reports whether hovering overID again would only undo the
// previous move.
func (g *Gesture) repeated(ws *model.Workspace, overID string) bool {
	if g.last.over != overID {
		return false
	}
	now, ok := placementOf(ws, g.active.ID, overID)
	return ok && now == g.last
}

// End releases the gesture. A section dropped on another section is moved
// to that section's index; everything else, including a nil target
// (released outside any drop zone), produces no change. The gesture is
// idle afterwards either way.
func (g *Gesture) End(ws *model.Workspace, over *Target) (*model.Workspace, bool) {
	active := g.active
	g.Cancel()

	if active == nil || ws == nil || over == nil {
		return ws, false
	}
	if over.ID == active.ID || over.Kind == KindNone {
		return ws, false
	}
	if active.Kind == KindSection && over.Kind == KindSection {
		return MoveSection(ws, active.ID, over.ID)
	}
	return ws, false
}

// Cancel clears any transient drag state.
func (g *Gesture) Cancel() {
	g.active = nil
	g.last = placement{}
}
