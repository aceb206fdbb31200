package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/taskboard/internal/model"
)

// Persister saves and restores board snapshots through a Slot.
type Persister struct {
	slot Slot
}

// NewPersister returns a Persister backed by slot.
func NewPersister(slot Slot) *Persister {
	return &Persister{slot: slot}
}

// Load reads the stored snapshot. When the slot is empty, unreadable or holds
// an invalid snapshot, Load returns an empty board together with an error
// describing why; callers report it and carry on with the empty board.
func (p *Persister) Load(ctx context.Context) (*model.BoardState, error) {
	data, err := p.slot.Read(ctx)
	if err != nil {
		return model.EmptyBoard(), fmt.Errorf("reading snapshot: %w", err)
	}

	b, _, err := Decode(data)
	if err != nil {
		return model.EmptyBoard(), fmt.Errorf("invalid snapshot: %w", err)
	}
	return b, nil
}

// Save writes b as a full snapshot, replacing whatever was stored.
func (p *Persister) Save(ctx context.Context, b *model.BoardState) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := p.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Reset removes the stored snapshot.
func (p *Persister) Reset(ctx context.Context) error {
	if err := p.slot.Clear(ctx); err != nil {
		return fmt.Errorf("resetting snapshot: %w", err)
	}
	return nil
}

// Raw returns the stored snapshot bytes without decoding them.
func (p *Persister) Raw(ctx context.Context) ([]byte, error) {
	return p.slot.Read(ctx)
}

// IsFirstRun reports whether err from Load only means nothing was saved yet.
func IsFirstRun(err error) bool {
	return errors.Is(err, ErrSlotEmpty)
}
