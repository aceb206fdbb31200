package store

import (
	"context"
	"errors"
	"time"
)

// ErrSlotEmpty is returned by Slot.Read when nothing has been written yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a single named value in a durable key-value backend. The board
// snapshot is always written and read whole.
type Slot interface {
	// Read returns the stored value, or ErrSlotEmpty.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored value.
	Write(ctx context.Context, data []byte) error

	// Clear removes the stored value. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error

	Close() error
}

// Stamped is implemented by slots that record when they were last written.
type Stamped interface {
	// UpdatedAt returns the time of the last Write, or ErrSlotEmpty.
	UpdatedAt(ctx context.Context) (time.Time, error)
}

var _ Stamped = (*SQLiteSlot)(nil)
