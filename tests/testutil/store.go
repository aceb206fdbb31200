package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// TestSlotKey is the slot key used by the helpers below.
const TestSlotKey = "todo_app_data"

// NewTestSlot creates an in-memory SQLiteSlot with all migrations applied.
// It automatically closes the slot when the test completes.
func NewTestSlot(t *testing.T) *store.SQLiteSlot {
	t.Helper()

	s, err := store.NewSQLiteSlot(":memory:", TestSlotKey)
	if err != nil {
		t.Fatalf("creating test slot: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test slot: %v", err)
		}
	})

	return s
}

// NewTestRedisSlot starts a miniredis server and returns a RedisSlot
// connected to it, along with the server for inspection.
func NewTestRedisSlot(t *testing.T) (*store.RedisSlot, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	s := store.NewRedisSlot(redis.NewClient(&redis.Options{Addr: mr.Addr()}), TestSlotKey)
	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

// NewTestPersister returns a Persister over a fresh in-memory SQLite slot.
func NewTestPersister(t *testing.T) (*store.Persister, *store.SQLiteSlot) {
	t.Helper()

	slot := NewTestSlot(t)
	return store.NewPersister(slot), slot
}

// FixtureBoard returns a small board: workspace "Plan" (active) with
// sections "Todo" and "Done", where "Todo" holds the card "Buy milk" with
// one open subtask "2%".
func FixtureBoard() *model.BoardState {
	active := "ws-plan"
	return &model.BoardState{
		ActiveWorkspaceID: &active,
		Workspaces: []*model.Workspace{
			{
				ID:    "ws-plan",
				Title: "Plan",
				Sections: []*model.Section{
					{
						ID:    "sec-todo",
						Title: "Todo",
						Cards: []*model.Card{
							{
								ID:    "card-milk",
								Title: "Buy milk",
								Subtasks: []*model.Subtask{
									{ID: "sub-2pct", Title: "2%"},
								},
							},
						},
					},
					{ID: "sec-done", Title: "Done", Cards: []*model.Card{}},
				},
			},
			{ID: "ws-home", Title: "Home", Sections: []*model.Section{}},
		},
	}
}
