package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteSlot stores the slot value as one row of a local SQLite database.
type SQLiteSlot struct {
	db  *sqlx.DB
	key string
}

// NewSQLiteSlot opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations. key names the
// row the slot reads and writes.
func NewSQLiteSlot(dbPath, key string) (*SQLiteSlot, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One writer at a time; also keeps ":memory:" databases on a single
	// connection so every query sees the same data.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteSlot{db: db, key: key}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteSlot) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Read returns the stored value, or ErrSlotEmpty if the row does not exist.
func (s *SQLiteSlot) Read(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM slots WHERE key = ?", s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", s.key, err)
	}
	return []byte(value), nil
}

// Write inserts or replaces the stored value.
func (s *SQLiteSlot) Write(ctx context.Context, data []byte) error {
	const query = `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, s.key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("writing slot %s: %w", s.key, err)
	}
	return nil
}

// Clear deletes the row.
func (s *SQLiteSlot) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", s.key); err != nil {
		return fmt.Errorf("clearing slot %s: %w", s.key, err)
	}
	return nil
}

// UpdatedAt returns when the slot was last written, or ErrSlotEmpty.
func (s *SQLiteSlot) UpdatedAt(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := s.db.GetContext(ctx, &ts, "SELECT updated_at FROM slots WHERE key = ?", s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrSlotEmpty
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading slot %s timestamp: %w", s.key, err)
	}
	return ts, nil
}
