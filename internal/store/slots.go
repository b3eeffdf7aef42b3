// Package store persists whole JSON documents in named slots backed by
// SQLite. Each write replaces the slot's full document; last write wins.
package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrStorageUnavailable wraps any failure to read or write a slot. Callers
// are expected to degrade to defaults and log rather than surface it.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Slots reads and writes JSON documents keyed by slot name.
type Slots struct {
	db *sql.DB
}

// NewSlots returns slot storage over db. The storage_slots table must exist
// (created by migrations).
func NewSlots(db *sql.DB) *Slots {
	return &Slots{db: db}
}

// Read returns the document stored under key. The second return value is
// false when the slot has never been written.
func (s *Slots) Read(key string) ([]byte, bool, error) {
	var document string
	err := s.db.QueryRow(`SELECT document FROM storage_slots WHERE key = ?`, key).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read slot %q: %v", ErrStorageUnavailable, key, err)
	}
	return []byte(document), true, nil
}

// Write stores document under key, replacing any previous content.
func (s *Slots) Write(key string, document []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO storage_slots (key, document)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`, key, string(document))
	if err != nil {
		return fmt.Errorf("%w: write slot %q: %v", ErrStorageUnavailable, key, err)
	}
	return nil
}
