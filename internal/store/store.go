// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists saved document records. Two backends implement
// the same contract: a single JSON blob file read and written whole, and
// a local SQLite database. Save always assigns a fresh ID and timestamp;
// records are never updated in place; an edit is saved as a new record.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvasko/notescan/pkg/types"
)

// Store is the document persistence contract.
type Store interface {
	// Save assigns a fresh unique ID and the current timestamp, computes
	// the word count from the draft text, persists the record, and
	// returns it.
	Save(ctx context.Context, draft types.Draft) (types.DocumentRecord, error)

	// List returns all records. The store guarantees no ordering; callers
	// sort by recency for display.
	List(ctx context.Context) ([]types.DocumentRecord, error)

	// Delete removes the record with the given ID. Deleting an absent ID
	// is a no-op, not an error.
	Delete(ctx context.Context, id string) error

	// Close releases any underlying resources.
	Close() error
}

// New opens the backend selected by cfg. An empty backend means JSON.
func New(cfg types.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case types.StoreJSON, "":
		return NewJSONStore(cfg.Dir)
	case types.StoreSQLite:
		return NewSQLiteStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown store backend %q: use json or sqlite", cfg.Backend)
	}
}

// newRecord builds the stored record for a draft: fresh ID, creation
// timestamp, and the word-count snapshot of the draft text.
func newRecord(draft types.Draft, now time.Time) types.DocumentRecord {
	return types.DocumentRecord{
		ID:        newDocumentID(now),
		Title:     draft.Title,
		Text:      draft.Text,
		CreatedAt: now,
		WordCount: types.CountWords(draft.Text),
		ImagePath: draft.ImagePath,
	}
}

// newDocumentID returns an opaque unique identifier. The millisecond
// timestamp keeps IDs roughly sortable; the UUID fragment makes
// same-millisecond saves distinct.
func newDocumentID(now time.Time) string {
	return fmt.Sprintf("doc_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
