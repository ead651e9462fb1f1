// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mvasko/notescan/pkg/types"
)

const jsonFile = "documents.json"

// JSONStore keeps the whole record list in one JSON file. Every operation
// is a full read-modify-write of that blob. A process-local mutex keeps
// concurrent handlers consistent; separate processes writing the same
// file race last-write-wins, which the single-user assumption accepts.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore opens (or prepares to create) the blob file in dir.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &JSONStore{path: filepath.Join(dir, jsonFile)}, nil
}

func (s *JSONStore) Save(ctx context.Context, draft types.Draft) (types.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return types.DocumentRecord{}, err
	}

	rec := newRecord(draft, time.Now())
	records = append(records, rec)

	if err := s.write(records); err != nil {
		return types.DocumentRecord{}, err
	}
	return rec, nil
}

func (s *JSONStore) List(ctx context.Context) ([]types.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		// Absent ID: nothing to do, and no error.
		return nil
	}
	return s.write(kept)
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) load() ([]types.DocumentRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	var records []types.DocumentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return records, nil
}

func (s *JSONStore) write(records []types.DocumentRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
