// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvasko/notescan/pkg/types"
)

// backends runs the shared contract suite against every implementation.
var backends = []struct {
	name string
	open func(t *testing.T) Store
}{
	{
		name: "json",
		open: func(t *testing.T) Store {
			s, err := NewJSONStore(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			return s
		},
	},
	{
		name: "sqlite",
		open: func(t *testing.T) Store {
			s, err := NewSQLiteStore(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			return s
		},
	},
}

func TestSaveAssignsIdentityAndWordCount(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()
			ctx := context.Background()

			rec, err := s.Save(ctx, types.Draft{Title: "Greeting", Text: "hello world"})
			if err != nil {
				t.Fatal(err)
			}
			if rec.ID == "" {
				t.Error("save must assign an ID")
			}
			if !strings.HasPrefix(rec.ID, "doc_") {
				t.Errorf("ID = %q, want doc_ prefix", rec.ID)
			}
			if rec.CreatedAt.IsZero() {
				t.Error("save must assign a timestamp")
			}
			if rec.WordCount != 2 {
				t.Errorf("word count = %d, want 2", rec.WordCount)
			}

			// Round-trip: the record comes back intact from List.
			records, err := s.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 1 {
				t.Fatalf("list returned %d records, want 1", len(records))
			}
			got := records[0]
			if got.ID != rec.ID || got.Text != "hello world" || got.WordCount != 2 {
				t.Errorf("round-trip mismatch: %+v", got)
			}
		})
	}
}

func TestSaveAssignsDistinctIDs(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()
			ctx := context.Background()

			seen := map[string]bool{}
			for i := 0; i < 20; i++ {
				rec, err := s.Save(ctx, types.Draft{Title: "t", Text: "x"})
				if err != nil {
					t.Fatal(err)
				}
				if seen[rec.ID] {
					t.Fatalf("duplicate ID %q", rec.ID)
				}
				seen[rec.ID] = true
			}
		})
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()
			ctx := context.Background()

			rec, err := s.Save(ctx, types.Draft{Title: "t", Text: "to be deleted"})
			if err != nil {
				t.Fatal(err)
			}
			keep, err := s.Save(ctx, types.Draft{Title: "t", Text: "to be kept"})
			if err != nil {
				t.Fatal(err)
			}

			if err := s.Delete(ctx, rec.ID); err != nil {
				t.Fatalf("first delete: %v", err)
			}
			// Second delete of the same ID: no error, no change.
			if err := s.Delete(ctx, rec.ID); err != nil {
				t.Fatalf("second delete: %v", err)
			}
			if err := s.Delete(ctx, "doc_never_existed"); err != nil {
				t.Fatalf("delete of absent ID: %v", err)
			}

			records, err := s.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 1 || records[0].ID != keep.ID {
				t.Errorf("records after delete = %+v", records)
			}
		})
	}
}

func TestListEmptyStore(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()

			records, err := s.List(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 0 {
				t.Errorf("fresh store should be empty, got %d records", len(records))
			}
		})
	}
}

func TestJSONStore_SingleBlobOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.Save(ctx, types.Draft{Title: "a", Text: "one"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, types.Draft{Title: "b", Text: "two words here"}); err != nil {
		t.Fatal(err)
	}

	// The whole record set is one keyed JSON blob.
	data, err := os.ReadFile(filepath.Join(dir, "documents.json"))
	if err != nil {
		t.Fatal(err)
	}
	var records []types.DocumentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("blob is not a JSON record list: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("blob holds %d records, want 2", len(records))
	}
	if records[1].WordCount != 3 {
		t.Errorf("word count = %d, want 3", records[1].WordCount)
	}
}

func TestNew_BackendSelection(t *testing.T) {
	dir := t.TempDir()

	s, err := New(types.StoreConfig{Backend: types.StoreJSON, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*JSONStore); !ok {
		t.Errorf("backend json gave %T", s)
	}
	s.Close()

	s, err = New(types.StoreConfig{Backend: "", Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*JSONStore); !ok {
		t.Errorf("default backend gave %T", s)
	}
	s.Close()

	s, err = New(types.StoreConfig{Backend: types.StoreSQLite, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("backend sqlite gave %T", s)
	}
	s.Close()

	if _, err := New(types.StoreConfig{Backend: "redis", Dir: dir}); err == nil {
		t.Error("unknown backend should error")
	}
}
