// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvasko/notescan/pkg/types"
)

const dbFile = "documents.db"

// SQLiteStore keeps records in a local SQLite database. Same contract as
// the JSON backend, but safe for concurrent writers.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database in dir and ensures the
// schema exists.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TEXT NOT NULL,
		word_count INTEGER NOT NULL,
		image_path TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, draft types.Draft) (types.DocumentRecord, error) {
	rec := newRecord(draft, time.Now())

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, text, created_at, word_count, image_path)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Text, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.WordCount, rec.ImagePath,
	)
	if err != nil {
		return types.DocumentRecord{}, fmt.Errorf("inserting record: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]types.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, text, created_at, word_count, image_path FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.DocumentRecord
	for rows.Next() {
		var rec types.DocumentRecord
		var createdAt string
		var imagePath sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Text, &createdAt, &rec.WordCount, &imagePath); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", createdAt, err)
		}
		rec.CreatedAt = ts
		rec.ImagePath = imagePath.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
