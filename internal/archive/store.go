// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists research runs in a local SQLite database so past
// results can be listed, searched, shown, and exported.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	dbFile            = "research.db"
	defaultMaxResults = 20

	// timeLayout is fixed width so created_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Run is an archived research run with its sources in citation order.
type Run struct {
	ID        int64     `json:"id" yaml:"id"`
	Query     string    `json:"query" yaml:"query"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	types.ResearchResult `yaml:",inline"`
}

// RunSummary is the list view of a run.
type RunSummary struct {
	ID         int64     `json:"id" yaml:"id"`
	Query      string    `json:"query" yaml:"query"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	NumSources int       `json:"num_sources" yaml:"num_sources"`
}

// Store manages the archive database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates cfg.Dir/research.db and its schema.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores query and result as a new run in one transaction and returns
// the run id. Source positions are 1-based so they match [Source N] markers.
func (s *Store) Save(ctx context.Context, query string, result types.ResearchResult, createdAt time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (query, summary, created_at) VALUES (?, ?, ?)`,
		query, result.Summary, createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sources (run_id, position, title, url, content) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, src := range result.Sources {
		if _, err := stmt.ExecContext(ctx, id, i+1, src.Title, src.URL, src.Content); err != nil {
			return 0, fmt.Errorf("inserting source %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}
