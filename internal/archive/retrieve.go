// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/research-agent/pkg/types"
)

const summaryColumns = `r.id, r.query, r.created_at,
	(SELECT count(*) FROM sources s WHERE s.run_id = r.id)`

// Get returns the run with the given id and its sources ordered by position.
func (s *Store) Get(ctx context.Context, id int64) (Run, error) {
	var (
		run     Run
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, query, summary, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Query, &run.Summary, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("looking up run: %w", err)
	}
	if run.CreatedAt, err = parseTime(created); err != nil {
		return Run{}, err
	}

	run.Sources, err = s.sources(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) sources(ctx context.Context, runID int64) ([]types.ExtractedSource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, url, content FROM sources WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	sources := []types.ExtractedSource{}
	for rows.Next() {
		var src types.ExtractedSource
		if err := rows.Scan(&src.Title, &src.URL, &src.Content); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// List returns up to limit runs, newest first. A non-positive limit uses
// the store default.
func (s *Store) List(ctx context.Context, limit int) ([]RunSummary, error) {
	return s.summaries(ctx,
		`SELECT `+summaryColumns+` FROM runs r ORDER BY r.created_at DESC, r.id DESC LIMIT ?`,
		s.limit(limit))
}

// Search returns up to limit runs, newest first, whose query, summary, or
// any source title or content contains text. Matching ignores ASCII case.
func (s *Store) Search(ctx context.Context, text string, limit int) ([]RunSummary, error) {
	pattern := "%" + escapeLike(text) + "%"
	return s.summaries(ctx,
		`SELECT `+summaryColumns+` FROM runs r
		WHERE r.query LIKE ?1 ESCAPE '\'
			OR r.summary LIKE ?1 ESCAPE '\'
			OR EXISTS (
				SELECT 1 FROM sources s WHERE s.run_id = r.id
				AND (s.title LIKE ?1 ESCAPE '\' OR s.content LIKE ?1 ESCAPE '\')
			)
		ORDER BY r.created_at DESC, r.id DESC LIMIT ?2`,
		pattern, s.limit(limit))
}

func (s *Store) summaries(ctx context.Context, query string, args ...any) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs      RunSummary
			created string
		)
		if err := rows.Scan(&rs.ID, &rs.Query, &created, &rs.NumSources); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if rs.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (s *Store) limit(n int) int {
	if n <= 0 {
		return s.maxResults
	}
	return n
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at %q: %w", v, err)
	}
	return t, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
