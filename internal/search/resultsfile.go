// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-agent/internal/notify"
	"github.com/pdiddy/research-agent/pkg/types"
)

// ResultsFile is the on-disk form of one search: the query, the provider
// that answered it, and the ranked results. A saved file can be replayed
// with FileProvider to rerun extraction and summarization without
// searching again.
type ResultsFile struct {
	Query     string               `yaml:"query"`
	Provider  string               `yaml:"provider"`
	Timestamp time.Time            `yaml:"timestamp"`
	Results   []types.SearchResult `yaml:"results"`
}

// WriteResultsFile saves results to a YAML file at path.
func WriteResultsFile(path, query, provider string, results []types.SearchResult) error {
	rf := ResultsFile{
		Query:     query,
		Provider:  provider,
		Timestamp: time.Now().UTC(),
		Results:   results,
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling results file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultsFile loads a previously saved results file.
func ReadResultsFile(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	return &rf, nil
}

// FileProvider replays the results of a saved search, ignoring the query.
type FileProvider struct {
	File *ResultsFile
}

// Name returns the provider identifier.
func (FileProvider) Name() string { return "file" }

// Search returns the first numResults saved results in their saved order.
func (p FileProvider) Search(_ context.Context, _ string, numResults int) []types.SearchResult {
	if p.File == nil || numResults <= 0 {
		return []types.SearchResult{}
	}
	n := min(numResults, len(p.File.Results))
	return append([]types.SearchResult{}, p.File.Results[:n]...)
}

// SavingProvider writes every result list its Provider returns to Path.
// A failed write is reported to Notifier and does not change the results.
type SavingProvider struct {
	Provider
	Path     string
	Notifier notify.Notifier
}

// Search delegates to the wrapped Provider and saves its results.
func (p SavingProvider) Search(ctx context.Context, query string, numResults int) []types.SearchResult {
	results := p.Provider.Search(ctx, query, numResults)
	if err := WriteResultsFile(p.Path, query, p.Provider.Name(), results); err != nil && p.Notifier != nil {
		p.Notifier.Notify("search", err)
	}
	return results
}
