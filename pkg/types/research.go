// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-agent pipeline.
// The pipeline turns a query into SearchResults, each SearchResult into one
// ExtractedSource, and the ordered sources into a cited ResearchResult.
package types

// MaxContentChars bounds ExtractedSource.Content, counted in characters (runes).
const MaxContentChars = 3000

// SearchResult is a ranked result stub returned by a search provider.
// The order of a result list defines citation order downstream.
type SearchResult struct {
	// Title is the result title as reported by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the absolute URL of the candidate page.
	URL string `json:"url" yaml:"url"`

	// Snippet is the provider's short excerpt of the page.
	Snippet string `json:"snippet" yaml:"snippet"`
}

// ExtractedSource is the readable text reduced from one SearchResult's page.
// When extraction fails, Content holds a human-readable error string so that
// every search result still yields exactly one source.
type ExtractedSource struct {
	// Title is the page title, or the search result title when the page had none.
	Title string `json:"title" yaml:"title"`

	// URL is copied from the originating SearchResult.
	URL string `json:"url" yaml:"url"`

	// Content is whitespace-collapsed plain text of at most MaxContentChars characters.
	Content string `json:"content" yaml:"content"`
}

// ResearchResult is the terminal artifact of a research run. Summary may
// contain [Source N] markers where N is the 1-based position of a source
// in Sources.
type ResearchResult struct {
	Summary string            `json:"summary" yaml:"summary"`
	Sources []ExtractedSource `json:"sources" yaml:"sources"`
}
