// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a research query end to end: search, extract each
// result page in rank order, then summarize the extracted sources.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/search"
	"github.com/pdiddy/research-agent/internal/summarize"
	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	// DefaultNumResults is how many search results a run processes.
	DefaultNumResults = 3

	// DefaultDelay is the pause after each page extraction.
	DefaultDelay = 500 * time.Millisecond

	// NoResultsMessage is the summary of a run whose search came back empty.
	NoResultsMessage = "No search results found."
)

// Extractor reduces the page at url to a title and plain-text content.
// It never fails; failures are described in the returned content.
type Extractor interface {
	Extract(ctx context.Context, url string) (title, content string)
}

// Pipeline composes the three stages.
type Pipeline struct {
	searcher   search.Provider
	extractor  Extractor
	summarizer summarize.Summarizer
	numResults int
	delay      time.Duration
	log        *zap.Logger
	sleep      func(context.Context, time.Duration)
}

// New returns a Pipeline. A non-positive cfg.NumResults selects
// DefaultNumResults; cfg.Delay is used as given. A nil log is replaced
// with a no-op logger.
func New(p search.Provider, e Extractor, s summarize.Summarizer, cfg types.PipelineConfig, log *zap.Logger) *Pipeline {
	n := cfg.NumResults
	if n <= 0 {
		n = DefaultNumResults
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		searcher:   p,
		extractor:  e,
		summarizer: s,
		numResults: n,
		delay:      cfg.Delay,
		log:        log,
		sleep:      sleepContext,
	}
}

// Research runs one query. It does not fail: stage failures surface as
// fallback content, and an empty search yields NoResultsMessage with no
// sources. Sources are in search rank order, one per search result.
func (p *Pipeline) Research(ctx context.Context, query string) types.ResearchResult {
	log := p.log.With(zap.String("query", query))
	log.Info("searching", zap.String("provider", p.searcher.Name()), zap.Int("num_results", p.numResults))

	results := p.searcher.Search(ctx, query, p.numResults)
	if len(results) == 0 {
		log.Info("no search results")
		return types.ResearchResult{
			Summary: NoResultsMessage,
			Sources: []types.ExtractedSource{},
		}
	}

	sources := make([]types.ExtractedSource, 0, len(results))
	for i, r := range results {
		log.Info("extracting", zap.Int("position", i+1), zap.String("url", r.URL))

		title, content := p.extractor.Extract(ctx, r.URL)
		if title == "" {
			title = r.Title
		}
		sources = append(sources, types.ExtractedSource{
			Title:   title,
			URL:     r.URL,
			Content: content,
		})

		p.sleep(ctx, p.delay)
	}

	log.Info("summarizing", zap.String("summarizer", p.summarizer.Name()), zap.Int("sources", len(sources)))
	return types.ResearchResult{
		Summary: p.summarizer.Summarize(ctx, sources, query),
		Sources: sources,
	}
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
