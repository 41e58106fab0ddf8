// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize turns an ordered list of extracted sources into a short
// summary that cites them with [Source N] markers, where N is the source's
// 1-based position in the list.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/research-agent/internal/citation"
	"github.com/pdiddy/research-agent/internal/notify"
	"github.com/pdiddy/research-agent/pkg/types"
)

// NoContentMessage is returned for an empty source list.
const NoContentMessage = "No content available to summarize."

// Summarizer produces a cited summary. Implementations never fail; live
// implementations fall back to Offline on error.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, sources []types.ExtractedSource, query string) string
}

// New returns an OpenAISummarizer when cfg carries an API key and an
// Offline summarizer otherwise.
func New(cfg types.SummaryConfig, n notify.Notifier) Summarizer {
	if cfg.APIKey == "" {
		return Offline{}
	}
	return NewOpenAI(cfg, n)
}

// Offline builds a deterministic summary with one bullet per source.
type Offline struct{}

// Name returns the summarizer identifier.
func (Offline) Name() string { return "offline" }

// Summarize lists each source as a bullet ending in its citation marker.
func (Offline) Summarize(_ context.Context, sources []types.ExtractedSource, query string) string {
	if len(sources) == 0 {
		return NoContentMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the search for '%s', here are the key findings:\n\n", query)
	for i, s := range sources {
		fmt.Fprintf(&b, "• %s discusses aspects related to %s %s\n", s.Title, query, citation.Marker(i+1))
	}
	fmt.Fprintf(&b, "\nThese sources provide various perspectives on %s.", query)
	return b.String()
}
