// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search finds candidate web pages for a research query. A Provider
// is either live (SerpAPI, selected when a search credential is configured)
// or offline (deterministic placeholders for demos and tests).
package search

import (
	"context"
	"time"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/internal/notify"
	"github.com/pdiddy/research-agent/pkg/types"
)

const defaultTimeout = 30 * time.Second

// Provider returns at most numResults ranked result stubs for query.
// Providers fail soft: errors go to the attention channel and an empty list
// is returned, which callers treat as "no results".
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, numResults int) []types.SearchResult
}

// New returns a SerpAPIProvider when cfg carries an API key and an
// OfflineProvider otherwise.
func New(cfg types.SearchConfig, n notify.Notifier) Provider {
	if cfg.APIKey == "" {
		return OfflineProvider{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if n == nil {
		n = notify.Discard
	}
	return &SerpAPIProvider{
		Client:    httputil.NewClient(timeout),
		APIKey:    cfg.APIKey,
		Endpoint:  cfg.Endpoint,
		UserAgent: cfg.UserAgent,
		Notifier:  n,
	}
}
