// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"github.com/pdiddy/research-agent/pkg/types"
)

// offlineLimit caps the number of placeholder results.
const offlineLimit = 3

// OfflineProvider synthesizes placeholder results derived only from the
// query and a 1-based index, so repeated calls are byte-identical.
type OfflineProvider struct{}

// Name returns the provider identifier.
func (OfflineProvider) Name() string { return "offline" }

// Search returns min(3, numResults) placeholder results.
func (OfflineProvider) Search(_ context.Context, query string, numResults int) []types.SearchResult {
	n := min(offlineLimit, numResults)
	results := make([]types.SearchResult, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		results = append(results, types.SearchResult{
			Title:   fmt.Sprintf("Sample Result %d for: %s", i, query),
			URL:     fmt.Sprintf("https://example%d.com/article", i),
			Snippet: fmt.Sprintf("This is a sample snippet about %s...", query),
		})
	}
	return results
}
