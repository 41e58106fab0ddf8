// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/internal/notify"
	"github.com/pdiddy/research-agent/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search"

// SerpAPIProvider queries SerpAPI with a single GET per search.
type SerpAPIProvider struct {
	Client    *http.Client
	APIKey    string
	Endpoint  string
	UserAgent string
	Notifier  notify.Notifier
}

// Name returns the provider identifier.
func (p *SerpAPIProvider) Name() string { return "serpapi" }

// Search issues one request. Transport, status, and parse failures are
// reported to the Notifier and produce an empty list.
func (p *SerpAPIProvider) Search(ctx context.Context, query string, numResults int) []types.SearchResult {
	results, err := p.search(ctx, query, numResults)
	if err != nil {
		if p.Notifier != nil {
			p.Notifier.Notify("search", err)
		}
		return []types.SearchResult{}
	}
	return results
}

func (p *SerpAPIProvider) search(ctx context.Context, query string, numResults int) ([]types.SearchResult, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = serpAPIBase
	}

	params := url.Values{
		"q":       {query},
		"api_key": {p.APIKey},
		"num":     {strconv.Itoa(numResults)},
	}

	body, err := httputil.Get(ctx, p.Client, endpoint+"?"+params.Encode(), p.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("search API request: %w", redactKey(err, p.APIKey))
	}

	var sr serpResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing search API response: %w", err)
	}

	limit := max(min(numResults, len(sr.OrganicResults)), 0)
	results := make([]types.SearchResult, 0, limit)
	for _, item := range sr.OrganicResults[:limit] {
		results = append(results, types.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

// redactedError reports msg in place of err's text but still unwraps to err.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

// redactKey hides the API key in errors that echo the request URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), "api_key="+url.QueryEscape(key), "api_key=REDACTED")
	return &redactedError{msg: msg, err: err}
}

// SerpAPI JSON structures. Missing fields decode as "".
type serpResponse struct {
	OrganicResults []serpResult `json:"organic_results"`
}

type serpResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
