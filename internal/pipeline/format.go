// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/research-agent/pkg/types"
)

// displayChars bounds the content excerpt shown per source.
const displayChars = 500

// FormatText writes a human-readable rendering of result to w: the summary,
// then each source with its 1-based position, URL, and the first 500
// characters of its content followed by "...".
func FormatText(result types.ResearchResult, w io.Writer) {
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "=======")
	fmt.Fprintln(w, result.Summary)

	if len(result.Sources) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources")
	fmt.Fprintln(w, "=======")
	for i, s := range result.Sources {
		fmt.Fprintf(w, "\nSource %d: %s\n", i+1, s.Title)
		fmt.Fprintf(w, "URL: %s\n", s.URL)
		fmt.Fprintf(w, "Extract: %s...\n", displayExcerpt(s.Content))
	}
}

// FormatJSON writes result as indented JSON.
func FormatJSON(result types.ResearchResult, w io.Writer) error {
	if result.Sources == nil {
		result.Sources = []types.ExtractedSource{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

func displayExcerpt(s string) string {
	r := []rune(s)
	if len(r) <= displayChars {
		return s
	}
	return string(r[:displayChars])
}
