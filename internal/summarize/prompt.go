// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/research-agent/pkg/types"
)

// excerptChars bounds how much of each source's content enters the prompt.
const excerptChars = 1000

// systemPrompt is the fixed system role for summary completions.
const systemPrompt = "You are a research assistant that creates concise, well-cited summaries."

// summaryPromptTmpl lists the sources in order. The number printed for each
// source is the N the model must use in [Source N], so the order here must
// match the order of the sources returned to the caller.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Based on the following sources about "{{.Query}}", create a concise summary.
Include inline citations using [Source N] format where N is the source number.

Sources:
{{range $i, $s := .Sources}}{{if $i}}

{{end}}Source {{$s.Index}} ({{$s.Title}}):
{{$s.Excerpt}}{{end}}

Summary (with citations):`))

type promptSource struct {
	Index   int
	Title   string
	Excerpt string
}

// renderPrompt executes the summary prompt template for query and sources.
func renderPrompt(query string, sources []types.ExtractedSource) (string, error) {
	view := struct {
		Query   string
		Sources []promptSource
	}{Query: query}
	for i, s := range sources {
		view.Sources = append(view.Sources, promptSource{
			Index:   i + 1,
			Title:   s.Title,
			Excerpt: excerpt(s.Content, excerptChars),
		})
	}

	var buf bytes.Buffer
	if err := summaryPromptTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// excerpt returns the first n characters of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
