// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reduces a web page to a title and a bounded plain-text body.
//
// Content selection prefers semantically marked containers (article, main,
// and divs classed as content, article-body, or post-content) and falls back
// to the first paragraphs of the page. Every failure is folded into the
// returned content so callers always get a usable pair.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// DefaultTimeout bounds each page fetch.
const DefaultTimeout = 10 * time.Second

const (
	// noiseSelector matches elements dropped before any text is read.
	noiseSelector = "script, style, nav, header, footer"

	// containerSelector matches semantic content containers.
	containerSelector = "article, main, div.content, div.article-body, div.post-content"

	// maxParagraphs is how many <p> elements the fallback reads.
	maxParagraphs = 20
)

// Extractor fetches pages and reduces them to text.
type Extractor struct {
	client    *http.Client
	userAgent string
	log       *zap.Logger
}

// New returns an Extractor. Zero values in cfg select DefaultTimeout and
// httputil.BrowserUserAgent. A nil log is replaced with a no-op logger.
func New(cfg types.ExtractConfig, log *zap.Logger) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = httputil.BrowserUserAgent
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		client:    httputil.NewClient(timeout),
		userAgent: ua,
		log:       log,
	}
}

// Extract fetches rawURL and returns its title and content. It never fails:
// on error the title is the URL's host and the content describes the error,
// bounded and collapsed like any other content.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (title, content string) {
	title, content, err := e.extract(ctx, rawURL)
	if err != nil {
		e.log.Debug("extraction failed", zap.String("url", rawURL), zap.Error(err))
		return hostOf(rawURL), Clean(fmt.Sprintf("Error extracting content: %v", err))
	}
	e.log.Debug("extracted page",
		zap.String("url", rawURL),
		zap.Int("chars", len([]rune(content))),
	)
	return title, content
}

func (e *Extractor) extract(ctx context.Context, rawURL string) (string, string, error) {
	body, err := httputil.Get(ctx, e.client, rawURL, e.userAgent)
	if err != nil {
		return "", "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("parsing HTML: %w", err)
	}

	title, content := Parse(doc, rawURL)
	return title, content, nil
}

// Parse applies the title rule and the content-selection heuristic to an
// already parsed document. Noise elements are removed from doc in place.
func Parse(doc *goquery.Document, rawURL string) (title, content string) {
	title = hostOf(rawURL)
	if t := doc.Find("title").First(); t.Length() > 0 {
		title = strings.TrimSpace(t.Text())
	}

	doc.Find(noiseSelector).Remove()

	var parts []string
	containers := doc.Find(containerSelector)
	if containers.Length() > 0 {
		containers.Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, textOf(s))
		})
	} else {
		doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= maxParagraphs {
				return false
			}
			parts = append(parts, strings.TrimSpace(s.Text()))
			return true
		})
	}

	return title, Clean(strings.Join(parts, " "))
}

// Clean collapses every whitespace run to a single space, trims the ends,
// and truncates to types.MaxContentChars characters.
func Clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > types.MaxContentChars {
		return string(r[:types.MaxContentChars])
	}
	return s
}

// textOf joins the trimmed text nodes under s with single spaces so that
// adjacent block elements do not run together.
func textOf(s *goquery.Selection) string {
	var words []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				words = append(words, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
