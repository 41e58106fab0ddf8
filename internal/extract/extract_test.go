// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// servePage starts a server that returns page for every request.
func servePage(t *testing.T, page string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func hostPort(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Host
}

func parse(t *testing.T, page, rawURL string) (string, string) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return Parse(doc, rawURL)
}

func TestExtractSemanticContainers(t *testing.T) {
	page := `<html><head><title>  Quantum Primer  </title></head><body>
<header>Site Header</header>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<article>
  <h1>What is a qubit?</h1>
  <p>A qubit is a two-state
     quantum system.</p>
  <script>var tracking = 1;</script>
</article>
<div class="sidebar">Buy now!</div>
<div class="post-content"><p>Superposition</p><p>Entanglement</p></div>
<footer>Copyright</footer>
</body></html>`
	ts := servePage(t, page)

	title, content := New(types.ExtractConfig{}, nil).Extract(context.Background(), ts.URL)

	assert.Equal(t, "Quantum Primer", title)
	assert.Equal(t, "What is a qubit? A qubit is a two-state quantum system. Superposition Entanglement", content)
	assert.NotContains(t, content, "tracking")
	assert.NotContains(t, content, "Buy now")
	assert.NotContains(t, content, "Home")
	assert.NotContains(t, content, "Copyright")
}

func TestParseContainersInDocumentOrder(t *testing.T) {
	page := `<html><body>
<div class="content">first</div>
<main><article>inner</article> outer</main>
<div class="article-body">last</div>
</body></html>`

	_, content := parse(t, page, "https://example.com/x")

	// Nested matches are each included, in document order.
	assert.Equal(t, "first inner outer inner last", content)
}

func TestParseClassOnNonDivIgnored(t *testing.T) {
	page := `<html><body>
<section class="content">section text</section>
<p>para one</p><p>para two</p>
</body></html>`

	_, content := parse(t, page, "https://example.com/x")
	assert.Equal(t, "para one para two", content)
}

func TestParseParagraphFallbackLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><head><title>Many</title></head><body>")
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&b, "<p> p%d </p>", i)
	}
	b.WriteString("</body></html>")

	_, content := parse(t, b.String(), "https://example.com/x")

	words := strings.Fields(content)
	require.Len(t, words, maxParagraphs)
	assert.Equal(t, "p1", words[0])
	assert.Equal(t, "p20", words[19])
	assert.NotContains(t, content, "p21")
}

func TestParseParagraphInsideNoiseRemoved(t *testing.T) {
	page := `<html><body>
<footer><p>footer para</p></footer>
<p>body para</p>
</body></html>`

	_, content := parse(t, page, "https://example.com/x")
	assert.Equal(t, "body para", content)
}

func TestParseNoContent(t *testing.T) {
	title, content := parse(t, `<html><head><title>Empty</title></head><body><div>loose text</div></body></html>`, "https://example.com/x")
	assert.Equal(t, "Empty", title)
	assert.Equal(t, "", content)
}

func TestParseTitleRules(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"title present", `<html><head><title>Hello</title></head></html>`, "Hello"},
		{"title trimmed", "<html><head><title>\n  Hello World \t</title></head></html>", "Hello World"},
		{"title missing uses host", `<html><body><p>x</p></body></html>`, "news.example.org:8443"},
		{"empty title stays empty", `<html><head><title></title></head></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, _ := parse(t, tt.page, "https://news.example.org:8443/story?id=7")
			assert.Equal(t, tt.want, title)
		})
	}
}

func TestExtractTruncatesAndCollapses(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body><article>")
	for i := 0; i < 800; i++ {
		b.WriteString("word \n\t  ")
	}
	b.WriteString("</article></body></html>")
	ts := servePage(t, b.String())

	_, content := New(types.ExtractConfig{}, nil).Extract(context.Background(), ts.URL)

	assert.Equal(t, types.MaxContentChars, utf8.RuneCountInString(content))
	assert.False(t, multiSpace.MatchString(content), "content has a whitespace run")
	assert.True(t, strings.HasPrefix(content, "word word"))
}

func TestCleanCountsCharactersNotBytes(t *testing.T) {
	in := strings.Repeat("é", types.MaxContentChars+50)
	out := Clean(in)
	assert.Equal(t, types.MaxContentChars, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}

func TestCleanWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"  a  b  ", "a b"},
		{"a\n\n\tb  c", "a b c"},
		{"one", "one"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestExtractContentBoundsProperty(t *testing.T) {
	pages := []string{
		`<html><body><main>` + strings.Repeat("alpha   beta\n", 1000) + `</main></body></html>`,
		`<html><body>` + strings.Repeat("<p>\t gamma  delta \n</p>", 30) + `</body></html>`,
		`<html><body><div class="content">` + strings.Repeat("x", 4000) + `</div></body></html>`,
		`<html><body></body></html>`,
	}
	for i, page := range pages {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			_, content := parse(t, page, "https://example.com/")
			assert.LessOrEqual(t, utf8.RuneCountInString(content), types.MaxContentChars)
			assert.False(t, multiSpace.MatchString(content))
		})
	}
}

func TestExtractHTTPErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "<html><title>Forbidden</title></html>")
	}))
	defer ts.Close()

	title, content := New(types.ExtractConfig{}, nil).Extract(context.Background(), ts.URL)

	assert.Equal(t, hostPort(t, ts.URL), title)
	assert.True(t, strings.HasPrefix(content, "Error extracting content: "))
	assert.Contains(t, content, "HTTP 403")
}

func TestExtractUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rawURL := ts.URL + "/article"
	ts.Close()

	title, content := New(types.ExtractConfig{}, nil).Extract(context.Background(), rawURL)

	assert.Equal(t, hostPort(t, rawURL), title)
	assert.NotEmpty(t, content)
	assert.True(t, strings.HasPrefix(content, "Error extracting content: "))
}

func TestExtractMalformedURL(t *testing.T) {
	title, content := New(types.ExtractConfig{}, nil).Extract(context.Background(), "::not a url")
	assert.Equal(t, "", title)
	assert.True(t, strings.HasPrefix(content, "Error extracting content: "))
}

func TestExtractSendsBrowserUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "<html><body><p>ok</p></body></html>")
	}))
	defer ts.Close()

	New(types.ExtractConfig{}, nil).Extract(context.Background(), ts.URL)
	assert.Equal(t, httputil.BrowserUserAgent, gotUA)
}

func TestNewDefaults(t *testing.T) {
	e := New(types.ExtractConfig{}, nil)
	assert.Equal(t, DefaultTimeout, e.client.Timeout)
	assert.Equal(t, httputil.BrowserUserAgent, e.userAgent)

	e = New(types.ExtractConfig{HTTPConfig: types.HTTPConfig{Timeout: 3 * time.Second, UserAgent: "custom/1.0"}}, nil)
	assert.Equal(t, "custom/1.0", e.userAgent)
	assert.Equal(t, 3*time.Second, e.client.Timeout)
}

func TestExtractErrorContentBounded(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	tests := []struct {
		name   string
		rawURL string
	}{
		{"whitespace run in URL", ts.URL + "/a  b"},
		{"long URL", ts.URL + "/?q=" + strings.Repeat("x", 3500)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, content := New(types.ExtractConfig{}, nil).Extract(context.Background(), tt.rawURL)

			assert.Equal(t, hostPort(t, ts.URL), title)
			assert.True(t, strings.HasPrefix(content, "Error extracting content: "), content)
			assert.Contains(t, content, "HTTP 404")
			assert.LessOrEqual(t, utf8.RuneCountInString(content), types.MaxContentChars)
			assert.False(t, multiSpace.MatchString(content), "content has a whitespace run")
		})
	}
}
