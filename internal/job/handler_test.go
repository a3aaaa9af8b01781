package job

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/BumpyClock/doublefetch/internal/cooldown"
	"github.com/BumpyClock/doublefetch/internal/fetch"
	"github.com/BumpyClock/doublefetch/internal/patterns"
)

type fakeFetcher struct {
	doc *fetch.Document
	err error
}

func (f *fakeFetcher) Get(_ context.Context, _ string, _ fetch.Options) (*fetch.Document, error) {
	return f.doc, f.err
}

func mustDoc(t *testing.T, html string) *fetch.Document {
	t.Helper()
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	base, _ := url.Parse("https://example.com/search")
	return &fetch.Document{DOM: dom, BaseURI: base}
}

func staticProvider(t *testing.T, category, ruleYAML string) *patterns.StaticProvider {
	t.Helper()
	var rule patterns.Rule
	require.NoError(t, yaml.Unmarshal([]byte(ruleYAML), &rule))
	return patterns.NewStaticProvider(patterns.RuleSet{category: &rule})
}

const heroRule = `
input:
  .hero:
    first:
      headline:
        select: "h1"
        attr: textContent
output:
  hero-shown:
    fields:
      - key: q
      - key: headline
        source: .hero
`

func TestHandlerRunHappyPath(t *testing.T) {
	h := NewHandler(Handler{
		Patterns: staticProvider(t, "web-search-results", heroRule),
		Cooldown: cooldown.NewGate(cooldown.NewMemoryStore(), nil),
		Fetcher:  &fakeFetcher{doc: mustDoc(t, `<div class="hero"><h1>Breaking news</h1></div>`)},
	})

	result, err := h.Run(context.Background(), Request{
		Category: "web-search-results",
		Query:    "breaking news today",
		RawURL:   "https://example.com/search?q=breaking+news",
	})
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "hero-shown", result.Messages[0].Body.Action)
	assert.Equal(t, "Breaking news", result.Messages[0].Body.Payload["headline"])
}

func TestHandlerCooldownPreventsSecondRun(t *testing.T) {
	fetcher := &fakeFetcher{doc: mustDoc(t, `<div class="hero"><h1>Breaking news</h1></div>`)}
	h := NewHandler(Handler{
		Patterns: staticProvider(t, "web-search-results", heroRule),
		Cooldown: cooldown.NewGate(cooldown.NewMemoryStore(), nil),
		Fetcher:  fetcher,
	})
	req := Request{Category: "web-search-results", Query: "breaking news today", RawURL: "https://example.com/search"}

	first, err := h.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Messages, 1)

	second, err := h.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, second.Messages, "second run within the same UTC day must be gated by cooldown")
}

func TestHandlerReleasesFingerprintOnFetchFailure(t *testing.T) {
	store := cooldown.NewMemoryStore()
	fetcher := &fakeFetcher{err: assert.AnError}
	h := NewHandler(Handler{
		Patterns: staticProvider(t, "web-search-results", heroRule),
		Cooldown: cooldown.NewGate(store, nil),
		Fetcher:  fetcher,
	})
	req := Request{Category: "web-search-results", Query: "breaking news today", RawURL: "https://example.com/search"}

	_, err := h.Run(context.Background(), req)
	require.Error(t, err)

	// The fingerprint must have been released: a retry should be able
	// to acquire the cooldown slot again.
	fetcher.err = nil
	fetcher.doc = mustDoc(t, `<div class="hero"><h1>Retry worked</h1></div>`)
	result, err := h.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
}

func TestHandlerSwallowsExtractionFailureWithoutReleasingFingerprint(t *testing.T) {
	store := cooldown.NewMemoryStore()
	h := NewHandler(Handler{
		Patterns: patterns.NewStaticProvider(patterns.RuleSet{}), // no rule registered for the category
		Cooldown: cooldown.NewGate(store, nil),
		Fetcher:  &fakeFetcher{doc: mustDoc(t, `<div></div>`)},
	})
	req := Request{Category: "unregistered-category", Query: "some query", RawURL: "https://example.com/search"}

	result, err := h.Run(context.Background(), req)
	require.NoError(t, err, "extraction failures are logged and swallowed, not propagated")
	assert.Empty(t, result.Messages)

	// The fingerprint must NOT have been released: a second attempt is
	// still gated for the rest of the UTC day.
	ok, err := h.Cooldown.Acquire(context.Background(), req.Category, "some query")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandlerRejectsSuspiciousQuery(t *testing.T) {
	h := NewHandler(Handler{
		Patterns: staticProvider(t, "web-search-results", heroRule),
		Cooldown: cooldown.NewGate(cooldown.NewMemoryStore(), nil),
		Fetcher:  &fakeFetcher{doc: mustDoc(t, `<div class="hero"><h1>x</h1></div>`)},
	})

	result, err := h.Run(context.Background(), Request{
		Category: "web-search-results",
		Query:    "aaaaaaaaaaaaaaaaaaaa",
		RawURL:   "https://example.com/search",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Messages)
}
