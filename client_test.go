package doublefetch

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/BumpyClock/doublefetch/internal/fetch"
	"github.com/BumpyClock/doublefetch/internal/patterns"
)

type stubFetcher struct {
	html string
	err  error
}

func (f *stubFetcher) Get(_ context.Context, _ string, _ fetch.Options) (*fetch.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(f.html))
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse("https://example.com/search")
	return &fetch.Document{DOM: dom, BaseURI: base}, nil
}

const headlineRule = `
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

func staticProvider(t *testing.T, category, ruleYAML string) patterns.Provider {
	t.Helper()
	var rule patterns.Rule
	require.NoError(t, yaml.Unmarshal([]byte(ruleYAML), &rule))
	return patterns.NewStaticProvider(patterns.RuleSet{category: &rule})
}

func TestClientRunEndToEnd(t *testing.T) {
	client := New(
		WithPatternProvider(staticProvider(t, "web-search-results", headlineRule)),
		WithFetcher(&stubFetcher{html: `<div class="hero"><h1>Top headline</h1></div>`}),
		WithCountryCode("us"),
	)

	messages, err := client.Run(context.Background(), "web-search-results", "today's news", "https://example.com/search?q=news")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hero-shown", messages[0].Body.Action)
	assert.Equal(t, "Top headline", messages[0].Body.Payload["headline"])
}

func TestClientRunWrapsFetchErrorAsTransient(t *testing.T) {
	client := New(
		WithPatternProvider(staticProvider(t, "web-search-results", headlineRule)),
		WithFetcher(&stubFetcher{err: assert.AnError}),
	)

	_, err := client.Run(context.Background(), "web-search-results", "today's news", "https://example.com/search")
	require.Error(t, err)
	assert.False(t, IsPermanent(err))
}
