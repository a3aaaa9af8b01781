// Package doublefetch is a declarative, pattern-driven DOM extraction
// core for search-results telemetry. Given a page category, a search
// query, and a URL to fetch, it runs a cooldown-gated job that fetches
// the page anonymously, evaluates a YAML-authored extraction rule
// against the parsed DOM, and assembles zero or more telemetry
// messages.
//
// A minimal client looks like:
//
//	client := doublefetch.New(
//	    doublefetch.WithPatternDir("./patterns"),
//	)
//	messages, err := client.Run(ctx, "web-search-results", "weather tomorrow", "https://example.com/search?q=weather+tomorrow")
package doublefetch
