// ABOUTME: Document — the parsed-DOM result handed to the Preprocessor and Rule Evaluator

package fetch

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Document is a fetched page, already decoded to UTF-8 and parsed into a
// DOM. BaseURI is the URL the document was actually served from (after
// redirects), used to resolve relative hrefs during selector evaluation.
type Document struct {
	DOM     *goquery.Document
	BaseURI *url.URL
}

// Options customizes one fetch call: headers to merge onto the request
// and the redirect budget (zero keeps the fetcher's default).
type Options struct {
	Headers      map[string]string
	MaxRedirects int
}
