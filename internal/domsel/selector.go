// ABOUTME: Selector Evaluator — CSS-like selection plus attr policy (textContent/href/generic) over a goquery node
// ABOUTME: href reads the raw attribute and resolves it against an explicit base URL, never a DOM-resolved property

package domsel

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	AttrTextContent = "textContent"
	AttrHref        = "href"
)

// RunSelector implements spec.md §4.2: find the target node (root itself
// if selector is nil), then read it according to attr's policy.
//
// Grounded on the teacher's use of the raw, unresolved attribute value
// plus an explicit url.Parse/base.Parse pair in
// internal/cleaners/simple.go's CleanLeadImageURL — goquery/net-html
// attributes are always the literal HTML attribute text, never a
// browser-resolved property, which is exactly the parser-independent
// behavior spec.md §4.2 requires.
func RunSelector(root *goquery.Selection, selector *string, attr string, baseURI *url.URL) (*string, error) {
	elem := root
	if selector != nil {
		found := root.Find(*selector)
		if found.Length() == 0 {
			return nil, nil
		}
		elem = found.First()
	}

	switch attr {
	case AttrTextContent:
		text := elem.Text()
		return &text, nil
	case AttrHref:
		raw, ok := elem.Attr("href")
		if !ok || raw == "" {
			return nil, nil
		}
		resolved, err := resolveHref(raw, baseURI)
		if err != nil {
			// An unparseable raw href is absent, not an error: the page
			// authored something unusable, which is not a pattern defect.
			return nil, nil
		}
		return &resolved, nil
	default:
		value, ok := elem.Attr(attr)
		if !ok {
			return nil, nil
		}
		return &value, nil
	}
}

func resolveHref(raw string, baseURI *url.URL) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if baseURI == nil {
		return ref.String(), nil
	}
	return baseURI.ResolveReference(ref).String(), nil
}
