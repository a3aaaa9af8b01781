// ABOUTME: Preprocessor — executes prune directives against a document before extraction runs
// ABOUTME: "first" removes at most one match per directive; "all" removes every match

package domsel

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/BumpyClock/doublefetch/internal/patterns"
)

// Preprocess implements spec.md §4.4's prune step, run once before the
// Rule Evaluator walks `input`.
func Preprocess(doc *goquery.Document, directives []patterns.PruneDirective) {
	for _, directive := range directives {
		matches := doc.Find(directive.Selector)
		switch directive.Kind {
		case patterns.PruneFirst:
			if matches.Length() > 0 {
				matches.First().Remove()
			}
		case patterns.PruneAll:
			matches.Remove()
		}
	}
}
