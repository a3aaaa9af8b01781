// ABOUTME: Rule Evaluator — walks a compiled rule's `input` groups against a document, spec.md §4.4
// ABOUTME: Produces an ExtractionMap the Message Assembler reads; no output/message logic lives here

package engine

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/BumpyClock/doublefetch/internal/domsel"
	"github.com/BumpyClock/doublefetch/internal/patterns"
	"github.com/BumpyClock/doublefetch/internal/transforms"
)

// FirstValues holds one matched element's field values for a "first"
// input group: fieldName -> value (nil when absent).
type FirstValues map[string]*string

// AllValues holds a "first"-group-like field, repeated: every declared
// field maps to a slice, one entry per matched root element, aligned by
// index across fields of the same group.
type AllValues map[string][]*string

// Extraction is the evaluated form of one input group, tagged by the
// same Kind as its source patterns.InputGroup.
type Extraction struct {
	Kind  patterns.InputKind
	First FirstValues // set iff Kind == patterns.InputFirst
	All   AllValues   // set iff Kind == patterns.InputAll
	Count int         // number of matched root elements (0 or 1 for First, len for All)
}

// ExtractionMap is the full result of evaluating a rule's input groups:
// input-group key -> Extraction.
type ExtractionMap map[string]*Extraction

// Evaluate implements spec.md §4.4: for every input group, find its root
// element(s) and, for each, evaluate every declared field's selector and
// transform chain.
func Evaluate(doc *goquery.Document, compiled *patterns.Compiled, baseURI *url.URL, registry *transforms.Registry) (ExtractionMap, error) {
	root := doc.Selection
	out := make(ExtractionMap, len(compiled.Rule.Input))

	for key, group := range compiled.Rule.Input {
		matches := root.Find(key)

		switch group.Kind {
		case patterns.InputFirst:
			ext := &Extraction{Kind: patterns.InputFirst, First: FirstValues{}}
			if matches.Length() > 0 {
				elem := matches.First()
				ext.Count = 1
				for fieldName, def := range group.Fields {
					val, err := evalField(elem, def, baseURI, registry)
					if err != nil {
						return nil, err
					}
					ext.First[fieldName] = val
				}
			}
			out[key] = ext

		case patterns.InputAll:
			n := matches.Length()
			ext := &Extraction{Kind: patterns.InputAll, All: AllValues{}, Count: n}
			for fieldName := range group.Fields {
				ext.All[fieldName] = make([]*string, n)
			}
			var evalErr error
			matches.EachWithBreak(func(i int, s *goquery.Selection) bool {
				for fieldName, def := range group.Fields {
					val, err := evalField(s, def, baseURI, registry)
					if err != nil {
						evalErr = err
						return false
					}
					ext.All[fieldName][i] = val
				}
				return true
			})
			if evalErr != nil {
				return nil, evalErr
			}
			out[key] = ext
		}
	}

	return out, nil
}

// evalField implements spec.md §4.3: run the selector (or the first
// non-null alternative of a firstMatch list), then its transform chain.
func evalField(elem *goquery.Selection, def *patterns.SelectorDef, baseURI *url.URL, registry *transforms.Registry) (*string, error) {
	if def.FirstMatch != nil {
		for _, alt := range def.FirstMatch {
			raw, err := domsel.RunSelector(elem, alt.Select, alt.Attr, baseURI)
			if err != nil {
				return nil, err
			}
			if raw != nil {
				return registry.Run(raw, alt.Transform)
			}
		}
		return nil, nil
	}

	raw, err := domsel.RunSelector(elem, def.Single.Select, def.Single.Attr, baseURI)
	if err != nil {
		return nil, err
	}
	return registry.Run(raw, def.Single.Transform)
}
