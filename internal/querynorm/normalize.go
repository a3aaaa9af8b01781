// ABOUTME: Query normalization — folds full-width/half-width variants and case before a query
// ABOUTME: reaches the cooldown fingerprint or the suspicion filter, so lookalike queries collapse together

package querynorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

var caser = cases.Fold()

// Normalize folds width variants (e.g. full-width Latin letters typed
// on an IME) to their narrow form, then folds case, then trims
// surrounding whitespace. Applied identically before both the cooldown
// fingerprint and the suspicion check so "Foo", "foo", and the
// full-width "Ｆｏｏ" all collapse to the same query identity.
func Normalize(query string) string {
	folded := width.Narrow.String(query)
	folded = caser.String(folded)
	return strings.TrimSpace(folded)
}
