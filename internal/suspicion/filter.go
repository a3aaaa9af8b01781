// ABOUTME: Query-suspicion filter — the thin external collaborator spec.md calls out, given a real default
// ABOUTME: so the teacher's agnivade/levenshtein dependency gets a concrete home in this repo

package suspicion

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Filter decides whether a query is worth spending a fetch on before
// the job handler ever touches the cooldown gate. accept=false short-
// circuits the job with reason explaining why.
type Filter interface {
	Check(query string) (accept bool, reason string)
}

// LevenshteinFilter rejects queries made mostly of one repeated
// character (e.g. "aaaaaaaaaa"), a common shape of junk telemetry input.
// It measures the edit distance between the query and its own
// run-length collapse (every maximal run of one rune folded to a single
// instance): a large distance relative to length means most of the
// query was repeated filler. Only runs of a single rune collapse, so a
// repeated multi-character pattern ("abcabcabc") or a keyboard mash
// without doubled characters is accepted.
type LevenshteinFilter struct {
	MinLength int
}

// NewLevenshteinFilter returns a Filter with a sane minimum query
// length; non-empty queries shorter than this are always accepted;
// there's too little signal to call them suspicious. An empty or
// all-whitespace query is always rejected.
func NewLevenshteinFilter() *LevenshteinFilter {
	return &LevenshteinFilter{MinLength: 6}
}

func (f *LevenshteinFilter) Check(query string) (bool, string) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return false, "empty query"
	}
	if len([]rune(trimmed)) < f.MinLength {
		return true, ""
	}

	collapsed := collapseRuns(trimmed)
	dist := levenshtein.ComputeDistance(trimmed, collapsed)
	ratio := float64(dist) / float64(len([]rune(trimmed)))
	if ratio > 0.5 {
		return false, "query collapses to a short repeated run"
	}
	return true, ""
}

// collapseRuns replaces every maximal run of the same rune with a
// single instance, e.g. "aaaabbbbcccc" -> "abc".
func collapseRuns(s string) string {
	runes := []rune(s)
	var out []rune
	for i, r := range runes {
		if i == 0 || runes[i-1] != r {
			out = append(out, r)
		}
	}
	return string(out)
}
