// ABOUTME: The per-extraction Context (query, fetched URL, country) and the Present predicate from spec.md §3

package engine

// Context is the ambient data available to context-sourced output
// fields (spec.md §3): the query the job was run for, the URL that was
// actually fetched, and a sanitized two-letter country code (or "--").
type Context struct {
	Q    string
	QURL string
	Ctry string
}

// value returns the context field named key, or nil if the
// context has no such field.
func (c Context) value(key string) *string {
	switch key {
	case "q":
		return &c.Q
	case "qurl":
		return &c.QURL
	case "ctry":
		return &c.Ctry
	default:
		return nil
	}
}

// present implements spec.md §3's Present predicate: not nil, not the
// empty string.
func present(v *string) bool {
	return v != nil && *v != ""
}
