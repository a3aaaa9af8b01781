// ABOUTME: Country-code sanitizer — the external collaborator spec.md calls out, with a safe-by-default implementation

package country

import "strings"

// Sanitizer produces the two-letter country code to stamp on a
// message's context fields, never raw unvalidated caller input.
type Sanitizer interface {
	SafeCountryCode() string
}

// UnknownCode is emitted whenever the input cannot be trusted as a
// two-letter country code.
const UnknownCode = "--"

// StaticSanitizer wraps a single caller-supplied code, validating it
// once at construction. Deployments that resolve country from a geo-IP
// service implement their own Sanitizer against that service instead.
type StaticSanitizer struct {
	code string
}

// NewStaticSanitizer validates raw and stores the upper-cased two-letter
// code, or UnknownCode if raw isn't exactly two ASCII letters.
func NewStaticSanitizer(raw string) *StaticSanitizer {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) != 2 || !isASCIIAlpha(trimmed[0]) || !isASCIIAlpha(trimmed[1]) {
		return &StaticSanitizer{code: UnknownCode}
	}
	return &StaticSanitizer{code: strings.ToUpper(trimmed)}
}

func (s *StaticSanitizer) SafeCountryCode() string {
	return s.code
}

func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
