// ABOUTME: Builtin transform primitives, four of them backed by three pack libraries rather than stdlib
// ABOUTME: trim/lower/upper/truncate/regexReplace/regexExtract are stdlib; parseDate/toMarkdown/sanitizeHtml/stripTags are not

package transforms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/markusmobius/go-dateparser"
	"github.com/microcosm-cc/bluemonday"
)

func registerBuiltins(r *Registry) {
	r.Register("trim", transformTrim)
	r.Register("lower", transformLower)
	r.Register("upper", transformUpper)
	r.Register("truncate", transformTruncate)
	r.Register("regexReplace", transformRegexReplace)
	r.Register("regexExtract", transformRegexExtract)
	r.Register("parseDate", transformParseDate)
	r.Register("toMarkdown", transformToMarkdown)
	r.Register("sanitizeHtml", transformSanitizeHTML)
	r.Register("stripTags", transformStripTags)
}

func transformTrim(value string, _ ...string) (string, error) {
	return strings.TrimSpace(value), nil
}

func transformLower(value string, _ ...string) (string, error) {
	return strings.ToLower(value), nil
}

func transformUpper(value string, _ ...string) (string, error) {
	return strings.ToUpper(value), nil
}

// transformTruncate(value, maxLen) cuts value to at most maxLen runes.
func transformTruncate(value string, args ...string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("truncate requires exactly one argument (max length)")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("truncate: invalid length %q: %w", args[0], err)
	}
	runes := []rune(value)
	if n < 0 || n >= len(runes) {
		return value, nil
	}
	return string(runes[:n]), nil
}

// transformRegexReplace(value, pattern, replacement) applies
// regexp.ReplaceAllString.
func transformRegexReplace(value string, args ...string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("regexReplace requires pattern and replacement arguments")
	}
	re, err := regexp.Compile(args[0])
	if err != nil {
		return "", fmt.Errorf("regexReplace: invalid pattern: %w", err)
	}
	return re.ReplaceAllString(value, args[1]), nil
}

// transformRegexExtract(value, pattern) returns the first submatch group,
// or the whole match if the pattern has no groups.
func transformRegexExtract(value string, args ...string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("regexExtract requires a pattern argument")
	}
	re, err := regexp.Compile(args[0])
	if err != nil {
		return "", fmt.Errorf("regexExtract: invalid pattern: %w", err)
	}
	match := re.FindStringSubmatch(value)
	if match == nil {
		return "", nil
	}
	if len(match) > 1 {
		return match[1], nil
	}
	return match[0], nil
}

// transformParseDate normalizes a loosely-formatted date string to
// RFC3339, following the teacher's internal/utils/text/date.go use of
// go-dateparser with a stdlib time.Parse fallback ladder.
func transformParseDate(value string, _ ...string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime:   time.Now(),
		StrictParsing: false,
	}
	if parsed, err := dateparser.Parse(cfg, trimmed); err == nil {
		return parsed.Time.UTC().Format(time.RFC3339), nil
	}

	for _, layout := range dateFallbackLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}

	return "", fmt.Errorf("parseDate: unable to parse %q", trimmed)
}

var dateFallbackLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// transformToMarkdown flattens an HTML fragment captured by a selector
// into Markdown, for message fields that want a rich snippet body as
// plain text rather than raw markup.
func transformToMarkdown(value string, _ ...string) (string, error) {
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(value)
	if err != nil {
		return "", fmt.Errorf("toMarkdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}

var (
	sanitizePolicy  = bluemonday.StrictPolicy()
	stripTagsPolicy = bluemonday.StrictPolicy()
)

// transformSanitizeHtml removes markup that shouldn't reach a telemetry
// payload, following the teacher's pkg/utils/security/sanitizer.go
// StrictSanitizer.
func transformSanitizeHTML(value string, _ ...string) (string, error) {
	return sanitizePolicy.Sanitize(value), nil
}

// transformStripTags removes all tags, keeping only text content.
func transformStripTags(value string, _ ...string) (string, error) {
	return strings.TrimSpace(stripTagsPolicy.Sanitize(value)), nil
}
