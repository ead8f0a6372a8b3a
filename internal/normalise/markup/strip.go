// Package markup strips tag markup from metadata strings.
//
// Bibliographic titles and abstracts frequently arrive wrapped in HTML or
// JATS tags. Strip removes anything tag-shaped and nothing else: entities
// are not decoded and no sanitisation is attempted, so stripping is
// idempotent and best-effort rather than a security boundary.
package markup

import (
	"regexp"
	"strings"
)

// tagPattern matches tag-like markup. A dangling "<" with no closing ">"
// is left in place.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Strip removes markup tags from text and trims surrounding whitespace.
//
// An empty input returns "". When the stripped, trimmed result exactly
// matches one of the nullIfEquals sentinels it also returns "", which lets
// callers treat placeholder values such as ":unav" or "N/A" as no data.
// Strip never fails: malformed markup degrades to whatever the tag pattern
// can remove.
func Strip(text string, nullIfEquals ...string) string {
	if text == "" {
		return ""
	}

	stripped := strings.TrimSpace(tagPattern.ReplaceAllString(text, ""))
	if stripped == "" {
		return ""
	}

	for _, sentinel := range nullIfEquals {
		if stripped == sentinel {
			return ""
		}
	}

	return stripped
}
