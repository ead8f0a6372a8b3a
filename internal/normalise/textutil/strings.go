// Package textutil provides small field-level helpers shared by the record
// transforms: string cleaning, identifier extraction and ISO 8601 date
// parsing. Every helper is pure and treats the empty string as absent, both
// on input and output.
package textutil

import "strings"

// CleanString trims surrounding whitespace and optionally lowercases.
// Whitespace-only input yields "".
func CleanString(s string, lower bool) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if lower {
		return strings.ToLower(s)
	}
	return s
}

// ReplaceWithNull trims the value and returns "" when its lowercased form
// matches one of the given placeholder values (compared lowercased).
// Otherwise the trimmed value is returned with its case intact.
func ReplaceWithNull(s string, nullIfEquals []string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	lowered := strings.ToLower(trimmed)
	for _, v := range nullIfEquals {
		if lowered == strings.ToLower(v) {
			return ""
		}
	}
	return trimmed
}
