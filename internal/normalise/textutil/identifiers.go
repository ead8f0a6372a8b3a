package textutil

import (
	"regexp"
	"strings"
)

// Pre-compiled patterns for identifier extraction.
var (
	doiPattern   = regexp.MustCompile(`(?i)10\.[\d.]+/[^\s]+`)
	orcidPattern = regexp.MustCompile(`(?i)\d{4}-\d{4}-\d{4}-\d{3}[\dX]`)
	rorPattern   = regexp.MustCompile(`(?i)0[a-hj-km-np-tv-z0-9]{6}[0-9]{2}`)
	urlPrefix    = regexp.MustCompile(`(?i)https?://[^/]+/`)
)

// ExtractDOI returns the first DOI found in s, lowercased, or "".
// Bare DOIs and resolver URLs such as "https://doi.org/10.1234/ABC" both
// match; everything from "10." to the next whitespace is taken.
func ExtractDOI(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(doiPattern.FindString(s))
}

// ExtractORCID returns the first ORCID iD found in s, lowercased, or "".
// The trailing checksum character may be a digit or X.
func ExtractORCID(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(orcidPattern.FindString(s))
}

// ExtractROR returns the first ROR ID found in s, lowercased, or "".
// ROR IDs start with 0 followed by six Crockford base32 characters and a
// two-digit checksum.
func ExtractROR(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(rorPattern.FindString(s))
}

// NormaliseIdentifier strips every "http(s)://host/" occurrence from the
// identifier, not just a leading prefix, then trims and lowercases.
// "https://openalex.org/W123" becomes "w123".
func NormaliseIdentifier(s string) string {
	if s == "" {
		return ""
	}
	return CleanString(urlPrefix.ReplaceAllString(s, ""), true)
}

// NormaliseISNI removes interior spaces from an ISNI ("0000 0001 2096 9829"),
// trims and lowercases.
func NormaliseISNI(s string) string {
	return CleanString(strings.ReplaceAll(s, " ", ""), true)
}
