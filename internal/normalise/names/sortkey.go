package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks strips diacritics: decompose, drop combining marks, recompose.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SortKey returns a stable ordering key for a parsed name: surname first,
// then given and middle names, lowercased, diacritics folded, whitespace
// collapsed. A name with no parsed parts falls back to its full form, and
// the key is empty only for the zero ParsedName.
func SortKey(n ParsedName) string {
	parts := make([]string, 0, 3)
	if n.Surname != "" {
		parts = append(parts, n.Surname)
	}
	if n.GivenName != "" {
		parts = append(parts, n.GivenName)
	}
	if n.MiddleNames != "" {
		parts = append(parts, n.MiddleNames)
	}
	key := strings.Join(parts, " ")
	if key == "" {
		key = n.Full
	}

	folded, _, err := transform.String(foldMarks, strings.ToLower(key))
	if err != nil {
		folded = strings.ToLower(key)
	}
	return strings.Join(strings.Fields(folded), " ")
}
