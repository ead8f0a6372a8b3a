// Package names parses personal names into structured parts.
//
// Parsing is two-stage: a structured primary parser handles names it can
// take apart confidently, and a comma/space split heuristic catches the
// rest. Rejection by the primary parser is an expected outcome carried as a
// boolean, not an error, so callers always receive a usable result.
package names

import (
	"strings"

	"github.com/quillon-labs/worknorm/internal/logger"
)

// ParsedName holds the recovered parts of a personal name.
// Every field is optional: the empty string means the part could not be
// derived, and JSON encoding omits it.
type ParsedName struct {
	FirstInitial   string `json:"first_initial,omitempty"`
	GivenName      string `json:"given_name,omitempty"`
	MiddleInitials string `json:"middle_initials,omitempty"`
	MiddleNames    string `json:"middle_names,omitempty"`
	Surname        string `json:"surname,omitempty"`
	Full           string `json:"full,omitempty"`
}

// IsZero reports whether no part of the name was recovered.
func (n ParsedName) IsZero() bool {
	return n == ParsedName{}
}

// Primary is a structured name parser. ParseFull returns ok=false when the
// text does not look like a personal name it can split confidently; the
// caller then falls back to the heuristic. On ok=true the result always
// carries a surname and a full display form.
type Primary interface {
	ParseFull(text string) (ParsedName, bool)
}

// Parser normalises personal names.
type Parser struct {
	primary Primary
}

// New returns a Parser that consults the given primary parser before the
// fallback heuristic. A nil primary goes straight to the fallback.
func New(primary Primary) *Parser {
	return &Parser{primary: primary}
}

// NewDefault returns a Parser backed by the built-in structured parser.
func NewDefault() *Parser {
	return New(structuredParser{})
}

// Parse splits text into name parts.
//
// Empty or whitespace-only input yields the zero ParsedName. Otherwise the
// primary parser runs first; when it rejects, the fallback splits on the
// first comma ("Surname, Given"), then on the last space ("Given Surname"),
// and a single token populates only Full. The fallback reports itself
// through the logger so data quality issues stay visible.
func (p *Parser) Parse(text string) ParsedName {
	s := strings.TrimSpace(text)
	if s == "" {
		return ParsedName{}
	}

	if p.primary != nil {
		if parsed, ok := p.primary.ParseFull(s); ok {
			return parsed
		}
	}

	return fallbackParse(s)
}

// fallbackParse recovers at most a given name and surname from simple
// splitting rules. Initials and middle names are never populated here.
func fallbackParse(s string) ParsedName {
	var given, surname string
	split := false

	if left, right, ok := strings.Cut(s, ","); ok {
		surname = strings.TrimSpace(left)
		given = strings.TrimSpace(right)
		split = true
	} else if idx := strings.LastIndex(s, " "); idx >= 0 {
		given = strings.TrimSpace(s[:idx])
		surname = strings.TrimSpace(s[idx+1:])
		split = true
	}

	if !split {
		logger.Warn("name parse fallback: given_name=%q, surname=%q, full=%q", "", "", s)
		return ParsedName{Full: s}
	}

	full := strings.TrimSpace(given + " " + surname)
	logger.Warn("name parse fallback: given_name=%q, surname=%q, full=%q", given, surname, full)
	return ParsedName{
		GivenName: given,
		Surname:   surname,
		Full:      full,
	}
}
