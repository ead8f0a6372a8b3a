package names

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ensure structuredParser implements the interface.
var _ Primary = structuredParser{}

// structuredParser is the built-in Primary implementation. It handles the
// personal-name shapes that dominate bibliographic author fields: natural
// order ("Martin Luther King"), surname-first ("King, Martin Luther"),
// honorific prefixes, generational and academic suffixes, and lowercase
// surname particles ("Oscar de la Renta").
//
// It is deliberately conservative: anything it cannot classify cleanly,
// including all-lowercase names, mononyms, and strings that are not names
// at all, is rejected so the caller's fallback heuristic can have a go.
// Letter case is preserved as written.
type structuredParser struct{}

// honorificPrefixes are stripped from the front of a name. Lookup keys are
// lowercase with periods removed.
var honorificPrefixes = map[string]struct{}{
	"dr": {}, "mr": {}, "mrs": {}, "ms": {}, "miss": {}, "mx": {},
	"prof": {}, "professor": {}, "sir": {}, "dame": {}, "lady": {},
	"rev": {}, "reverend": {}, "fr": {}, "hon": {},
	"capt": {}, "captain": {}, "col": {}, "maj": {}, "lt": {}, "sgt": {},
}

// suffixDisplay maps a recognised name suffix to its display form used when
// rebuilding the full name. Lookup keys are lowercase with periods removed.
var suffixDisplay = map[string]string{
	"jr": "Jr.", "sr": "Sr.",
	"ii": "II", "iii": "III", "iv": "IV",
	"2nd": "2nd", "3rd": "3rd", "4th": "4th",
	"phd": "PhD", "md": "MD", "esq": "Esq.",
	"dds": "DDS", "jd": "JD", "mba": "MBA",
}

// surnameParticles glue to the token on their right when written lowercase,
// so "de la Renta" stays one surname.
var surnameParticles = map[string]struct{}{
	"van": {}, "von": {}, "de": {}, "der": {}, "den": {},
	"del": {}, "della": {}, "di": {}, "da": {}, "dos": {}, "das": {},
	"du": {}, "la": {}, "le": {}, "el": {}, "al": {},
	"bin": {}, "ibn": {}, "ter": {}, "ten": {},
}

func (structuredParser) ParseFull(text string) (ParsedName, bool) {
	segs := strings.Split(text, ",")
	for i := range segs {
		segs[i] = strings.TrimSpace(segs[i])
	}

	var givenPart, surnamePart string
	var suffixes []string

	switch len(segs) {
	case 1:
		givenPart = segs[0]
	case 2:
		// Either "Full Name, Suffix" or "Surname, Given [Middles]".
		if sfx, ok := suffixSegment(segs[1]); ok {
			givenPart = segs[0]
			suffixes = append(suffixes, sfx)
		} else {
			surnamePart = segs[0]
			givenPart = segs[1]
		}
	case 3:
		// "Surname, Given [Middles], Suffix".
		sfx, ok := suffixSegment(segs[2])
		if !ok {
			return ParsedName{}, false
		}
		surnamePart = segs[0]
		givenPart = segs[1]
		suffixes = append(suffixes, sfx)
	default:
		return ParsedName{}, false
	}

	givenTokens := strings.Fields(givenPart)
	givenTokens = stripHonorifics(givenTokens)
	givenTokens, suffixes = peelSuffixes(givenTokens, suffixes)

	var surnameTokens []string
	if surnamePart != "" {
		surnameTokens = strings.Fields(surnamePart)
	} else {
		// Natural order: the surname is the final token plus any lowercase
		// particles immediately before it.
		if len(givenTokens) < 2 {
			return ParsedName{}, false
		}
		split := len(givenTokens) - 1
		for split > 1 && isParticle(givenTokens[split-1]) {
			split--
		}
		surnameTokens = givenTokens[split:]
		givenTokens = givenTokens[:split]
	}

	if len(givenTokens) == 0 || len(surnameTokens) == 0 {
		return ParsedName{}, false
	}
	if len(givenTokens)+len(surnameTokens) > 6 {
		return ParsedName{}, false
	}

	for i, tok := range givenTokens {
		tok = trimInitialDot(tok)
		if !validToken(tok, false) {
			return ParsedName{}, false
		}
		givenTokens[i] = tok
	}
	for i, tok := range surnameTokens {
		tok = trimInitialDot(tok)
		if !validToken(tok, true) {
			return ParsedName{}, false
		}
		surnameTokens[i] = tok
	}

	given := givenTokens[0]
	middles := givenTokens[1:]

	// Bare initials yield FirstInitial/MiddleInitials but never a name part.
	parsed := ParsedName{
		FirstInitial: upperInitial(given),
		Surname:      strings.Join(surnameTokens, " "),
	}
	if !isInitial(given) {
		parsed.GivenName = given
	}
	if len(middles) > 0 {
		var initials strings.Builder
		var middleNames []string
		for _, m := range middles {
			initials.WriteString(upperInitial(m))
			if !isInitial(m) {
				middleNames = append(middleNames, m)
			}
		}
		parsed.MiddleInitials = initials.String()
		if len(middleNames) > 0 {
			parsed.MiddleNames = strings.Join(middleNames, " ")
		}
	}

	display := make([]string, 0, len(givenTokens)+len(surnameTokens))
	for _, tok := range givenTokens {
		display = append(display, displayToken(tok))
	}
	display = append(display, surnameTokens...)
	full := strings.Join(display, " ")
	if len(suffixes) > 0 {
		full += ", " + strings.Join(suffixes, ", ")
	}
	parsed.Full = full

	return parsed, true
}

// normKey lowercases a token and drops periods for table lookups.
func normKey(tok string) string {
	return strings.ToLower(strings.ReplaceAll(tok, ".", ""))
}

// suffixSegment reports whether a comma segment is a lone name suffix.
func suffixSegment(seg string) (string, bool) {
	if seg == "" || strings.ContainsRune(seg, ' ') {
		return "", false
	}
	display, ok := suffixDisplay[normKey(seg)]
	return display, ok
}

// stripHonorifics removes leading honorific tokens ("Dr.", "Prof.").
// At least one token always survives.
func stripHonorifics(tokens []string) []string {
	for len(tokens) > 1 {
		if _, ok := honorificPrefixes[normKey(tokens[0])]; !ok {
			break
		}
		tokens = tokens[1:]
	}
	return tokens
}

// peelSuffixes moves trailing suffix tokens ("Jr.", "PhD") into the suffix
// list, preserving their written order.
func peelSuffixes(tokens []string, suffixes []string) ([]string, []string) {
	for len(tokens) > 1 {
		display, ok := suffixDisplay[normKey(tokens[len(tokens)-1])]
		if !ok {
			break
		}
		suffixes = append([]string{display}, suffixes...)
		tokens = tokens[:len(tokens)-1]
	}
	return tokens, suffixes
}

// isParticle reports whether tok is a surname particle written lowercase.
// "Van Morrison" keeps Van as a given name; "van Gogh" glues.
func isParticle(tok string) bool {
	if tok != strings.ToLower(tok) {
		return false
	}
	_, ok := surnameParticles[tok]
	return ok
}

// trimInitialDot normalises single-letter initials: "Q." becomes "Q".
func trimInitialDot(tok string) string {
	runes := []rune(tok)
	if len(runes) == 2 && runes[1] == '.' && unicode.IsLetter(runes[0]) {
		return string(runes[0])
	}
	return tok
}

// isInitial reports whether a normalised token is a bare initial.
func isInitial(tok string) bool {
	return utf8.RuneCountInString(tok) == 1
}

// displayToken renders a token for the full name: initials get their period
// back ("J."), everything else is kept as written.
func displayToken(tok string) string {
	if isInitial(tok) {
		return tok + "."
	}
	return tok
}

// validToken decides whether a token can be part of a confidently parsed
// name. Tokens must contain a letter, must not be stray suffixes or
// honorifics, and must start with an uppercase letter unless they are a
// lowercase surname particle in surname position.
func validToken(tok string, surnameSide bool) bool {
	if tok == "" {
		return false
	}
	key := normKey(tok)
	if _, ok := suffixDisplay[key]; ok {
		return false
	}
	if _, ok := honorificPrefixes[key]; ok {
		return false
	}

	hasLetter := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}

	first := []rune(tok)[0]
	if unicode.IsUpper(first) || unicode.IsTitle(first) {
		return true
	}
	return surnameSide && isParticle(tok)
}

// upperInitial returns the uppercased first rune of a token.
func upperInitial(tok string) string {
	for _, r := range tok {
		return string(unicode.ToUpper(r))
	}
	return ""
}
