// Package invidx reconstructs text from inverted indexes.
//
// OpenAlex ships work abstracts as a JSON object mapping each word to the
// positions it occupies in the original text, e.g.
// {"the":[0],"cat":[1],"sat":[2]}. Revert turns that back into prose.
package invidx

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/quillon-labs/worknorm/internal/logger"
)

// Revert rebuilds the original text from a JSON-serialised inverted index.
//
// Nil, empty or malformed input yields "" (with a logger diagnostic for the
// malformed case); Revert never returns an error. When two words claim the
// same position the lexicographically greater word wins, which keeps the
// output deterministic regardless of map iteration order. Positions nobody
// claims are skipped without leaving extra delimiters behind.
func Revert(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var index map[string][]uint32
	if err := json.Unmarshal(data, &index); err != nil {
		logger.Warn("revert inverted index: invalid json: %v", err)
		return ""
	}

	// claimed is tracked separately so an empty-string word still counts as
	// a claim rather than a gap.
	var words []string
	var claimed []bool
	for word, positions := range index {
		for _, pos := range positions {
			idx := int(pos)
			if idx >= len(words) {
				words = append(words, make([]string, idx+1-len(words))...)
				claimed = append(claimed, make([]bool, idx+1-len(claimed))...)
			}
			if !claimed[idx] || word > words[idx] {
				words[idx] = word
				claimed[idx] = true
			}
		}
	}

	var b strings.Builder
	first := true
	for i, word := range words {
		if !claimed[i] {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		b.WriteString(word)
		first = false
	}

	return strings.TrimSpace(b.String())
}
