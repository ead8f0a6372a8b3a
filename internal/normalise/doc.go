// Package normalise groups the text normalisation operations applied to
// bibliographic metadata. Each subpackage owns one concern:
//
//   - names: personal-name parsing into structured parts
//   - invidx: reconstructing abstracts from inverted indexes
//   - markup: stripping tag markup from metadata strings
//   - textutil: identifier, date and string field helpers
//
// All operations are pure and total: malformed input degrades to an absent
// value (the zero value) plus a logger diagnostic, never an error or panic.
package normalise
