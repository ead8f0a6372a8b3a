package textutil

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// JSONString decodes a JSON scalar into its string form. Source dumps are
// inconsistent about scalar types - MAG identifiers arrive as numbers, award
// numbers occasionally as integers - so fields that should be strings decode
// through this type instead of failing on a stray number. null decodes to "".
type JSONString string

// UnmarshalJSON implements json.Unmarshaler. Strings are unquoted, numbers
// and booleans keep their literal text, and anything else decodes to "".
func (j *JSONString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*j = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*j = JSONString(s)
	case '{', '[':
		*j = ""
	default:
		*j = JSONString(data)
	}
	return nil
}

// String returns the decoded value.
func (j JSONString) String() string {
	return string(j)
}
