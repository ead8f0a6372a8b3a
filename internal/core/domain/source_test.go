package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSource tests source name validation.
func TestParseSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Source
	}{
		{name: "openalex", input: "openalex-works", want: SourceOpenAlex},
		{name: "datacite", input: "datacite", want: SourceDataCite},
		{name: "crossref", input: "crossref-metadata", want: SourceCrossref},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSource(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestParseSource_Unknown tests rejection of unrecognised names.
func TestParseSource_Unknown(t *testing.T) {
	for _, input := range []string{"", "openalex", "DataCite", "pubmed"} {
		_, err := ParseSource(input)
		assert.ErrorIs(t, err, ErrUnknownSource, "input %q", input)
	}
}

// TestSources tests the display list covers every constant.
func TestSources(t *testing.T) {
	all := Sources()

	assert.Len(t, all, 3)
	assert.Contains(t, all, SourceOpenAlex)
	assert.Contains(t, all, SourceDataCite)
	assert.Contains(t, all, SourceCrossref)
}

// TestSource_String tests the string form used in CLI output.
func TestSource_String(t *testing.T) {
	assert.Equal(t, "openalex-works", SourceOpenAlex.String())
}
