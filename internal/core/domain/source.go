package domain

import "fmt"

// Source identifies a supported metadata source. The string values double
// as CLI argument and output file prefix, so they are stable.
type Source string

const (
	// SourceOpenAlex is the OpenAlex works snapshot.
	SourceOpenAlex Source = "openalex-works"

	// SourceDataCite is the DataCite public data file.
	SourceDataCite Source = "datacite"

	// SourceCrossref is the Crossref metadata public data file.
	SourceCrossref Source = "crossref-metadata"
)

// Sources lists every supported source in display order.
func Sources() []Source {
	return []Source{SourceCrossref, SourceDataCite, SourceOpenAlex}
}

// ParseSource validates a source name from user input.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceOpenAlex, SourceDataCite, SourceCrossref:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// String returns the source name.
func (s Source) String() string {
	return string(s)
}
