package crossref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon-labs/worknorm/internal/core/domain"
)

const fullRecord = `{
	"DOI": "10.1371/JOURNAL.PONE.0020476",
	"title": ["<i>Coral</i> Reefs of the Anthropocene"],
	"container-title": ["PLoS ONE"],
	"abstract": "<jats:p>Reef change is rapid.</jats:p>",
	"type": "journal-article",
	"publisher": "Public Library of Science",
	"issued": {"date-parts": [[2011, 6, 1]]},
	"deposited": {"date-parts": [[2021, 3, 3]], "date-time": "2021-03-03T22:20:24Z"},
	"author": [
		{
			"given": "John",
			"family": "Doe",
			"ORCID": "http://orcid.org/0000-0002-1825-0097",
			"affiliation": [{"name": "Example University"}]
		},
		{"given": "John", "family": "Doe", "affiliation": [{"name": "Example University"}]},
		{"name": "The Reef Consortium"}
	],
	"funder": [
		{
			"DOI": "10.13039/100000001",
			"name": "National Science Foundation",
			"award": ["OCE-0927448, OCE-1026851"]
		},
		{"name": "Gordon and Betty Moore Foundation", "award": []}
	],
	"relation": {
		"is-preprint-of": [
			{"id": "https://doi.org/10.1101/2020.01.01.012345", "id-type": "doi", "asserted-by": "subject"}
		],
		"has-review": [
			{"id": "urn:isbn:978-3-16-148410-0", "id-type": "uri", "asserted-by": "object"}
		]
	}
}`

func TestTransform_FullRecord(t *testing.T) {
	tr := New(nil)

	work, err := tr.Transform([]byte(fullRecord))
	require.NoError(t, err)
	require.NotNil(t, work)

	assert.Equal(t, "10.1371/journal.pone.0020476", work.DOI)
	assert.Equal(t, domain.SourceCrossref, work.Source)
	assert.Equal(t, "Coral Reefs of the Anthropocene", work.Title)
	assert.Equal(t, "Reef change is rapid.", work.Abstract)
	assert.Equal(t, "journal-article", work.WorkType)
	assert.Equal(t, "PLoS ONE", work.PublicationVenue)
	assert.Equal(t, domain.WorkIDs{DOI: "10.1371/journal.pone.0020476"}, work.IDs)

	require.NotNil(t, work.PublicationDate)
	assert.Equal(t, time.Date(2011, 6, 1, 0, 0, 0, 0, time.UTC), *work.PublicationDate)
	require.NotNil(t, work.UpdatedDate)
	assert.Equal(t, time.Date(2021, 3, 3, 22, 20, 24, 0, time.UTC), *work.UpdatedDate)

	// The ORCID keeps the first two authors distinct; the organisation
	// contributor has no name parts and is dropped.
	assert.Equal(t, []domain.Author{
		{
			ORCID:        "0000-0002-1825-0097",
			FirstInitial: "J",
			GivenName:    "John",
			Surname:      "Doe",
			Full:         "John Doe",
		},
		{
			FirstInitial: "J",
			GivenName:    "John",
			Surname:      "Doe",
			Full:         "John Doe",
		},
	}, work.Authors)
	assert.Equal(t, []domain.Institution{{Name: "Example University"}}, work.Institutions)

	// A funder without awards still yields a funder entity.
	assert.Equal(t, []domain.Funder{
		{ID: "10.13039/100000001", DisplayName: "National Science Foundation"},
		{DisplayName: "Gordon and Betty Moore Foundation"},
	}, work.Funders)
	assert.Equal(t, []domain.Award{
		{
			FunderAwardID:     "OCE-0927448",
			FunderID:          "10.13039/100000001",
			FunderDisplayName: "National Science Foundation",
		},
		{
			FunderAwardID:     "OCE-1026851",
			FunderID:          "10.13039/100000001",
			FunderDisplayName: "National Science Foundation",
		},
	}, work.Awards)

	// Relation types iterate in sorted order.
	assert.Equal(t, []domain.Relation{
		{
			Type:        "has-review",
			RelatedID:   "urn:isbn:978-3-16-148410-0",
			RelatedType: "uri",
			AssertedBy:  "object",
		},
		{
			Type:        "is-preprint-of",
			RelatedID:   "10.1101/2020.01.01.012345",
			RelatedType: "DOI",
			AssertedBy:  "subject",
		},
	}, work.Relations)
}

func TestTransform_Skips(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "missing doi", line: `{"title": ["No DOI"]}`},
		{name: "doi without pattern", line: `{"DOI": "not-a-doi"}`},
	}

	tr := New(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			work, err := tr.Transform([]byte(tc.line))
			require.NoError(t, err)
			assert.Nil(t, work)
		})
	}
}

func TestTransform_MalformedLine(t *testing.T) {
	tr := New(nil)

	work, err := tr.Transform([]byte(`{"DOI": "10.1/2", "author": {`))
	require.Error(t, err)
	assert.Nil(t, work)
}

func TestPublicationDate(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *time.Time
	}{
		{
			name: "year only defaults to january first",
			line: `{"DOI": "10.1/2", "issued": {"date-parts": [[2019]]}}`,
			want: timePtr(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "published fallback when issued empty",
			line: `{"DOI": "10.1/2", "issued": {"date-parts": [[null]]}, "published": {"date-parts": [[2020, 5]]}}`,
			want: timePtr(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "no dates at all",
			line: `{"DOI": "10.1/2"}`,
			want: nil,
		},
	}

	tr := New(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			work, err := tr.Transform([]byte(tc.line))
			require.NoError(t, err)
			require.NotNil(t, work)
			assert.Equal(t, tc.want, work.PublicationDate)
		})
	}
}

func TestParseVenue_PublisherFallback(t *testing.T) {
	tr := New(nil)

	work, err := tr.Transform([]byte(`{"DOI": "10.1/2", "publisher": "Springer"}`))
	require.NoError(t, err)
	require.NotNil(t, work)
	assert.Equal(t, "Springer", work.PublicationVenue)
}

func TestSource(t *testing.T) {
	assert.Equal(t, domain.SourceCrossref, New(nil).Source())
}

func timePtr(t time.Time) *time.Time {
	return &t
}
