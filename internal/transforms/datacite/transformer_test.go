package datacite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon-labs/worknorm/internal/core/domain"
)

// defaultNulls mirrors the configured abstract placeholders for DataCite.
var defaultNulls = []string{":unav", "Cover title."}

const fullRecord = `{
	"id": "https://doi.org/10.5061/DRYAD.Q447C",
	"attributes": {
		"doi": "10.5061/dryad.q447c",
		"titles": [
			{"title": null},
			{"title": "Data from: <b>Chromosome</b> evolution"}
		],
		"descriptions": [
			{"description": ":unav"},
			{"description": "We studied <i>chromosome</i> change."}
		],
		"types": {"resourceTypeGeneral": "Dataset"},
		"created": "2011-02-01T17:32:15Z",
		"updated": "2023-11-10T08:15:00.000Z",
		"publisher": {"name": "Dryad"},
		"creators": [
			{
				"nameType": "Personal",
				"name": "Doe, John",
				"givenName": "John",
				"familyName": "Doe",
				"nameIdentifiers": [
					{"nameIdentifier": "https://orcid.org/0000-0002-1825-0097", "nameIdentifierScheme": "ORCID"}
				],
				"affiliation": [
					{
						"name": "Example University",
						"affiliationIdentifier": "https://ror.org/02mhbdp94",
						"affiliationIdentifierScheme": "ROR"
					}
				]
			},
			{"nameType": "Organizational", "name": "Example Consortium"},
			{"name": "Prince"}
		],
		"fundingReferences": [
			{
				"funderName": "National Science Foundation",
				"funderIdentifier": "https://doi.org/10.13039/100000001",
				"funderIdentifierType": "Crossref Funder ID",
				"awardNumber": "DEB-1011954, DEB-1011962",
				"awardTitle": "Systematics"
			},
			{
				"funderName": "National Science Foundation",
				"funderIdentifier": "https://doi.org/10.13039/100000001",
				"funderIdentifierType": "Crossref Funder ID"
			}
		],
		"relatedIdentifiers": [
			{
				"relationType": "IsSupplementTo",
				"relatedIdentifier": "https://doi.org/10.1111/EVO.12013",
				"relatedIdentifierType": "DOI"
			},
			{
				"relationType": "References",
				"relatedIdentifier": "https://example.org/dataset/42",
				"relatedIdentifierType": "URL"
			}
		]
	}
}`

func TestTransform_FullRecord(t *testing.T) {
	tr := New(defaultNulls)

	work, err := tr.Transform([]byte(fullRecord))
	require.NoError(t, err)
	require.NotNil(t, work)

	assert.Equal(t, "10.5061/dryad.q447c", work.DOI)
	assert.Equal(t, domain.SourceDataCite, work.Source)
	assert.Equal(t, "Data from: Chromosome evolution", work.Title)
	assert.Equal(t, "We studied chromosome change.", work.Abstract)
	assert.Equal(t, "Dataset", work.WorkType)
	assert.Equal(t, "Dryad", work.PublicationVenue)
	assert.Equal(t, domain.WorkIDs{DOI: "10.5061/dryad.q447c"}, work.IDs)

	require.NotNil(t, work.PublicationDate)
	assert.Equal(t, time.Date(2011, 2, 1, 0, 0, 0, 0, time.UTC), *work.PublicationDate)
	require.NotNil(t, work.UpdatedDate)
	assert.Equal(t, time.Date(2023, 11, 10, 8, 15, 0, 0, time.UTC), *work.UpdatedDate)

	// The organizational creator is dropped; the missing nameType counts as
	// personal.
	assert.Equal(t, []domain.Author{
		{
			ORCID:        "0000-0002-1825-0097",
			FirstInitial: "J",
			GivenName:    "John",
			Surname:      "Doe",
			Full:         "John Doe",
		},
		{Full: "Prince"},
	}, work.Authors)
	assert.Equal(t, []domain.Institution{
		{Name: "Example University", ROR: "02mhbdp94"},
	}, work.Institutions)

	// The repeated funding reference collapses to one funder.
	assert.Equal(t, []domain.Funder{
		{ID: "10.13039/100000001", DisplayName: "National Science Foundation"},
	}, work.Funders)
	assert.Equal(t, []domain.Award{
		{
			DisplayName:       "Systematics",
			FunderAwardID:     "DEB-1011954",
			FunderID:          "10.13039/100000001",
			FunderDisplayName: "National Science Foundation",
		},
		{
			DisplayName:       "Systematics",
			FunderAwardID:     "DEB-1011962",
			FunderID:          "10.13039/100000001",
			FunderDisplayName: "National Science Foundation",
		},
	}, work.Awards)

	assert.Equal(t, []domain.Relation{
		{Type: "IsSupplementTo", RelatedID: "10.1111/evo.12013", RelatedType: "DOI"},
		{Type: "References", RelatedID: "dataset/42", RelatedType: "URL"},
	}, work.Relations)
}

func TestTransform_Skips(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "missing id", line: `{"attributes": {"titles": [{"title": "No DOI"}]}}`},
		{name: "id without doi", line: `{"id": "not-a-doi", "attributes": {}}`},
	}

	tr := New(defaultNulls)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			work, err := tr.Transform([]byte(tc.line))
			require.NoError(t, err)
			assert.Nil(t, work)
		})
	}
}

func TestTransform_MalformedLine(t *testing.T) {
	tr := New(defaultNulls)

	work, err := tr.Transform([]byte(`{"id": "10.1/2", "attributes": {`))
	require.Error(t, err)
	assert.Nil(t, work)
}

func TestTransform_SingleObjectQuirks(t *testing.T) {
	// nameIdentifiers and affiliation may arrive as single objects instead
	// of arrays.
	line := `{
		"id": "https://doi.org/10.1234/quirk",
		"attributes": {
			"creators": [
				{
					"givenName": "Ada",
					"familyName": "Lovelace",
					"nameIdentifiers": {"nameIdentifier": "0000-0001-5000-0007"},
					"affiliation": {"name": "Analytical Engines"}
				}
			]
		}
	}`

	tr := New(defaultNulls)
	work, err := tr.Transform([]byte(line))
	require.NoError(t, err)
	require.NotNil(t, work)

	assert.Equal(t, []domain.Author{
		{
			ORCID:        "0000-0001-5000-0007",
			FirstInitial: "A",
			GivenName:    "Ada",
			Surname:      "Lovelace",
			Full:         "Ada Lovelace",
		},
	}, work.Authors)
	assert.Equal(t, []domain.Institution{{Name: "Analytical Engines"}}, work.Institutions)
}

func TestTransform_LegacyStringPublisher(t *testing.T) {
	tr := New(defaultNulls)

	work, err := tr.Transform([]byte(`{"id": "10.1/2", "attributes": {"publisher": "Zenodo"}}`))
	require.NoError(t, err)
	require.NotNil(t, work)
	assert.Equal(t, "Zenodo", work.PublicationVenue)
}

func TestTransform_CoverTitlePlaceholder(t *testing.T) {
	tr := New(defaultNulls)

	line := `{"id": "10.1/2", "attributes": {"descriptions": [{"description": "Cover title."}]}}`
	work, err := tr.Transform([]byte(line))
	require.NoError(t, err)
	require.NotNil(t, work)
	assert.Empty(t, work.Abstract)
}

func TestSource(t *testing.T) {
	assert.Equal(t, domain.SourceDataCite, New(nil).Source())
}
