// Package crossref transforms Crossref metadata dump records into unified
// works. Crossref wraps most scalar fields in arrays and encodes dates as
// nested date-parts; both are unwrapped here.
package crossref

import (
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/normalise/markup"
	"github.com/quillon-labs/worknorm/internal/normalise/names"
	"github.com/quillon-labs/worknorm/internal/normalise/textutil"
)

// Ensure Transformer implements the port.
var _ driven.RecordTransformer = (*Transformer)(nil)

// Transformer maps one Crossref metadata line onto a domain.Work.
type Transformer struct {
	names        *names.Parser
	nullIfEquals []string
}

// New creates a Crossref transformer. nullIfEquals lists abstract
// placeholder values that are nulled after markup stripping.
func New(nullIfEquals []string) *Transformer {
	return &Transformer{
		names:        names.NewDefault(),
		nullIfEquals: nullIfEquals,
	}
}

// Source returns the source this transformer handles.
func (t *Transformer) Source() domain.Source {
	return domain.SourceCrossref
}

type record struct {
	DOI            textutil.JSONString        `json:"DOI"`
	Title          []textutil.JSONString      `json:"title"`
	ContainerTitle []textutil.JSONString      `json:"container-title"`
	Abstract       textutil.JSONString        `json:"abstract"`
	Type           textutil.JSONString        `json:"type"`
	Publisher      textutil.JSONString        `json:"publisher"`
	Issued         dateField                  `json:"issued"`
	Published      dateField                  `json:"published"`
	Deposited      dateField                  `json:"deposited"`
	Author         []author                   `json:"author"`
	Funder         []funderRecord             `json:"funder"`
	Relation       map[string][]relationEntry `json:"relation"`
}

// dateField covers Crossref's date encodings: nested integer date-parts plus
// an optional ISO timestamp.
type dateField struct {
	DateTime  textutil.JSONString `json:"date-time"`
	DateParts [][]int             `json:"date-parts"`
}

type author struct {
	Given       textutil.JSONString `json:"given"`
	Family      textutil.JSONString `json:"family"`
	ORCID       textutil.JSONString `json:"ORCID"`
	Affiliation []struct {
		Name textutil.JSONString `json:"name"`
	} `json:"affiliation"`
}

type funderRecord struct {
	DOI   textutil.JSONString   `json:"DOI"`
	Name  textutil.JSONString   `json:"name"`
	Award []textutil.JSONString `json:"award"`
}

type relationEntry struct {
	ID         textutil.JSONString `json:"id"`
	IDType     textutil.JSONString `json:"id-type"`
	AssertedBy textutil.JSONString `json:"asserted-by"`
}

// Transform maps one dump line onto a Work. It returns (nil, nil) when the
// record has no extractable DOI.
func (t *Transformer) Transform(line []byte) (*domain.Work, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("decode crossref record: %w", err)
	}

	doi := textutil.ExtractDOI(rec.DOI.String())
	if doi == "" {
		return nil, nil
	}

	authors, institutions := t.parseAuthors(rec.Author)
	funders, awards := parseFunders(rec.Funder)

	work := &domain.Work{
		DOI:              doi,
		Source:           domain.SourceCrossref,
		Title:            firstStripped(rec.Title),
		Abstract:         markup.Strip(rec.Abstract.String(), t.nullIfEquals...),
		WorkType:         textutil.CleanString(rec.Type.String(), false),
		PublicationDate:  publicationDate(rec),
		UpdatedDate:      textutil.ParseDateTime(rec.Deposited.DateTime.String()),
		PublicationVenue: parseVenue(rec),
		IDs:              domain.WorkIDs{DOI: doi},
		Authors:          authors,
		Institutions:     institutions,
		Funders:          funders,
		Awards:           awards,
		Relations:        parseRelations(rec.Relation),
	}
	return work, nil
}

// firstStripped returns the first array entry that survives markup
// stripping. Crossref wraps titles in arrays that are often empty.
func firstStripped(entries []textutil.JSONString) string {
	for _, entry := range entries {
		if s := markup.Strip(entry.String()); s != "" {
			return s
		}
	}
	return ""
}

// publicationDate prefers the issued date, falling back to published.
// Missing or partial date-parts default to January 1st.
func publicationDate(rec record) *time.Time {
	if d := dateFromParts(rec.Issued.DateParts); d != nil {
		return d
	}
	return dateFromParts(rec.Published.DateParts)
}

func dateFromParts(parts [][]int) *time.Time {
	if len(parts) == 0 || len(parts[0]) == 0 {
		return nil
	}
	p := parts[0]
	if p[0] <= 0 {
		return nil
	}
	month, day := 1, 1
	if len(p) > 1 && p[1] > 0 {
		month = p[1]
	}
	if len(p) > 2 && p[2] > 0 {
		day = p[2]
	}
	d := time.Date(p[0], time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}

// parseVenue prefers the container title (journal or series name) over the
// publisher.
func parseVenue(rec record) string {
	if venue := firstStripped(rec.ContainerTitle); venue != "" {
		return venue
	}
	return textutil.CleanString(rec.Publisher.String(), false)
}

// parseAuthors joins given and family names for parsing and collects
// affiliation names. Contributors without either name part (organisations)
// are kept only when they carry an ORCID.
func (t *Transformer) parseAuthors(records []author) ([]domain.Author, []domain.Institution) {
	var (
		authors          []domain.Author
		authorsSeen      = make(map[domain.Author]struct{})
		institutions     []domain.Institution
		institutionsSeen = make(map[domain.Institution]struct{})
	)

	for _, a := range records {
		var parsed names.ParsedName
		given := textutil.CleanString(a.Given.String(), false)
		family := textutil.CleanString(a.Family.String(), false)
		if given != "" || family != "" {
			parsed = t.names.Parse(strings.TrimSpace(given + " " + family))
		}

		auth := domain.Author{
			ORCID:          textutil.ExtractORCID(a.ORCID.String()),
			FirstInitial:   parsed.FirstInitial,
			GivenName:      parsed.GivenName,
			MiddleInitials: parsed.MiddleInitials,
			MiddleNames:    parsed.MiddleNames,
			Surname:        parsed.Surname,
			Full:           parsed.Full,
		}
		if !auth.IsZero() {
			if _, seen := authorsSeen[auth]; !seen {
				authorsSeen[auth] = struct{}{}
				authors = append(authors, auth)
			}
		}

		for _, aff := range a.Affiliation {
			inst := domain.Institution{
				Name: textutil.CleanString(aff.Name.String(), false),
			}
			if inst.IsZero() {
				continue
			}
			if _, seen := institutionsSeen[inst]; !seen {
				institutionsSeen[inst] = struct{}{}
				institutions = append(institutions, inst)
			}
		}
	}

	return authors, institutions
}

// parseFunders splits each funder into a funder entity and one award per
// comma-separated award entry, dropping exact duplicates.
func parseFunders(records []funderRecord) ([]domain.Funder, []domain.Award) {
	var (
		funders     []domain.Funder
		fundersSeen = make(map[domain.Funder]struct{})
		awards      []domain.Award
		awardsSeen  = make(map[domain.Award]struct{})
	)

	for _, f := range records {
		funder := domain.Funder{
			ID:          textutil.ExtractDOI(f.DOI.String()),
			DisplayName: textutil.CleanString(f.Name.String(), false),
		}
		if !funder.IsZero() {
			if _, seen := fundersSeen[funder]; !seen {
				fundersSeen[funder] = struct{}{}
				funders = append(funders, funder)
			}
		}

		for _, entry := range f.Award {
			raw := entry.String()
			if raw == "" {
				continue
			}
			for _, part := range strings.Split(raw, ",") {
				award := domain.Award{
					FunderAwardID:     textutil.CleanString(part, false),
					FunderID:          funder.ID,
					FunderDisplayName: funder.DisplayName,
				}
				if award.IsZero() {
					continue
				}
				if _, seen := awardsSeen[award]; !seen {
					awardsSeen[award] = struct{}{}
					awards = append(awards, award)
				}
			}
		}
	}

	return funders, awards
}

// parseRelations flattens the relation map. Types iterate in sorted order so
// output is deterministic. A DOI extracted from the id forces the id type to
// "DOI", otherwise the declared id-type is carried through.
func parseRelations(relation map[string][]relationEntry) []domain.Relation {
	if len(relation) == 0 {
		return nil
	}

	types := make([]string, 0, len(relation))
	for relType := range relation {
		types = append(types, relType)
	}
	sort.Strings(types)

	var relations []domain.Relation
	for _, relType := range types {
		for _, entry := range relation[relType] {
			rel := domain.Relation{
				Type:       textutil.CleanString(relType, false),
				AssertedBy: textutil.CleanString(entry.AssertedBy.String(), false),
			}
			id := entry.ID.String()
			if doi := textutil.ExtractDOI(id); doi != "" {
				rel.RelatedID = doi
				rel.RelatedType = "DOI"
			} else {
				rel.RelatedID = textutil.NormaliseIdentifier(id)
				rel.RelatedType = textutil.CleanString(entry.IDType.String(), false)
			}
			if !rel.IsZero() {
				relations = append(relations, rel)
			}
		}
	}
	return relations
}
