// Package datacite transforms DataCite dump records into unified works.
// Records arrive wrapped in an "attributes" envelope; a few fields that the
// schema declares as arrays show up as single objects in older dumps and are
// normalised before parsing.
package datacite

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/normalise/markup"
	"github.com/quillon-labs/worknorm/internal/normalise/names"
	"github.com/quillon-labs/worknorm/internal/normalise/textutil"
)

// Ensure Transformer implements the port.
var _ driven.RecordTransformer = (*Transformer)(nil)

// Transformer maps one DataCite line onto a domain.Work.
type Transformer struct {
	names        *names.Parser
	nullIfEquals []string
}

// New creates a DataCite transformer. nullIfEquals lists abstract
// placeholder values that are nulled after markup stripping.
func New(nullIfEquals []string) *Transformer {
	return &Transformer{
		names:        names.NewDefault(),
		nullIfEquals: nullIfEquals,
	}
}

// Source returns the source this transformer handles.
func (t *Transformer) Source() domain.Source {
	return domain.SourceDataCite
}

type record struct {
	ID         textutil.JSONString `json:"id"`
	Attributes attributes          `json:"attributes"`
}

type attributes struct {
	Titles []struct {
		Title textutil.JSONString `json:"title"`
	} `json:"titles"`
	Descriptions []struct {
		Description textutil.JSONString `json:"description"`
	} `json:"descriptions"`
	Types struct {
		ResourceTypeGeneral textutil.JSONString `json:"resourceTypeGeneral"`
	} `json:"types"`
	Created            textutil.JSONString `json:"created"`
	Updated            textutil.JSONString `json:"updated"`
	Publisher          json.RawMessage     `json:"publisher"`
	Creators           []creator           `json:"creators"`
	FundingReferences  []fundingReference  `json:"fundingReferences"`
	RelatedIdentifiers []relatedIdentifier `json:"relatedIdentifiers"`
}

type creator struct {
	NameType        textutil.JSONString `json:"nameType"`
	Name            textutil.JSONString `json:"name"`
	GivenName       textutil.JSONString `json:"givenName"`
	FamilyName      textutil.JSONString `json:"familyName"`
	NameIdentifiers json.RawMessage     `json:"nameIdentifiers"`
	Affiliation     json.RawMessage     `json:"affiliation"`
}

type nameIdentifier struct {
	NameIdentifier textutil.JSONString `json:"nameIdentifier"`
}

type affiliation struct {
	AffiliationIdentifier       textutil.JSONString `json:"affiliationIdentifier"`
	AffiliationIdentifierScheme textutil.JSONString `json:"affiliationIdentifierScheme"`
	Name                        textutil.JSONString `json:"name"`
}

type fundingReference struct {
	FunderIdentifier     textutil.JSONString `json:"funderIdentifier"`
	FunderIdentifierType textutil.JSONString `json:"funderIdentifierType"`
	FunderName           textutil.JSONString `json:"funderName"`
	AwardNumber          textutil.JSONString `json:"awardNumber"`
	AwardTitle           textutil.JSONString `json:"awardTitle"`
	AwardURI             textutil.JSONString `json:"awardUri"`
}

type relatedIdentifier struct {
	RelationType          textutil.JSONString `json:"relationType"`
	RelatedIdentifier     textutil.JSONString `json:"relatedIdentifier"`
	RelatedIdentifierType textutil.JSONString `json:"relatedIdentifierType"`
}

// Transform maps one dump line onto a Work. It returns (nil, nil) when no
// DOI can be extracted from the record id.
func (t *Transformer) Transform(line []byte) (*domain.Work, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("decode datacite record: %w", err)
	}

	doi := textutil.ExtractDOI(rec.ID.String())
	if doi == "" {
		return nil, nil
	}

	attrs := rec.Attributes
	authors, institutions := t.parseCreators(attrs.Creators)
	funders, awards := parseFundingReferences(attrs.FundingReferences)

	work := &domain.Work{
		DOI:              doi,
		Source:           domain.SourceDataCite,
		Title:            parseTitle(attrs),
		Abstract:         t.parseAbstract(attrs),
		WorkType:         textutil.CleanString(attrs.Types.ResourceTypeGeneral.String(), false),
		PublicationDate:  textutil.ParseCalendarDate(attrs.Created.String()),
		UpdatedDate:      textutil.ParseDateTime(attrs.Updated.String()),
		PublicationVenue: parsePublisher(attrs.Publisher),
		IDs:              domain.WorkIDs{DOI: doi},
		Authors:          authors,
		Institutions:     institutions,
		Funders:          funders,
		Awards:           awards,
		Relations:        parseRelations(attrs.RelatedIdentifiers),
	}
	return work, nil
}

// parseTitle returns the first title that survives markup stripping.
func parseTitle(attrs attributes) string {
	for _, entry := range attrs.Titles {
		if title := markup.Strip(entry.Title.String()); title != "" {
			return title
		}
	}
	return ""
}

// parseAbstract returns the first description that survives markup stripping
// and the configured placeholder values.
func (t *Transformer) parseAbstract(attrs attributes) string {
	for _, entry := range attrs.Descriptions {
		if abstract := markup.Strip(entry.Description.String(), t.nullIfEquals...); abstract != "" {
			return abstract
		}
	}
	return ""
}

// parsePublisher accepts both the current object form {"name": ...} and the
// legacy plain-string form.
func parsePublisher(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '{' {
		var obj struct {
			Name textutil.JSONString `json:"name"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		return textutil.CleanString(obj.Name.String(), false)
	}
	var s textutil.JSONString
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return textutil.CleanString(s.String(), false)
}

// parseCreators collects personal creators and their affiliations. Creators
// with a non-personal nameType (e.g. Organizational) are skipped; a missing
// nameType is treated as personal, which is the DataCite schema default.
func (t *Transformer) parseCreators(creators []creator) ([]domain.Author, []domain.Institution) {
	var (
		authors          []domain.Author
		authorsSeen      = make(map[domain.Author]struct{})
		institutions     []domain.Institution
		institutionsSeen = make(map[domain.Institution]struct{})
	)

	for _, c := range creators {
		nameType := textutil.CleanString(c.NameType.String(), false)
		if nameType != "" && nameType != "Personal" {
			continue
		}

		parsed := t.parseCreatorName(c)
		author := domain.Author{
			ORCID:          parseORCID(c.NameIdentifiers),
			FirstInitial:   parsed.FirstInitial,
			GivenName:      parsed.GivenName,
			MiddleInitials: parsed.MiddleInitials,
			MiddleNames:    parsed.MiddleNames,
			Surname:        parsed.Surname,
			Full:           parsed.Full,
		}
		if !author.IsZero() {
			if _, seen := authorsSeen[author]; !seen {
				authorsSeen[author] = struct{}{}
				authors = append(authors, author)
			}
		}

		for _, raw := range objects(c.Affiliation) {
			var aff affiliation
			if err := json.Unmarshal(raw, &aff); err != nil {
				continue
			}
			inst := domain.Institution{
				Name: textutil.CleanString(aff.Name.String(), false),
			}
			if strings.EqualFold(aff.AffiliationIdentifierScheme.String(), "ROR") {
				inst.ROR = textutil.ExtractROR(aff.AffiliationIdentifier.String())
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

// parseCreatorName prefers the combined name field, falling back to joining
// givenName and familyName.
func (t *Transformer) parseCreatorName(c creator) names.ParsedName {
	if full := textutil.CleanString(c.Name.String(), false); full != "" {
		return t.names.Parse(full)
	}

	given := textutil.CleanString(c.GivenName.String(), false)
	family := textutil.CleanString(c.FamilyName.String(), false)
	if given == "" && family == "" {
		return names.ParsedName{}
	}
	return t.names.Parse(strings.TrimSpace(given + " " + family))
}

// parseORCID returns the first valid ORCID among the name identifiers.
func parseORCID(raw json.RawMessage) string {
	for _, item := range objects(raw) {
		var ni nameIdentifier
		if err := json.Unmarshal(item, &ni); err != nil {
			continue
		}
		if orcid := textutil.ExtractORCID(ni.NameIdentifier.String()); orcid != "" {
			return orcid
		}
	}
	return ""
}

// parseFundingReferences splits each reference into a funder entity and one
// award per comma-separated award number. Both lists drop exact duplicates,
// since DataCite repeats the funder for every award it issued.
func parseFundingReferences(refs []fundingReference) ([]domain.Funder, []domain.Award) {
	var (
		funders     []domain.Funder
		fundersSeen = make(map[domain.Funder]struct{})
		awards      []domain.Award
		awardsSeen  = make(map[domain.Award]struct{})
	)

	for _, fr := range refs {
		funder := domain.Funder{
			ID:          textutil.NormaliseIdentifier(fr.FunderIdentifier.String()),
			DisplayName: textutil.CleanString(fr.FunderName.String(), false),
		}
		if strings.EqualFold(fr.FunderIdentifierType.String(), "ROR") {
			funder.ROR = textutil.ExtractROR(fr.FunderIdentifier.String())
		}
		if !funder.IsZero() {
			if _, seen := fundersSeen[funder]; !seen {
				fundersSeen[funder] = struct{}{}
				funders = append(funders, funder)
			}
		}

		base := domain.Award{
			DisplayName:       textutil.CleanString(fr.AwardTitle.String(), false),
			FunderID:          funder.ID,
			FunderDisplayName: funder.DisplayName,
			DOI:               textutil.ExtractDOI(fr.AwardURI.String()),
		}
		raw := fr.AwardNumber.String()
		if raw == "" {
			continue
		}
		for _, part := range strings.Split(raw, ",") {
			award := base
			award.FunderAwardID = textutil.CleanString(part, false)
			if award.IsZero() {
				continue
			}
			if _, seen := awardsSeen[award]; !seen {
				awardsSeen[award] = struct{}{}
				awards = append(awards, award)
			}
		}
	}

	return funders, awards
}

// parseRelations maps related identifiers to relations. When a DOI can be
// extracted from the identifier the type is forced to "DOI", otherwise the
// identifier is normalised and the declared type carried through.
func parseRelations(refs []relatedIdentifier) []domain.Relation {
	var relations []domain.Relation
	for _, ri := range refs {
		rel := domain.Relation{
			Type: textutil.CleanString(ri.RelationType.String(), false),
		}
		related := ri.RelatedIdentifier.String()
		if doi := textutil.ExtractDOI(related); doi != "" {
			rel.RelatedID = doi
			rel.RelatedType = "DOI"
		} else {
			rel.RelatedID = textutil.NormaliseIdentifier(related)
			rel.RelatedType = textutil.CleanString(ri.RelatedIdentifierType.String(), false)
		}
		if !rel.IsZero() {
			relations = append(relations, rel)
		}
	}
	return relations
}

// objects normalises a field that should be an array of objects but may
// arrive as a single object. Non-object elements are dropped.
func objects(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '{':
		return []json.RawMessage{raw}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		var kept []json.RawMessage
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) > 0 && item[0] == '{' {
				kept = append(kept, item)
			}
		}
		return kept
	default:
		return nil
	}
}
