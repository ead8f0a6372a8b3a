// Package openalex transforms OpenAlex works dump records into unified
// works. Records without an extractable DOI and xPac records are skipped.
package openalex

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/normalise/invidx"
	"github.com/quillon-labs/worknorm/internal/normalise/markup"
	"github.com/quillon-labs/worknorm/internal/normalise/names"
	"github.com/quillon-labs/worknorm/internal/normalise/textutil"
)

// Ensure Transformer implements the port.
var _ driven.RecordTransformer = (*Transformer)(nil)

// Transformer maps one OpenAlex works line onto a domain.Work.
type Transformer struct {
	names        *names.Parser
	nullIfEquals []string
}

// New creates an OpenAlex transformer. nullIfEquals lists abstract
// placeholder values that are nulled after reversion.
func New(nullIfEquals []string) *Transformer {
	return &Transformer{
		names:        names.NewDefault(),
		nullIfEquals: nullIfEquals,
	}
}

// Source returns the source this transformer handles.
func (t *Transformer) Source() domain.Source {
	return domain.SourceOpenAlex
}

// record mirrors the subset of an OpenAlex work we consume. The inverted
// abstract index is kept raw and handed to invidx as-is.
type record struct {
	DOI                   textutil.JSONString `json:"doi"`
	IsXpac                bool                `json:"is_xpac"`
	IDs                   recordIDs           `json:"ids"`
	Title                 textutil.JSONString `json:"title"`
	AbstractInvertedIndex json.RawMessage     `json:"abstract_inverted_index"`
	Type                  textutil.JSONString `json:"type"`
	PublicationDate       textutil.JSONString `json:"publication_date"`
	UpdatedDate           textutil.JSONString `json:"updated_date"`
	PrimaryLocation       *primaryLocation    `json:"primary_location"`
	Authorships           []authorship        `json:"authorships"`
	Funders               []funderRecord      `json:"funders"`
	Awards                []awardRecord       `json:"awards"`
}

type recordIDs struct {
	DOI      textutil.JSONString `json:"doi"`
	MAG      textutil.JSONString `json:"mag"`
	OpenAlex textutil.JSONString `json:"openalex"`
	PMID     textutil.JSONString `json:"pmid"`
	PMCID    textutil.JSONString `json:"pmcid"`
}

type primaryLocation struct {
	Source *struct {
		DisplayName textutil.JSONString `json:"display_name"`
	} `json:"source"`
}

type authorship struct {
	Author struct {
		ORCID       textutil.JSONString `json:"orcid"`
		DisplayName textutil.JSONString `json:"display_name"`
	} `json:"author"`
	Institutions []struct {
		DisplayName textutil.JSONString `json:"display_name"`
		ROR         textutil.JSONString `json:"ror"`
	} `json:"institutions"`
}

type funderRecord struct {
	ID          textutil.JSONString `json:"id"`
	DisplayName textutil.JSONString `json:"display_name"`
	ROR         textutil.JSONString `json:"ror"`
}

type awardRecord struct {
	ID                textutil.JSONString `json:"id"`
	DisplayName       textutil.JSONString `json:"display_name"`
	FunderAwardID     textutil.JSONString `json:"funder_award_id"`
	FunderID          textutil.JSONString `json:"funder_id"`
	FunderDisplayName textutil.JSONString `json:"funder_display_name"`
	DOI               textutil.JSONString `json:"doi"`
}

// Transform maps one dump line onto a Work. It returns (nil, nil) when the
// record has no extractable DOI or is flagged is_xpac.
func (t *Transformer) Transform(line []byte) (*domain.Work, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("decode openalex record: %w", err)
	}

	doi := textutil.ExtractDOI(rec.DOI.String())
	if doi == "" || rec.IsXpac {
		return nil, nil
	}

	authors, institutions := t.parseAuthorships(rec.Authorships)

	work := &domain.Work{
		DOI:              doi,
		Source:           domain.SourceOpenAlex,
		Title:            markup.Strip(rec.Title.String()),
		Abstract:         t.parseAbstract(rec.AbstractInvertedIndex),
		WorkType:         textutil.CleanString(rec.Type.String(), false),
		PublicationDate:  textutil.ParseCalendarDate(rec.PublicationDate.String()),
		UpdatedDate:      textutil.ParseDateTime(rec.UpdatedDate.String()),
		PublicationVenue: parseVenue(rec.PrimaryLocation),
		IDs: domain.WorkIDs{
			DOI:      textutil.ExtractDOI(rec.IDs.DOI.String()),
			MAG:      textutil.NormaliseIdentifier(rec.IDs.MAG.String()),
			OpenAlex: textutil.NormaliseIdentifier(rec.IDs.OpenAlex.String()),
			PMID:     textutil.NormaliseIdentifier(rec.IDs.PMID.String()),
			PMCID:    textutil.NormaliseIdentifier(rec.IDs.PMCID.String()),
		},
		Authors:      authors,
		Institutions: institutions,
		Funders:      parseFunders(rec.Funders),
		Awards:       parseAwards(rec.Awards),
	}
	return work, nil
}

// parseAbstract reverts the raw inverted index and applies the configured
// placeholder values.
func (t *Transformer) parseAbstract(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return textutil.ReplaceWithNull(invidx.Revert(raw), t.nullIfEquals)
}

func parseVenue(loc *primaryLocation) string {
	if loc == nil || loc.Source == nil {
		return ""
	}
	return textutil.CleanString(loc.Source.DisplayName.String(), false)
}

// parseAuthorships collects authors and their institutions, dropping exact
// duplicates while preserving first-seen order.
func (t *Transformer) parseAuthorships(authorships []authorship) ([]domain.Author, []domain.Institution) {
	var (
		authors          []domain.Author
		authorsSeen      = make(map[domain.Author]struct{})
		institutions     []domain.Institution
		institutionsSeen = make(map[domain.Institution]struct{})
	)

	for _, as := range authorships {
		parsed := t.names.Parse(as.Author.DisplayName.String())
		author := domain.Author{
			ORCID:          textutil.ExtractORCID(as.Author.ORCID.String()),
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

		for _, in := range as.Institutions {
			inst := domain.Institution{
				Name: textutil.CleanString(in.DisplayName.String(), false),
				ROR:  textutil.NormaliseIdentifier(in.ROR.String()),
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

func parseFunders(records []funderRecord) []domain.Funder {
	var funders []domain.Funder
	for _, f := range records {
		funder := domain.Funder{
			ID:          textutil.NormaliseIdentifier(f.ID.String()),
			DisplayName: textutil.CleanString(f.DisplayName.String(), false),
			ROR:         textutil.NormaliseIdentifier(f.ROR.String()),
		}
		if !funder.IsZero() {
			funders = append(funders, funder)
		}
	}
	return funders
}

// parseAwards emits one award per comma-separated award number. A record
// without award numbers emits nothing, matching the shape of the dump where
// funder_award_id is the award's defining field.
func parseAwards(records []awardRecord) []domain.Award {
	var awards []domain.Award
	for _, a := range records {
		base := domain.Award{
			ID:                textutil.NormaliseIdentifier(a.ID.String()),
			DisplayName:       textutil.CleanString(a.DisplayName.String(), false),
			FunderID:          textutil.NormaliseIdentifier(a.FunderID.String()),
			FunderDisplayName: textutil.CleanString(a.FunderDisplayName.String(), false),
			DOI:               textutil.ExtractDOI(a.DOI.String()),
		}

		raw := a.FunderAwardID.String()
		if raw == "" {
			continue
		}
		for _, part := range strings.Split(raw, ",") {
			award := base
			award.FunderAwardID = textutil.CleanString(part, false)
			if !award.IsZero() {
				awards = append(awards, award)
			}
		}
	}
	return awards
}
