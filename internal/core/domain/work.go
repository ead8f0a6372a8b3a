package domain

import "time"

// Work is the unified scholarly work record that every source transform
// produces. Optional string fields use "" for absent and carry omitempty
// tags so sink output stays compact.
type Work struct {
	// DOI is the lowercased Digital Object Identifier. It is the only
	// required field and acts as the record key across sources.
	DOI string `json:"doi"`

	// Source names the metadata source that produced this record.
	Source Source `json:"source"`

	// Title is the markup-stripped work title.
	Title string `json:"title,omitempty"`

	// Abstract is the reconstructed or markup-stripped abstract text.
	Abstract string `json:"abstract,omitempty"`

	// WorkType is the source-reported type (journal-article, dataset, ...).
	WorkType string `json:"work_type,omitempty"`

	// PublicationDate is the date the work was published, midnight UTC.
	PublicationDate *time.Time `json:"publication_date,omitempty"`

	// UpdatedDate is when the source last touched the record, UTC.
	UpdatedDate *time.Time `json:"updated_date,omitempty"`

	// PublicationVenue is the journal, repository or publisher name.
	PublicationVenue string `json:"publication_venue,omitempty"`

	// IDs holds source-native identifiers beyond the DOI.
	IDs WorkIDs `json:"ids"`

	// Authors lists the work's authors with parsed name parts.
	Authors []Author `json:"authors,omitempty"`

	// Institutions lists affiliations collected from the author records.
	Institutions []Institution `json:"institutions,omitempty"`

	// Funders lists funding bodies attached to the work.
	Funders []Funder `json:"funders,omitempty"`

	// Awards lists individual grants or award numbers.
	Awards []Award `json:"awards,omitempty"`

	// Relations lists typed links to other records.
	Relations []Relation `json:"relations,omitempty"`
}

// Validate checks the invariants a Work must satisfy before it reaches a
// sink. Transforms skip records rather than emit invalid ones, so a
// violation here points at a transform bug.
func (w *Work) Validate() error {
	if w.DOI == "" {
		return ErrMissingDOI
	}
	return nil
}

// WorkIDs carries the source-native identifiers of a work.
type WorkIDs struct {
	DOI      string `json:"doi,omitempty"`
	MAG      string `json:"mag,omitempty"`
	OpenAlex string `json:"openalex,omitempty"`
	PMID     string `json:"pmid,omitempty"`
	PMCID    string `json:"pmcid,omitempty"`
}

// IsZero reports whether no identifier is set.
func (ids WorkIDs) IsZero() bool {
	return ids == WorkIDs{}
}

// Author is one author of a work. The name fields mirror the parsed name
// parts produced by the names package; all are optional.
type Author struct {
	ORCID          string `json:"orcid,omitempty"`
	FirstInitial   string `json:"first_initial,omitempty"`
	GivenName      string `json:"given_name,omitempty"`
	MiddleInitials string `json:"middle_initials,omitempty"`
	MiddleNames    string `json:"middle_names,omitempty"`
	Surname        string `json:"surname,omitempty"`
	Full           string `json:"full,omitempty"`
}

// IsZero reports whether the author carries no information at all.
// Transforms drop zero authors instead of emitting empty records.
func (a Author) IsZero() bool {
	return a == Author{}
}

// Institution is an affiliation attached to a work.
type Institution struct {
	Name string `json:"name,omitempty"`
	ROR  string `json:"ror,omitempty"`
}

// IsZero reports whether the institution carries no information.
func (i Institution) IsZero() bool {
	return i == Institution{}
}

// Funder is a funding body attached to a work.
type Funder struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	ROR         string `json:"ror,omitempty"`
}

// IsZero reports whether the funder carries no information.
func (f Funder) IsZero() bool {
	return f == Funder{}
}

// Award is a single grant or award number. Sources pack several award
// numbers into one comma-separated field; transforms split them so each
// Award holds exactly one.
type Award struct {
	ID                string `json:"id,omitempty"`
	DisplayName       string `json:"display_name,omitempty"`
	FunderAwardID     string `json:"funder_award_id,omitempty"`
	FunderID          string `json:"funder_id,omitempty"`
	FunderDisplayName string `json:"funder_display_name,omitempty"`
	DOI               string `json:"doi,omitempty"`
}

// IsZero reports whether the award carries no information.
func (a Award) IsZero() bool {
	return a == Award{}
}

// Relation is a typed link from a work to another record. RelatedID holds
// a bare DOI when one could be extracted, otherwise the normalised
// identifier as given by the source.
type Relation struct {
	Type        string `json:"type,omitempty"`
	RelatedID   string `json:"related_id,omitempty"`
	RelatedType string `json:"related_type,omitempty"`
	AssertedBy  string `json:"asserted_by,omitempty"`
}

// IsZero reports whether the relation carries no information.
func (r Relation) IsZero() bool {
	return r == Relation{}
}
