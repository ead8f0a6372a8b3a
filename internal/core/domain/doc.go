// Package domain defines the core business entities for worknorm.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Work: A normalised scholarly work record
//   - Author, Institution, Funder, Award, Relation: Work sub-records
//   - Source: A supported metadata source (OpenAlex, DataCite, Crossref)
//   - TransformSummary: Counters describing one pipeline run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
