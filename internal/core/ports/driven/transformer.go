package driven

import (
	"github.com/quillon-labs/worknorm/internal/core/domain"
)

// RecordTransformer maps one raw line from a source dump onto the unified
// Work model. Implementations are stateless and safe for concurrent use by
// multiple pipeline workers.
type RecordTransformer interface {
	// Source names the metadata source this transformer understands.
	Source() domain.Source

	// Transform decodes a single JSON line and produces a Work.
	// Returning (nil, nil) skips the record: the line was understood but
	// is not wanted (no DOI, wrong record kind). An error marks the line
	// malformed; the pipeline counts it and moves on.
	Transform(line []byte) (*domain.Work, error)
}
