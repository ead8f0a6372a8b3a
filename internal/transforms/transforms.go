package transforms

import (
	"fmt"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/transforms/crossref"
	"github.com/quillon-labs/worknorm/internal/transforms/datacite"
	"github.com/quillon-labs/worknorm/internal/transforms/openalex"
)

// New returns the record transformer registered for source. nullIfEquals
// lists abstract placeholder values that are nulled after markup stripping
// (e.g. ":unav").
func New(source domain.Source, nullIfEquals []string) (driven.RecordTransformer, error) {
	switch source {
	case domain.SourceOpenAlex:
		return openalex.New(nullIfEquals), nil
	case domain.SourceDataCite:
		return datacite.New(nullIfEquals), nil
	case domain.SourceCrossref:
		return crossref.New(nullIfEquals), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, source)
	}
}

// Sources returns the sources with a registered transformer, in display
// order.
func Sources() []domain.Source {
	return domain.Sources()
}
