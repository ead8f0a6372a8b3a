package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/core/ports/driving"
	"github.com/quillon-labs/worknorm/internal/logger"
)

// Ensure Runner implements the interface.
var _ driving.Transformer = (*Runner)(nil)

// TransformerFactory resolves the record transformer for a source. The
// transforms registry satisfies this signature.
type TransformerFactory func(source domain.Source, nullIfEquals []string) (driven.RecordTransformer, error)

// SinkFactory builds the sink a run writes to. The run id is the uuid that
// identifies the run in summaries and, for database sinks, the runs table.
type SinkFactory func(opts driving.TransformOptions, runID string) (driven.WorkSink, error)

// Runner implements the driving Transformer port. It owns run identity and
// sink lifecycle; the engine in Run does the streaming work.
type Runner struct {
	newTransformer TransformerFactory
	newSink        SinkFactory
}

// NewRunner creates a Runner from the given factories.
func NewRunner(newTransformer TransformerFactory, newSink SinkFactory) *Runner {
	return &Runner{
		newTransformer: newTransformer,
		newSink:        newSink,
	}
}

// Run resolves the transformer and sink for opts, executes the engine and
// finalises the sink. The sink is closed even when the run fails so partial
// shards and run rows are flushed.
func (r *Runner) Run(ctx context.Context, opts driving.TransformOptions) (*domain.TransformSummary, error) {
	transformer, err := r.newTransformer(opts.Source, opts.NullIfEquals)
	if err != nil {
		return nil, fmt.Errorf("resolve transformer: %w", err)
	}

	runID := uuid.New().String()
	sink, err := r.newSink(opts, runID)
	if err != nil {
		return nil, fmt.Errorf("create sink: %w", err)
	}

	summary, runErr := Run(ctx, Options{
		Transformer: transformer,
		Sink:        sink,
		InputDir:    opts.InputDir,
		Workers:     opts.Workers,
		FlushSize:   opts.FlushSize,
		Progress:    opts.Progress,
	})

	if closeErr := sink.Close(); closeErr != nil {
		if runErr == nil {
			runErr = fmt.Errorf("close sink: %w", closeErr)
		} else {
			logger.Warn("close sink: %v", closeErr)
		}
	}

	if summary != nil {
		summary.RunID = runID
	}
	return summary, runErr
}
