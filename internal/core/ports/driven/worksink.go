package driven

import (
	"context"

	"github.com/quillon-labs/worknorm/internal/core/domain"
)

// WorkSink receives batches of transformed works.
// Write must be safe for concurrent use: pipeline workers flush their
// buffers to one shared sink. Close flushes anything buffered and releases
// resources; no Write may follow Close.
type WorkSink interface {
	// Write persists a batch of works.
	Write(ctx context.Context, works []domain.Work) error

	// Close flushes and releases the sink.
	Close() error
}
