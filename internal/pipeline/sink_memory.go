package pipeline

import (
	"context"
	"sync"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
)

// Ensure MemorySink implements the port.
var _ driven.WorkSink = (*MemorySink)(nil)

// MemorySink collects works in memory. Tests use it in place of a real sink.
type MemorySink struct {
	mu     sync.Mutex
	works  []domain.Work
	writes int
	closed bool
}

// NewMemorySink creates an empty collector.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write appends the batch.
func (s *MemorySink) Write(ctx context.Context, works []domain.Work) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	s.works = append(s.works, works...)
	s.writes++
	return nil
}

// Close marks the sink closed; further writes fail.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Works returns a copy of everything written so far.
func (s *MemorySink) Works() []domain.Work {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Work(nil), s.works...)
}

// Writes returns how many batches were flushed.
func (s *MemorySink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Closed reports whether Close has been called.
func (s *MemorySink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
