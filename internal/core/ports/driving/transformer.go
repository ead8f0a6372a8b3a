package driving

import (
	"context"

	"github.com/quillon-labs/worknorm/internal/core/domain"
)

// Transformer runs bulk metadata transforms for external actors.
type Transformer interface {
	// Run transforms every dump file found under the input directory and
	// writes the resulting works to the configured sink. It returns the
	// counters for the whole run.
	Run(ctx context.Context, opts TransformOptions) (*domain.TransformSummary, error)
}

// TransformOptions configures a single transform run.
type TransformOptions struct {
	// Source selects which record transformer handles the dump.
	Source domain.Source

	// InputDir is the directory scanned (recursively) for JSONL dumps.
	InputDir string

	// OutputDir is where gzipped JSONL shards are written. Ignored when
	// DBPath is set.
	OutputDir string

	// DBPath, when non-empty, routes works into the SQLite store at this
	// path instead of JSONL shards.
	DBPath string

	// Workers is the number of concurrent file workers. Zero means the
	// configured default.
	Workers int

	// FlushSize is how many works each worker buffers before flushing a
	// batch to the sink. Zero means the configured default.
	FlushSize int

	// ShardSize is how many works a JSONL shard holds before rotation.
	// Zero means the configured default.
	ShardSize int

	// NullIfEquals lists abstract sentinels that are nulled after markup
	// stripping (e.g. ":unav").
	NullIfEquals []string

	// Progress, when non-nil, receives throttled progress snapshots while
	// the run is in flight. Calls may come from multiple goroutines.
	Progress func(TransformProgress)
}

// TransformProgress is a point-in-time snapshot of a running transform.
type TransformProgress struct {
	// FilesTotal is the number of dump files discovered.
	FilesTotal int64

	// FilesDone is the number of dump files fully processed.
	FilesDone int64

	// RecordsIn counts lines read across all files.
	RecordsIn int64

	// RecordsOut counts works written to the sink.
	RecordsOut int64

	// RecordsSkipped counts records the transformer declined (e.g. no DOI).
	RecordsSkipped int64

	// LineErrors counts malformed lines that were logged and skipped.
	LineErrors int64
}
