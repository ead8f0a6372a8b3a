package domain

import "time"

// TransformSummary describes one completed (or aborted) pipeline run.
type TransformSummary struct {
	// RunID uniquely identifies the run.
	RunID string

	// Source is the metadata source that was transformed.
	Source Source

	// FilesTotal is the number of input files discovered.
	FilesTotal int64

	// FilesDone is the number of input files fully processed.
	FilesDone int64

	// RecordsIn counts the JSON lines read.
	RecordsIn int64

	// RecordsOut counts the works written to the sink.
	RecordsOut int64

	// RecordsSkipped counts records the transform declined (no DOI, wrong
	// record kind). Skips are expected and not errors.
	RecordsSkipped int64

	// LineErrors counts lines that could not be decoded or transformed.
	// These are logged and skipped, never fatal.
	LineErrors int64

	// Started and Finished bound the run in wall-clock time.
	Started  time.Time
	Finished time.Time
}

// Duration returns the wall-clock duration of the run.
func (s *TransformSummary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Run is the persisted record of a transform run. Finished is nil while the
// run is in flight or when it was aborted before the sink closed.
type Run struct {
	ID         string
	Source     Source
	Started    time.Time
	Finished   *time.Time
	Files      int64
	Records    int64
	Skipped    int64
	LineErrors int64
}
