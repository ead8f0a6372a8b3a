package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/core/ports/driving"
	"github.com/quillon-labs/worknorm/internal/logger"
)

const (
	// defaultFlushSize is used when Options leaves FlushSize unset.
	defaultFlushSize = 500

	// progressInterval bounds how often progress callbacks fire.
	progressInterval = 200 * time.Millisecond
)

// dumpSuffixes are the file endings recognised as JSONL dumps.
var dumpSuffixes = []string{".jsonl", ".jsonl.gz", ".json.gz"}

// Options configures one engine run. Transformer and Sink are required.
type Options struct {
	// Transformer maps raw lines onto works.
	Transformer driven.RecordTransformer

	// Sink receives batches of transformed works. It must be safe for
	// concurrent Write.
	Sink driven.WorkSink

	// InputDir is scanned recursively for dump files.
	InputDir string

	// Workers is the number of concurrent file workers. Values below one
	// mean a single worker.
	Workers int

	// FlushSize is how many works each worker buffers before flushing a
	// batch to the sink.
	FlushSize int

	// Progress, when non-nil, receives throttled counter snapshots. Calls
	// may come from multiple worker goroutines.
	Progress func(driving.TransformProgress)
}

// Run transforms every dump file under opts.InputDir and writes the results
// to opts.Sink. Files are shuffled before being handed to workers so large
// and small files spread evenly. The returned summary is non-nil whenever
// file discovery succeeded, including on error, so callers can report
// partial progress.
func Run(ctx context.Context, opts Options) (*domain.TransformSummary, error) {
	if opts.Transformer == nil || opts.Sink == nil {
		return nil, fmt.Errorf("run pipeline: %w: transformer and sink are required", domain.ErrInvalidInput)
	}

	files, err := discoverFiles(opts.InputDir)
	if err != nil {
		return nil, err
	}

	summary := &domain.TransformSummary{
		Source:     opts.Transformer.Source(),
		FilesTotal: int64(len(files)),
		Started:    time.Now().UTC(),
	}
	if len(files) == 0 {
		logger.Warn("no dump files (%s) found under %s", strings.Join(dumpSuffixes, ", "), opts.InputDir)
		summary.Finished = time.Now().UTC()
		return summary, nil
	}

	rand.Shuffle(len(files), func(i, j int) {
		files[i], files[j] = files[j], files[i]
	})

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	flushSize := opts.FlushSize
	if flushSize < 1 {
		flushSize = defaultFlushSize
	}

	logger.Info("Transforming %d files with %d workers (flush size %d)", len(files), workers, flushSize)

	st := &runState{
		transformer: opts.Transformer,
		sink:        opts.Sink,
		progress:    opts.Progress,
		flushSize:   flushSize,
		filesTotal:  int64(len(files)),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	filesCh := make(chan string)
	errCh := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range filesCh {
				if err := st.processFile(ctx, path); err != nil {
					errCh <- err
					cancel()
					return
				}
			}
		}()
	}

feed:
	for _, path := range files {
		select {
		case filesCh <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(filesCh)
	wg.Wait()
	close(errCh)

	st.publish(true)

	summary.FilesDone = st.filesDone.Load()
	summary.RecordsIn = st.recordsIn.Load()
	summary.RecordsOut = st.recordsOut.Load()
	summary.RecordsSkipped = st.skipped.Load()
	summary.LineErrors = st.lineErrors.Load()
	summary.Finished = time.Now().UTC()

	// First worker error wins; a closed empty channel yields nil.
	if err := <-errCh; err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

// runState holds the counters and plumbing shared by all workers.
type runState struct {
	transformer driven.RecordTransformer
	sink        driven.WorkSink
	progress    func(driving.TransformProgress)
	flushSize   int

	filesTotal int64
	filesDone  atomic.Int64
	recordsIn  atomic.Int64
	recordsOut atomic.Int64
	skipped    atomic.Int64
	lineErrors atomic.Int64

	mu          sync.Mutex
	lastPublish time.Time
}

// processFile transforms one dump file, flushing batches of works to the
// sink as the buffer fills.
func (s *runState) processFile(ctx context.Context, path string) error {
	buf := make([]domain.Work, 0, s.flushSize)

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := s.sink.Write(ctx, buf); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		s.recordsOut.Add(int64(len(buf)))
		buf = buf[:0]
		s.publish(false)
		return nil
	}

	err := ForEachLine(path, func(line []byte, n int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.recordsIn.Add(1)
		work, err := s.transformer.Transform(line)
		if err != nil {
			logger.Warn("%s line %d: %v", filepath.Base(path), n, err)
			s.lineErrors.Add(1)
			return nil
		}
		if work == nil {
			s.skipped.Add(1)
			return nil
		}

		buf = append(buf, *work)
		if len(buf) >= s.flushSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	s.filesDone.Add(1)
	s.publish(false)
	logger.Debug("finished %s", path)
	return nil
}

// publish sends a counter snapshot to the progress callback, rate-limited
// unless forced.
func (s *runState) publish(force bool) {
	if s.progress == nil {
		return
	}
	if !force {
		s.mu.Lock()
		if time.Since(s.lastPublish) < progressInterval {
			s.mu.Unlock()
			return
		}
		s.lastPublish = time.Now()
		s.mu.Unlock()
	}

	s.progress(driving.TransformProgress{
		FilesTotal:     s.filesTotal,
		FilesDone:      s.filesDone.Load(),
		RecordsIn:      s.recordsIn.Load(),
		RecordsOut:     s.recordsOut.Load(),
		RecordsSkipped: s.skipped.Load(),
		LineErrors:     s.lineErrors.Load(),
	})
}

// discoverFiles walks dir collecting recognised dump files.
func discoverFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isDumpFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return files, nil
}

func isDumpFile(name string) bool {
	for _, suffix := range dumpSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
