package pipeline

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/logger"
)

// defaultShardSize is used when NewJSONLSink gets a non-positive shard size.
const defaultShardSize = 100000

// Ensure JSONLSink implements the port.
var _ driven.WorkSink = (*JSONLSink)(nil)

// JSONLSink writes works as gzip-compressed JSONL shards named
// <prefix>_part_00000.jsonl.gz under a directory, rotating to a new shard
// every shardSize records. Writes from concurrent workers serialise on an
// internal mutex.
type JSONLSink struct {
	mu        sync.Mutex
	dir       string
	prefix    string
	shardSize int

	file    *os.File
	bw      *bufio.Writer
	gz      *gzip.Writer
	inShard int
	shards  int
	records int64
	closed  bool
}

// NewJSONLSink creates the output directory and returns a sink writing
// shards prefixed with prefix. The first shard is created lazily on the
// first Write, so an empty run leaves no files behind.
func NewJSONLSink(dir, prefix string, shardSize int) (*JSONLSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if shardSize < 1 {
		shardSize = defaultShardSize
	}
	return &JSONLSink{
		dir:       dir,
		prefix:    prefix,
		shardSize: shardSize,
	}, nil
}

// Write appends works to the current shard, rotating when full.
func (s *JSONLSink) Write(ctx context.Context, works []domain.Work) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}

	for i := range works {
		if s.file == nil || s.inShard >= s.shardSize {
			if err := s.rotateLocked(); err != nil {
				return err
			}
		}

		data, err := json.Marshal(&works[i])
		if err != nil {
			return fmt.Errorf("encode work %s: %w", works[i].DOI, err)
		}
		data = append(data, '\n')
		if _, err := s.gz.Write(data); err != nil {
			return fmt.Errorf("write shard: %w", err)
		}
		s.inShard++
		s.records++
	}
	return nil
}

// Close flushes and closes the open shard. Closing an already-closed sink
// is a no-op.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.closeShardLocked(); err != nil {
		return err
	}
	logger.Info("Wrote %d works across %d shards to %s", s.records, s.shards, s.dir)
	return nil
}

// Shards returns how many shard files have been created so far.
func (s *JSONLSink) Shards() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shards
}

func (s *JSONLSink) rotateLocked() error {
	if err := s.closeShardLocked(); err != nil {
		return err
	}

	name := fmt.Sprintf("%s_part_%05d.jsonl.gz", s.prefix, s.shards)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create shard: %w", err)
	}
	s.file = f
	s.bw = bufio.NewWriter(f)
	s.gz = gzip.NewWriter(s.bw)
	s.inShard = 0
	s.shards++
	logger.Debug("opened shard %s", name)
	return nil
}

func (s *JSONLSink) closeShardLocked() error {
	if s.file == nil {
		return nil
	}
	if err := s.gz.Close(); err != nil {
		return fmt.Errorf("close shard: %w", err)
	}
	if err := s.bw.Flush(); err != nil {
		return fmt.Errorf("flush shard: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close shard file: %w", err)
	}
	s.file, s.bw, s.gz = nil, nil, nil
	return nil
}
