package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driving"
	"github.com/quillon-labs/worknorm/internal/logger"
	"github.com/quillon-labs/worknorm/internal/pipeline"
)

// stubTransformer implements driving.Transformer and records the options it
// was run with.
type stubTransformer struct {
	opts    driving.TransformOptions
	summary *domain.TransformSummary
	err     error
}

func (s *stubTransformer) Run(_ context.Context, opts driving.TransformOptions) (*domain.TransformSummary, error) {
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func cannedSummary() *domain.TransformSummary {
	started := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	return &domain.TransformSummary{
		RunID:          "8c2f02a1-8a2b-4f5e-9a65-2f9a4cf54dd1",
		Source:         domain.SourceCrossref,
		FilesTotal:     3,
		FilesDone:      3,
		RecordsIn:      100,
		RecordsOut:     90,
		RecordsSkipped: 8,
		LineErrors:     2,
		Started:        started,
		Finished:       started.Add(42 * time.Second),
	}
}

func setupTransformTest(stub *stubTransformer) func() {
	oldService := newTransformService
	newTransformService = func(_ pipeline.SinkFactory) driving.Transformer { return stub }

	oldWorkers, oldFlush, oldShard := transformWorkers, transformFlushSize, transformShardSize
	oldDB, oldNoProgress, oldConfig := transformDBPath, transformNoProgress, configPath

	return func() {
		newTransformService = oldService
		transformWorkers, transformFlushSize, transformShardSize = oldWorkers, oldFlush, oldShard
		transformDBPath, transformNoProgress, configPath = oldDB, oldNoProgress, oldConfig
		rootCmd.SetArgs(nil)
	}
}

func TestTransformCmd_Use(t *testing.T) {
	assert.Equal(t, "transform <source> <input-dir> [output-dir]", transformCmd.Use)
}

func TestTransformCmd_Short(t *testing.T) {
	assert.Equal(t, "Transform a metadata dump into unified works", transformCmd.Short)
}

func TestTransformCmd_Long(t *testing.T) {
	assert.Contains(t, transformCmd.Long, "unified works model")
	assert.Contains(t, transformCmd.Long, "SQLite")
}

func TestTransformCmd_PrintsSummary(t *testing.T) {
	stub := &stubTransformer{summary: cannedSummary()}
	cleanup := setupTransformTest(stub)
	defer cleanup()

	tmp := t.TempDir()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"transform", "crossref-metadata", filepath.Join(tmp, "in"), filepath.Join(tmp, "out"),
		"--config", filepath.Join(tmp, "config.toml"),
	})

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Run 8c2f02a1-8a2b-4f5e-9a65-2f9a4cf54dd1 (crossref-metadata) finished in 42s")
	assert.Contains(t, out, "Files:    3/3")
	assert.Contains(t, out, "Works:    90 written")
	assert.Contains(t, out, "Skipped:  8")
	assert.Contains(t, out, "Errors:   2 malformed lines")
	assert.Contains(t, out, filepath.Join(tmp, "out"))
}

func TestTransformCmd_PassesOptions(t *testing.T) {
	stub := &stubTransformer{summary: cannedSummary()}
	cleanup := setupTransformTest(stub)
	defer cleanup()

	tmp := t.TempDir()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{
		"transform", "openalex-works", filepath.Join(tmp, "in"), filepath.Join(tmp, "out"),
		"--config", filepath.Join(tmp, "config.toml"),
		"--workers", "3", "--flush-size", "7", "--shard-size", "11",
	})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, domain.SourceOpenAlex, stub.opts.Source)
	assert.Equal(t, filepath.Join(tmp, "in"), stub.opts.InputDir)
	assert.Equal(t, filepath.Join(tmp, "out"), stub.opts.OutputDir)
	assert.Equal(t, 3, stub.opts.Workers)
	assert.Equal(t, 7, stub.opts.FlushSize)
	assert.Equal(t, 11, stub.opts.ShardSize)
	assert.NotNil(t, stub.opts.Progress)
}

func TestTransformCmd_DefaultsFromConfig(t *testing.T) {
	stub := &stubTransformer{summary: cannedSummary()}
	cleanup := setupTransformTest(stub)
	defer cleanup()

	tmp := t.TempDir()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{
		"transform", "crossref-metadata", filepath.Join(tmp, "in"), filepath.Join(tmp, "out"),
		"--config", filepath.Join(tmp, "config.toml"),
	})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Greater(t, stub.opts.Workers, 0)
	assert.Equal(t, 500, stub.opts.FlushSize)
	assert.Equal(t, 100000, stub.opts.ShardSize)
}

func TestTransformCmd_RequiresOutputDirOrDB(t *testing.T) {
	stub := &stubTransformer{summary: cannedSummary()}
	cleanup := setupTransformTest(stub)
	defer cleanup()

	tmp := t.TempDir()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"transform", "crossref-metadata", filepath.Join(tmp, "in")})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "--db")
}

func TestTransformCmd_UnknownSource(t *testing.T) {
	stub := &stubTransformer{summary: cannedSummary()}
	cleanup := setupTransformTest(stub)
	defer cleanup()

	tmp := t.TempDir()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"transform", "scopus", filepath.Join(tmp, "in"), filepath.Join(tmp, "out")})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestTransformCmd_RunError(t *testing.T) {
	stub := &stubTransformer{err: errors.New("walk failed")}
	cleanup := setupTransformTest(stub)
	defer cleanup()

	tmp := t.TempDir()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{
		"transform", "crossref-metadata", filepath.Join(tmp, "in"), filepath.Join(tmp, "out"),
		"--config", filepath.Join(tmp, "config.toml"),
	})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "transform failed")
	assert.Contains(t, err.Error(), "walk failed")
}

func TestTransformCmd_DBSink(t *testing.T) {
	stub := &stubTransformer{summary: cannedSummary()}
	cleanup := setupTransformTest(stub)
	defer cleanup()

	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "works.db")
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"transform", "datacite", filepath.Join(tmp, "in"),
		"--config", filepath.Join(tmp, "config.toml"),
		"--db", dbPath,
	})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, dbPath, stub.opts.DBPath)
	assert.Contains(t, buf.String(), dbPath)
	assert.FileExists(t, dbPath)
}

func TestLogProgress_Throttles(t *testing.T) {
	buf := new(bytes.Buffer)
	logger.SetOutput(buf)
	logger.SetVerbose(true)
	defer func() {
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	}()

	report := logProgress(0)
	report(driving.TransformProgress{FilesDone: 1, FilesTotal: 4, RecordsOut: 10})
	assert.Contains(t, buf.String(), "progress: 1/4 files, 10 works written")

	// An interval that never elapses drops every snapshot.
	buf.Reset()
	report = logProgress(time.Hour)
	report(driving.TransformProgress{FilesDone: 2})
	report(driving.TransformProgress{FilesDone: 3})
	assert.Empty(t, buf.String())
}
