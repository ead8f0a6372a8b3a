package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quillon-labs/worknorm/internal/adapters/driven/config/file"
	"github.com/quillon-labs/worknorm/internal/adapters/driven/storage/sqlite"
	"github.com/quillon-labs/worknorm/internal/adapters/driving/progressui"
	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/core/ports/driving"
	"github.com/quillon-labs/worknorm/internal/logger"
	"github.com/quillon-labs/worknorm/internal/pipeline"
	"github.com/quillon-labs/worknorm/internal/transforms"
)

var (
	transformWorkers    int
	transformFlushSize  int
	transformShardSize  int
	transformDBPath     string
	transformNoProgress bool
)

// newTransformService builds the transformer the command runs. Tests swap
// this for a stub.
var newTransformService = func(newSink pipeline.SinkFactory) driving.Transformer {
	return pipeline.NewRunner(transforms.New, newSink)
}

var transformCmd = &cobra.Command{
	Use:   "transform <source> <input-dir> [output-dir]",
	Short: "Transform a metadata dump into unified works",
	Long: `Reads every dump file (.jsonl, .jsonl.gz, .json.gz) under input-dir,
transforms the records into the unified works model and writes gzipped
JSONL shards to output-dir, or into a SQLite database when --db is set.

Records without a DOI are skipped; malformed lines are counted and logged,
never fatal.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().IntVar(&transformWorkers, "workers", 0, "concurrent file workers (default from config)")
	transformCmd.Flags().IntVar(&transformFlushSize, "flush-size", 0, "works per sink batch (default from config)")
	transformCmd.Flags().IntVar(&transformShardSize, "shard-size", 0, "works per output shard (default from config)")
	transformCmd.Flags().StringVar(&transformDBPath, "db", "", "write works to this SQLite database instead of shards")
	transformCmd.Flags().BoolVar(&transformNoProgress, "no-progress", false, "disable the progress display")
	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	source, err := domain.ParseSource(args[0])
	if err != nil {
		return err
	}

	inputDir := args[1]
	outputDir := ""
	if len(args) == 3 {
		outputDir = args[2]
	}
	if outputDir == "" && transformDBPath == "" {
		return fmt.Errorf("%w: an output directory or --db is required", domain.ErrInvalidInput)
	}

	cfg, err := file.NewConfigStore(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := driving.TransformOptions{
		Source:       source,
		InputDir:     inputDir,
		OutputDir:    outputDir,
		DBPath:       transformDBPath,
		Workers:      transformWorkers,
		FlushSize:    transformFlushSize,
		ShardSize:    transformShardSize,
		NullIfEquals: cfg.NullSentinelsFor(source),
	}
	if opts.Workers == 0 {
		opts.Workers = cfg.WorkersFor(source)
	}
	if opts.FlushSize == 0 {
		opts.FlushSize = cfg.FlushSizeFor(source)
	}
	if opts.ShardSize == 0 {
		opts.ShardSize = cfg.ShardSize()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// With --db the store outlives the sink: the run row is finalised with
	// the pipeline counters after the run returns.
	var store *sqlite.Store
	if transformDBPath != "" {
		store, err = sqlite.NewStore(transformDBPath)
		if err != nil {
			return fmt.Errorf("failed to open works database: %w", err)
		}
		defer store.Close()
	}

	newSink := func(o driving.TransformOptions, runID string) (driven.WorkSink, error) {
		if store != nil {
			return store.NewRunSink(ctx, o.Source, runID)
		}
		return pipeline.NewJSONLSink(o.OutputDir, o.Source.String(), o.ShardSize)
	}
	svc := newTransformService(newSink)

	var (
		updates chan driving.TransformProgress
		uiDone  chan error
	)
	if useProgressUI(cfg) {
		updates = make(chan driving.TransformProgress, 16)
		opts.Progress = func(p driving.TransformProgress) {
			select {
			case updates <- p:
			default: // never block the pipeline on the display
			}
		}
		uiDone = make(chan error, 1)
		go func() {
			uiDone <- progressui.Show(cmd.OutOrStdout(), source.String(), updates, cancel)
		}()
	} else {
		opts.Progress = logProgress(5 * time.Second)
	}

	summary, runErr := svc.Run(ctx, opts)

	if updates != nil {
		close(updates)
		if err := <-uiDone; err != nil {
			logger.Warn("progress display: %v", err)
		}
	}

	if store != nil && summary != nil {
		if err := store.FinishRun(context.Background(), summary); err != nil {
			logger.Warn("record run counters: %v", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("transform failed: %w", runErr)
	}

	dest := outputDir
	if transformDBPath != "" {
		dest = transformDBPath
	}
	printSummary(cmd, summary, dest)
	return nil
}

// useProgressUI reports whether the interactive display should run: stdout
// is a terminal, the flag allows it and the config does not disable it.
func useProgressUI(cfg *file.ConfigStore) bool {
	if transformNoProgress || !cfg.ProgressEnabled() {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// logProgress returns a Progress callback that emits a heartbeat line at
// most once per interval. Visible with --verbose.
func logProgress(interval time.Duration) func(driving.TransformProgress) {
	var mu sync.Mutex
	last := time.Now()

	return func(p driving.TransformProgress) {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(last) < interval {
			return
		}
		last = time.Now()
		logger.Info("progress: %d/%d files, %d works written, %d skipped, %d line errors",
			p.FilesDone, p.FilesTotal, p.RecordsOut, p.RecordsSkipped, p.LineErrors)
	}
}

func printSummary(cmd *cobra.Command, s *domain.TransformSummary, dest string) {
	cmd.Println()
	cmd.Printf("Run %s (%s) finished in %s\n", s.RunID, s.Source, s.Duration().Round(time.Millisecond))
	cmd.Printf("  Files:    %d/%d\n", s.FilesDone, s.FilesTotal)
	cmd.Printf("  Works:    %d written\n", s.RecordsOut)
	cmd.Printf("  Skipped:  %d\n", s.RecordsSkipped)
	cmd.Printf("  Errors:   %d malformed lines\n", s.LineErrors)
	cmd.Printf("  Output:   %s\n", dest)
}
