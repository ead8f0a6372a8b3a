package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillon-labs/worknorm/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "worknorm",
	Short: "Normalise scholarly work metadata dumps",
	Long: `worknorm turns bulk metadata dumps from OpenAlex, DataCite and Crossref
into one unified works model: parsed author names, reverted abstracts,
stripped markup and normalised identifiers.

Transformed works are written as gzipped JSONL shards or into a SQLite
database. The one-shot commands (name, abstract, strip) expose the
normalisation steps on their own.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.worknorm/config.toml)")
}
