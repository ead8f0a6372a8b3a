package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillon-labs/worknorm/internal/adapters/driven/storage/sqlite"
	"github.com/quillon-labs/worknorm/internal/core/domain"
)

var (
	worksDBPath      string
	worksCountSource string
	worksRunsLimit   int
)

var worksCmd = &cobra.Command{
	Use:   "works",
	Short: "Inspect a works database",
	Long:  `Query works and runs written by transform --db.`,
}

var worksCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count stored works",
	Args:  cobra.NoArgs,
	RunE:  runWorksCount,
}

var worksGetCmd = &cobra.Command{
	Use:   "get <doi>",
	Short: "Show a stored work",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorksGet,
}

var worksRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List transform runs",
	Args:  cobra.NoArgs,
	RunE:  runWorksRuns,
}

func init() {
	worksCmd.PersistentFlags().StringVar(&worksDBPath, "db", "", "path to the works database (default ~/.worknorm/data/works.db)")
	worksCountCmd.Flags().StringVar(&worksCountSource, "source", "", "count only works from this source")
	worksRunsCmd.Flags().IntVar(&worksRunsLimit, "limit", 10, "maximum number of runs to list")

	worksCmd.AddCommand(worksCountCmd)
	worksCmd.AddCommand(worksGetCmd)
	worksCmd.AddCommand(worksRunsCmd)
	rootCmd.AddCommand(worksCmd)
}

func runWorksCount(cmd *cobra.Command, args []string) error {
	var source domain.Source
	if worksCountSource != "" {
		var err error
		source, err = domain.ParseSource(worksCountSource)
		if err != nil {
			return err
		}
	}

	store, err := sqlite.NewStore(worksDBPath)
	if err != nil {
		return fmt.Errorf("failed to open works database: %w", err)
	}
	defer store.Close()

	count, err := store.CountWorks(context.Background(), source)
	if err != nil {
		return fmt.Errorf("failed to count works: %w", err)
	}

	if source != "" {
		cmd.Printf("%d works from %s\n", count, source)
	} else {
		cmd.Printf("%d works\n", count)
	}
	return nil
}

func runWorksGet(cmd *cobra.Command, args []string) error {
	store, err := sqlite.NewStore(worksDBPath)
	if err != nil {
		return fmt.Errorf("failed to open works database: %w", err)
	}
	defer store.Close()

	doi := strings.ToLower(strings.TrimSpace(args[0]))
	work, err := store.GetWork(context.Background(), doi)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no work with DOI %s", doi)
		}
		return fmt.Errorf("failed to get work: %w", err)
	}

	printWork(cmd, work)
	return nil
}

func runWorksRuns(cmd *cobra.Command, args []string) error {
	store, err := sqlite.NewStore(worksDBPath)
	if err != nil {
		return fmt.Errorf("failed to open works database: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), worksRunsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for _, r := range runs {
		cmd.Printf("  %s\n", r.ID)
		cmd.Printf("    Source:    %s\n", r.Source)
		cmd.Printf("    Started:   %s\n", r.Started.Format("2006-01-02 15:04:05"))
		if r.Finished != nil {
			cmd.Printf("    Finished:  %s\n", r.Finished.Format("2006-01-02 15:04:05"))
		}
		cmd.Printf("    Records:   %d written, %d skipped, %d line errors\n", r.Records, r.Skipped, r.LineErrors)
		cmd.Println()
	}

	cmd.Printf("Total: %d runs\n", len(runs))
	return nil
}

func printWork(cmd *cobra.Command, w *domain.Work) {
	cmd.Printf("Work: %s\n\n", w.DOI)
	cmd.Printf("  Source:     %s\n", w.Source)
	if w.Title != "" {
		cmd.Printf("  Title:      %s\n", w.Title)
	}
	if w.WorkType != "" {
		cmd.Printf("  Type:       %s\n", w.WorkType)
	}
	if w.PublicationDate != nil {
		cmd.Printf("  Published:  %s\n", w.PublicationDate.Format("2006-01-02"))
	}
	if w.PublicationVenue != "" {
		cmd.Printf("  Venue:      %s\n", w.PublicationVenue)
	}
	if w.Abstract != "" {
		cmd.Printf("  Abstract:   %s\n", w.Abstract)
	}

	if len(w.Authors) > 0 {
		cmd.Println("\n  Authors:")
		for _, a := range w.Authors {
			name := a.Full
			if name == "" {
				name = strings.TrimSpace(a.GivenName + " " + a.Surname)
			}
			if a.ORCID != "" {
				cmd.Printf("    %s (%s)\n", name, a.ORCID)
			} else {
				cmd.Printf("    %s\n", name)
			}
		}
	}

	if len(w.Funders) > 0 {
		cmd.Println("\n  Funders:")
		for _, f := range w.Funders {
			cmd.Printf("    %s\n", f.DisplayName)
		}
	}

	if len(w.Relations) > 0 {
		cmd.Println("\n  Relations:")
		for _, r := range w.Relations {
			cmd.Printf("    %s: %s\n", r.Type, r.RelatedID)
		}
	}
}
