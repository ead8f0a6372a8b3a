package cli

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/quillon-labs/worknorm/internal/normalise/names"
)

var nameJSON bool

var nameCmd = &cobra.Command{
	Use:   "name <full-name>",
	Short: "Parse a personal name into structured parts",
	Long: `Splits a personal name into given name, initials and surname using the
structured parser, falling back to comma/space splitting for names it
cannot take apart confidently.`,
	Args: cobra.ExactArgs(1),
	RunE: runName,
}

func init() {
	nameCmd.Flags().BoolVar(&nameJSON, "json", false, "print the parsed name as JSON")
	rootCmd.AddCommand(nameCmd)
}

func runName(cmd *cobra.Command, args []string) error {
	parsed := names.NewDefault().Parse(args[0])

	if nameJSON {
		out, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode parsed name: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	if parsed.GivenName != "" {
		cmd.Printf("  Given name:       %s\n", parsed.GivenName)
	}
	if parsed.FirstInitial != "" {
		cmd.Printf("  First initial:    %s\n", parsed.FirstInitial)
	}
	if parsed.MiddleNames != "" {
		cmd.Printf("  Middle names:     %s\n", parsed.MiddleNames)
	}
	if parsed.MiddleInitials != "" {
		cmd.Printf("  Middle initials:  %s\n", parsed.MiddleInitials)
	}
	if parsed.Surname != "" {
		cmd.Printf("  Surname:          %s\n", parsed.Surname)
	}
	if parsed.Full != "" {
		cmd.Printf("  Full:             %s\n", parsed.Full)
	}
	if key := names.SortKey(parsed); key != "" {
		cmd.Printf("  Sort key:         %s\n", key)
	}
	return nil
}
