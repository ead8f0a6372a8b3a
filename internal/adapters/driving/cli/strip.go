package cli

import (
	"github.com/spf13/cobra"

	"github.com/quillon-labs/worknorm/internal/normalise/markup"
)

var stripNulls []string

var stripCmd = &cobra.Command{
	Use:   "strip <text>",
	Short: "Strip HTML markup from text",
	Long: `Removes HTML and JATS tags and trims surrounding whitespace. Text that
equals a --null sentinel after stripping prints nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runStrip,
}

func init() {
	stripCmd.Flags().StringArrayVar(&stripNulls, "null", nil, "sentinel value to null out (repeatable)")
	rootCmd.AddCommand(stripCmd)
}

func runStrip(cmd *cobra.Command, args []string) error {
	if text := markup.Strip(args[0], stripNulls...); text != "" {
		cmd.Println(text)
	}
	return nil
}
