package cli

import (
	"github.com/spf13/cobra"

	"github.com/quillon-labs/worknorm/internal/transforms"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List supported metadata sources",
	Run: func(cmd *cobra.Command, args []string) {
		for _, source := range transforms.Sources() {
			cmd.Println(source)
		}
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
