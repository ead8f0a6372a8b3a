package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillon-labs/worknorm/internal/normalise/invidx"
)

var abstractCmd = &cobra.Command{
	Use:   "abstract <file|->",
	Short: "Rebuild an abstract from an inverted index",
	Long: `Reads a JSON inverted index ({"word": [positions, ...]}) from a file,
or from stdin when the argument is "-", and prints the reconstructed
text. A null, empty or malformed index prints nothing and exits zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runAbstract,
}

func init() {
	rootCmd.AddCommand(abstractCmd)
}

func runAbstract(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read inverted index: %w", err)
	}

	if text := invidx.Revert(data); text != "" {
		cmd.Println(text)
	}
	return nil
}
