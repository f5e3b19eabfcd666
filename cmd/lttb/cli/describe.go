package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// newDescribeCmd is purely additive diagnostic tooling (no spec semantics
// depend on it): print a compiled dictionary's alphabet/section stats
// without running it through a mode, grounded on
// ollama-ollama/cmd/list.go's tablewriter setup.
func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <dictionary.bin>",
		Short: "Print alphabet and section statistics for a compiled dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := loadDictionary(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "symbols: %d   alphabetic chars: %d   weights: %v\n",
				dict.Alphabet.NumSymbols(), len(dict.Alphabetic), dict.HasWeights)

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"SECTION", "STATES", "FINALS"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")
			for _, sec := range dict.Sections {
				table.Append([]string{sec.Name, fmt.Sprint(sec.Trie.Size()), fmt.Sprint(len(sec.Trie.Finals))})
			}
			table.Render()
			return nil
		},
	}
	return cmd
}
