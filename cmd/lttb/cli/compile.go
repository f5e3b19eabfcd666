package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lttoolbox-go/lttb/internal/attcompiler"
	"github.com/lttoolbox-go/lttb/internal/codec"
	"github.com/lttoolbox-go/lttb/internal/symbol"
)

func newCompileCmd() *cobra.Command {
	var rightToLeft bool
	cmd := &cobra.Command{
		Use:   "compile <att-source> <out.bin>",
		Short: "Compile an AT&T-format transducer source into a binary dictionary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			alph := symbol.New()
			graph, err := attcompiler.Parse(src, alph, rightToLeft)
			if err != nil {
				return err
			}

			word := attcompiler.Extract(graph, attcompiler.KindWord)
			punct := attcompiler.Extract(graph, attcompiler.KindPunct)

			dict := &codec.Dictionary{
				Alphabet:   alph,
				Alphabetic: graph.Letters(),
				Sections: []codec.Section{
					{Name: "main@standard", Trie: word},
					{Name: "final@inconditional", Trie: punct},
				},
				HasWeights: true,
			}
			return writeDictionary(args[1], dict)
		},
	}
	cmd.Flags().BoolVar(&rightToLeft, "right-to-left", false, "swap upper/lower columns (generation-direction compile)")
	return cmd
}
