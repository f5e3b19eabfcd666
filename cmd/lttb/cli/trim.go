package cli

import (
	"github.com/spf13/cobra"

	"github.com/lttoolbox-go/lttb/internal/codec"
	"github.com/lttoolbox-go/lttb/internal/trim"
)

func newTrimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trim <monodix.bin> <bidix.bin> <out.bin>",
		Short: "Prune a monolingual analyser to entries with a translation in a bilingual dictionary",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mono, err := loadDictionary(args[0])
			if err != nil {
				return err
			}
			bi, err := loadDictionary(args[1])
			if err != nil {
				return err
			}
			sections, err := trim.Trim(cmd.Context(), mono, bi)
			if err != nil {
				return err
			}
			out := &codec.Dictionary{
				Alphabet:   mono.Alphabet,
				Alphabetic: mono.Alphabetic,
				Sections:   sections,
				HasWeights: mono.HasWeights,
			}
			return writeDictionary(args[2], out)
		},
	}
	return cmd
}
