package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lttoolbox-go/lttb/internal/stream"
)

// runWithDriver loads the dictionary at dictPath, builds a Driver, and runs
// fn over stdin/stdout -- the shape every read* subcommand shares.
func runWithDriver(cmd *cobra.Command, dictPath string, fn func(*stream.Driver) error) error {
	opts, err := resolveOptions(cmd, commonModeOverrides(cmd))
	if err != nil {
		return err
	}
	driver, err := buildDriver(dictPath, opts)
	if err != nil {
		return err
	}
	return fn(driver)
}

func newAnalyseCmd() *cobra.Command {
	decompose := false
	maxElements := 0
	cmd := &cobra.Command{
		Use:     "analyse <dictionary.bin>",
		Aliases: []string{"analyze"},
		Short:   "Morphologically analyse stdin, writing ^surface/analysis$ units to stdout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := commonModeOverrides(cmd)
			overrides["decompose"] = decompose
			if maxElements > 0 {
				overrides["max_compound_elements"] = maxElements
			}
			opts, err := resolveOptions(cmd, overrides)
			if err != nil {
				return err
			}
			driver, err := buildDriver(args[0], opts)
			if err != nil {
				return err
			}
			return driver.ReadAnalysis(os.Stdin, os.Stdout)
		},
	}
	addCommonModeFlags(cmd)
	cmd.Flags().BoolVar(&decompose, "decompose", false, "attempt compound analysis on unknown words")
	cmd.Flags().IntVar(&maxElements, "max-compound-elements", 0, "cap compound elements (0 = use profile default)")
	return cmd
}

func parseGenFormat(name string) (stream.GenFormat, error) {
	switch name {
	case "", "clean":
		return stream.GenClean, nil
	case "all":
		return stream.GenAll, nil
	case "unknown":
		return stream.GenUnknown, nil
	case "tagged":
		return stream.GenTagged, nil
	case "tagged-nm":
		return stream.GenTaggedNM, nil
	case "careful-case":
		return stream.GenCarefulCase, nil
	default:
		return 0, fmt.Errorf("lttb: unknown generation format %q", name)
	}
}

func newGenerateCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "generate <dictionary.bin>",
		Short: "Morphologically generate surface forms from ^lexform$ units on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseGenFormat(format)
			if err != nil {
				return err
			}
			return runWithDriver(cmd, args[0], func(d *stream.Driver) error {
				return d.ReadGeneration(os.Stdin, os.Stdout, mode)
			})
		},
	}
	addCommonModeFlags(cmd)
	cmd.Flags().StringVar(&format, "format", "clean", "unmatched-lexform rendering: clean, all, unknown, tagged, tagged-nm, careful-case")
	return cmd
}

func newPostgenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postgenerate <dictionary.bin>",
		Short: "Apply postgeneration rewrites to `~`-triggered segments on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDriver(cmd, args[0], func(d *stream.Driver) error {
				return d.ReadPostgeneration(os.Stdin, os.Stdout)
			})
		},
	}
	addCommonModeFlags(cmd)
	return cmd
}

func newIntergenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intergenerate <dictionary.bin>",
		Short: "Apply intergeneration rewrites to `~`-triggered segments on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDriver(cmd, args[0], func(d *stream.Driver) error {
				return d.ReadIntergeneration(os.Stdin, os.Stdout)
			})
		},
	}
	addCommonModeFlags(cmd)
	return cmd
}

func newTransliterateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transliterate <dictionary.bin>",
		Short: "Transliterate stdin character-by-character with no ^...$ delimiting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDriver(cmd, args[0], func(d *stream.Driver) error {
				return d.ReadTransliteration(os.Stdin, os.Stdout)
			})
		},
	}
	addCommonModeFlags(cmd)
	return cmd
}

func newBilingualCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bilingual <dictionary.bin>",
		Short: "Translate ^analysis$ units on stdin through a loaded bilingual transducer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDriver(cmd, args[0], func(d *stream.Driver) error {
				return d.ReadBilingual(os.Stdin, os.Stdout)
			})
		},
	}
	addCommonModeFlags(cmd)
	return cmd
}

func newTMAnalyseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tm-analyse <dictionary.bin>",
		Short: "Translation-memory analysis: coalesce digit runs into <n> placeholders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDriver(cmd, args[0], func(d *stream.Driver) error {
				return d.ReadTMAnalysis(os.Stdin, os.Stdout)
			})
		},
	}
	addCommonModeFlags(cmd)
	return cmd
}

func newSAOCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sao <dictionary.bin>",
		Short: "Analyse Stand-Alone-Output/XML streams, treating CDATA blocks as blanks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDriver(cmd, args[0], func(d *stream.Driver) error {
				return d.ReadSAO(os.Stdin, os.Stdout)
			})
		},
	}
	addCommonModeFlags(cmd)
	return cmd
}
