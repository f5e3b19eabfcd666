// Package cli wires the lttb command surface: one Cobra root with a
// subcommand per stream mode plus compile/trim/describe, grounded on
// ollama-ollama/cmd/cmd.go's NewCLI/rootCmd shape.
package cli

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewCLI builds the root command. Every run is tagged with a fresh
// correlation ID (mirroring ollama's store.ID = uuid.New().String()
// pattern) attached to the default slog logger so multi-step pipelines
// (compile, then trim, then analyse) can be grepped out of shared logs.
func NewCLI() *cobra.Command {
	root := &cobra.Command{
		Use:   "lttb",
		Short: "A finite-state morphological transducer toolkit",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
			runID := uuid.New().String()
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("run_id", runID)
			slog.SetDefault(logger)
		},
	}
	cobra.EnableCommandSorting = false

	root.PersistentFlags().String("profile", "", "YAML options profile to load before applying flags")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newAnalyseCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newPostgenerateCmd())
	root.AddCommand(newIntergenerateCmd())
	root.AddCommand(newTransliterateCmd())
	root.AddCommand(newBilingualCmd())
	root.AddCommand(newTMAnalyseCmd())
	root.AddCommand(newSAOCmd())
	root.AddCommand(newTrimCmd())
	root.AddCommand(newDescribeCmd())

	return root
}
