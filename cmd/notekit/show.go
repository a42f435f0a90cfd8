package main

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekit"
	"github.com/aretw0/notekit/pkg/adapters/stream"
	"github.com/aretw0/notekit/pkg/core"
)

var (
	showState bool
	showSpace int
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a note as JSON",
	Long: `Load a note and print its JSON export to stdout.
With --state, print the note's internal state instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		note, err := notekit.Open(cmd.Context(), args[0],
			notekit.WithRoot(config.Root),
			notekit.WithRequireFrontmatter(config.RequireFrontmatter),
			notekit.WithLogger(slog.Default()),
			notekit.WithSink(stream.NewSink(out)),
		)
		if err != nil {
			return err
		}

		if showState {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(note.State())
		}

		return note.Export(cmd.Context(), "-", core.ExportOptions{
			Space: showSpace,
			Write: core.WriteOptions{stream.OptionNewline: true},
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showState, "state", false, "Print the introspection state")
	showCmd.Flags().IntVar(&showSpace, "space", 2, "JSON indentation width (0-10)")
}
