package main

import (
	"fmt"

	"github.com/claude/liftlog/internal/importer"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import Alpha Progression exports",
	Long: `Import Alpha Progression CSV exports into the local database.

Each path may be a .csv or .csv.gz file or a directory that is searched
recursively. Importing the same export twice replaces the earlier sessions
instead of duplicating them.

EXAMPLES:

  liftctl import export.csv
  liftctl import ~/Exports --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := alpha.NewProvider(store, cat, log)
		imp := importer.New(provider, log, importDryRun)

		var total importer.Stats
		for _, path := range args {
			stats, err := imp.Import(cmd.Context(), path, userID)
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
			total = *stats
		}

		w := cmd.OutOrStdout()
		green := color.New(color.FgGreen).SprintFunc()
		if importDryRun {
			fmt.Fprintf(w, "Parsed %s sessions from %d files (dry run)\n", green(total.SessionsParsed), total.FilesProcessed)
		} else {
			fmt.Fprintf(w, "Imported %s sessions (%d sets, %d warm-ups skipped) from %d files\n",
				green(total.SessionsStored), total.SetsReceived, total.WarmupsSkipped, total.FilesProcessed)
		}
		if total.FilesErrored > 0 {
			fmt.Fprintln(w, color.RedString("%d files failed", total.FilesErrored))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse exports without storing them")
	rootCmd.AddCommand(importCmd)
}
