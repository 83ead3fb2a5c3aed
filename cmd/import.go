package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chris-regnier/moodiary/internal/importer"
	"github.com/chris-regnier/moodiary/internal/ui"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import markdown entries",
	Long: `Import every *.md file under a directory. Each file needs YAML front
matter with a date; mood and images (paths relative to the file) are optional.

  ---
  date: 2024-01-01
  mood: happy
  images: [beach.jpg]
  ---
  Had ice cream with friends.

Files that cannot be parsed or have no text are skipped and listed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importRun(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func importRun(ctx context.Context, w io.Writer, dir string) error {
	report, err := importer.New(svc, log).ImportDir(ctx, dir)
	if jsonOutput {
		if jerr := ui.FormatJSON(w, report); jerr != nil {
			return jerr
		}
		return err
	}

	for _, im := range report.Imported {
		fmt.Fprintf(w, "Imported %s as entry %d (%s)\n", im.Path, im.ID, im.Date)
		for _, warn := range im.Warnings {
			fmt.Fprintf(w, "  Warning: %s\n", warn)
		}
	}
	for _, sk := range report.Skipped {
		fmt.Fprintf(w, "Skipped %s: %s\n", sk.Path, sk.Reason)
	}
	fmt.Fprintf(w, "%d imported, %d skipped\n", len(report.Imported), len(report.Skipped))
	return err
}

func init() {
	rootCmd.AddCommand(importCmd)
}
