package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/chris-regnier/moodiary/internal/ui"
	"github.com/spf13/cobra"
)

var listIDOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List diary entries",
	Long:  "List diary entries with mood and preview, newest date first.",
	Example: `  moodiary list
  moodiary list --id-only
  moodiary list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun(cmd.Context(), cmd.OutOrStdout(), listIDOnly)
	},
}

func listRun(ctx context.Context, w io.Writer, idOnly bool) error {
	entries, err := svc.List(ctx)
	if err != nil {
		return err
	}

	switch {
	case idOnly:
		for _, e := range entries {
			fmt.Fprintln(w, e.ID)
		}
	case jsonOutput:
		return ui.FormatJSON(w, ui.ToSummaries(entries))
	default:
		ui.FormatEntryList(w, entries)
	}
	return nil
}

func init() {
	listCmd.Flags().BoolVar(&listIDOnly, "id-only", false, "print only entry IDs, one per line")
	rootCmd.AddCommand(listCmd)
}
