package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show the diary entry for a date",
	Long:  "Display the entry for a date (YYYY-MM-DD) with its mood, photo and sticker counts.",
	Example: `  moodiary show 2024-01-01
  moodiary show 2024-01-01 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateFlag(args[0])
		if err != nil {
			return err
		}
		styled := term.IsTerminal(int(os.Stdout.Fd()))
		return showRun(cmd.Context(), cmd.OutOrStdout(), date, styled)
	},
}

func showRun(ctx context.Context, w io.Writer, date time.Time, styled bool) error {
	b, err := svc.Fetch(ctx, date)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.ToDetail(bundleView(b)))
	}
	ui.FormatEntryFull(w, bundleView(b), ui.ResolveTheme(appConfig.Theme), styled)
	return nil
}

func bundleView(b diary.Bundle) ui.EntryView {
	return ui.EntryView{Entry: b.Entry, Photos: len(b.Photos), Stickers: len(b.Stickers)}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
