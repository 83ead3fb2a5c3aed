package cmd

import (
	"context"
	"image"
	"io"
	"os"
	"strconv"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/editor"
	"github.com/chris-regnier/moodiary/internal/ui"
	"github.com/spf13/cobra"
)

var (
	updateMood          string
	updateClearStickers bool
)

var updateCmd = &cobra.Command{
	Use:   "update <id> [text...]",
	Short: "Update a diary entry",
	Long: `Replace the text and mood of an entry. Stickers are kept unless
--clear-stickers is given. Without text, the current text opens in your editor.
An omitted --mood keeps the current mood.`,
	Example: `  moodiary update 3 "Rewritten entry" --mood grateful
  moodiary update 3 --clear-stickers
  moodiary update 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		current, err := svc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		text, err := readText(args[1:], os.Stdin, func() (string, bool, error) {
			ed := editor.New(editor.ResolveEditor(appConfig.Editor))
			return ed.Edit(current.Entry.Text)
		})
		if err != nil {
			return err
		}
		return updateRun(cmd.Context(), cmd.OutOrStdout(), id, text, updateMood, updateClearStickers)
	},
}

func updateRun(ctx context.Context, w io.Writer, id int64, text, moodFlag string, clearStickers bool) error {
	current, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}

	ed := diary.Edit{Text: text, Mood: current.Entry.Mood}
	if moodFlag != "" {
		if ed.Mood, err = parseMoodFlag(moodFlag); err != nil {
			return err
		}
	}
	if clearStickers {
		ed.Stickers = &[]image.Image{}
	}

	e, err := svc.Edit(ctx, id, ed)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, e)
	}
	ui.FormatEntryUpdated(w, e)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError("invalid entry id %q", s)
	}
	return id, nil
}

func init() {
	updateCmd.Flags().StringVar(&updateMood, "mood", "", "new mood (default keeps the current one)")
	updateCmd.Flags().BoolVar(&updateClearStickers, "clear-stickers", false, "remove all stickers from the entry")
	rootCmd.AddCommand(updateCmd)
}
