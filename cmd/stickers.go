package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/sticker"
	"github.com/chris-regnier/moodiary/internal/ui"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
)

// cliSession scopes sheets generated from the command line.
const cliSession = "cli"

var (
	stickerIdeas string
	stickerOut   string
)

var stickersCmd = &cobra.Command{
	Use:   "stickers <date>",
	Short: "Generate a sheet of sticker candidates",
	Long: `Ask the configured image API for a sheet of ten stickers drawn from your
ideas, cut it into tiles, and write them as sticker_01.png ... sticker_10.png.
Pick up to five and attach them with: moodiary create --sticker <file>.`,
	Example: `  moodiary stickers 2024-12-24 --ideas "tree, star, bell" --out ./stickers`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateFlag(args[0])
		if err != nil {
			return err
		}
		sheets, _ := newSheets()
		return stickersRun(cmd.Context(), cmd.OutOrStdout(), sheets, date, stickerIdeas, stickerOut)
	},
}

func stickersRun(ctx context.Context, w io.Writer, sheets *sticker.Sheets, date time.Time, ideas, outDir string) error {
	if _, err := sticker.BuildPrompt(ideas); err != nil {
		return err
	}
	tiles, err := sheets.Generate(ctx, cliSession, date, ideas)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	paths := make([]string, len(tiles))
	for i, t := range tiles {
		paths[i] = filepath.Join(outDir, fmt.Sprintf("sticker_%02d.png", i+1))
		if err := imaging.Save(t, paths[i]); err != nil {
			return fmt.Errorf("writing sticker %d: %w", i+1, err)
		}
	}

	if jsonOutput {
		return ui.FormatJSON(w, struct {
			Date  string   `json:"date"`
			Files []string `json:"files"`
		}{entry.FormatDate(date), paths})
	}
	fmt.Fprintf(w, "Wrote %d stickers for %s to %s\n", len(paths), entry.FormatDate(date), outDir)
	return nil
}

func init() {
	stickersCmd.Flags().StringVar(&stickerIdeas, "ideas", "", "comma-separated sticker ideas")
	stickersCmd.Flags().StringVar(&stickerOut, "out", ".", "directory for the sticker files")
	rootCmd.AddCommand(stickersCmd)
}
