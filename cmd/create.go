package cmd

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/editor"
	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/photo"
	"github.com/chris-regnier/moodiary/internal/ui"
	"github.com/spf13/cobra"
)

var (
	createDate     string
	createMood     string
	createImages   []string
	createStickers []string
)

var createCmd = &cobra.Command{
	Use:   "create [text...]",
	Short: "Create a new diary entry",
	Long: `Create a new diary entry.

If text is provided as arguments, it is used directly.
If "-" is provided, text is read from stdin.
If no text is provided, your editor is opened.

Up to three photos and five stickers are kept; extras are dropped with a warning.`,
	Example: `  moodiary create "Had ice cream with friends" --mood happy
  moodiary create --date 2024-01-01 --image beach.jpg --image sunset.png
  echo "piped text" | moodiary create -
  moodiary create`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateFlag(createDate)
		if err != nil {
			return err
		}

		text, err := readText(args, os.Stdin, func() (string, bool, error) {
			ed := editor.New(editor.ResolveEditor(appConfig.Editor))
			return ed.Edit(editor.Template(entry.FormatDate(date), ""))
		})
		if err != nil {
			return err
		}

		return createRun(cmd.Context(), cmd.OutOrStdout(), createOptions{
			Date:     date,
			Text:     text,
			Mood:     createMood,
			Images:   createImages,
			Stickers: createStickers,
		})
	},
}

type createOptions struct {
	Date     time.Time
	Text     string
	Mood     string
	Images   []string
	Stickers []string
}

func createRun(ctx context.Context, w io.Writer, opts createOptions) error {
	mood, err := parseMoodFlag(opts.Mood)
	if err != nil {
		return err
	}

	images := make([][]byte, 0, len(opts.Images))
	for _, path := range opts.Images {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		images = append(images, data)
	}

	stickers := make([]image.Image, 0, len(opts.Stickers))
	for _, path := range opts.Stickers {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading sticker: %w", err)
		}
		p, err := photo.Decode(data)
		if err != nil {
			return usageError("sticker %s: %v", path, err)
		}
		stickers = append(stickers, p.Image)
	}

	res, err := svc.Save(ctx, diary.Draft{
		Date:     opts.Date,
		Text:     opts.Text,
		Mood:     mood,
		Images:   images,
		Stickers: stickers,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		b, err := svc.Get(ctx, res.Entry.ID)
		if err != nil {
			return err
		}
		return ui.FormatJSON(w, struct {
			Entry    ui.EntryDetail `json:"entry"`
			Warnings []string       `json:"warnings"`
		}{ui.ToDetail(bundleView(b)), res.Warnings})
	}
	ui.FormatEntryCreated(w, res.Entry, res.Warnings)
	return nil
}

// readText resolves entry text from arguments, stdin ("-"), or the editor.
func readText(args []string, stdin io.Reader, edit func() (string, bool, error)) (string, error) {
	switch {
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		text, changed, err := edit()
		if err != nil {
			return "", fmt.Errorf("editor: %w", err)
		}
		if !changed {
			return "", usageError("empty text, nothing saved")
		}
		return text, nil
	}
}

// parseDateFlag parses YYYY-MM-DD, defaulting to today.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return entry.Day(time.Now()), nil
	}
	d, err := entry.ParseDate(s)
	if err != nil {
		return time.Time{}, usageError("invalid date format (use YYYY-MM-DD): %s", s)
	}
	return d, nil
}

func parseMoodFlag(s string) (entry.Mood, error) {
	if strings.TrimSpace(s) == "" {
		return entry.Mood{}, nil
	}
	m, err := entry.ParseMood(s)
	if err != nil {
		return entry.Mood{}, usageError("%v", err)
	}
	return m, nil
}

func init() {
	createCmd.Flags().StringVar(&createDate, "date", "", "entry date (YYYY-MM-DD, default today)")
	createCmd.Flags().StringVar(&createMood, "mood", "", "mood: happy, loved, sleepy, excited, sad, cool, grateful")
	createCmd.Flags().StringArrayVar(&createImages, "image", nil, "photo file to attach (repeatable, max 3)")
	createCmd.Flags().StringArrayVar(&createStickers, "sticker", nil, "sticker image file (repeatable, max 5)")
	rootCmd.AddCommand(createCmd)
}
