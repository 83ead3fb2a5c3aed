package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chris-regnier/moodiary/internal/export"
	"github.com/chris-regnier/moodiary/internal/ui"
	"github.com/spf13/cobra"
)

var (
	exportOut  string
	exportLink bool
)

var exportCmd = &cobra.Command{
	Use:   "export <date>",
	Short: "Export a diary entry to PDF",
	Long: `Render the entry for a date as a PDF with its mood, stickers and photos.
The file is written to diary_entry_<date>.pdf in the current directory
unless --out is given. --link prints a base64 data link instead.`,
	Example: `  moodiary export 2024-01-01
  moodiary export 2024-01-01 --out ~/Documents/newyear.pdf
  moodiary export 2024-01-01 --link`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateFlag(args[0])
		if err != nil {
			return err
		}
		return exportRun(cmd.Context(), cmd.OutOrStdout(), date, exportOut, exportLink)
	},
}

type exportResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"`
	Href     string `json:"href,omitempty"`
	Bytes    int    `json:"bytes"`
}

func exportRun(ctx context.Context, w io.Writer, date time.Time, out string, link bool) error {
	exp, err := svc.Export(ctx, date)
	if err != nil {
		return err
	}

	res := exportResult{Filename: exp.Filename, Bytes: len(exp.PDF)}
	if link {
		res.Href = export.DataLink(exp.PDF)
	} else {
		path := out
		if path == "" {
			path = exp.Filename
		}
		if err := os.WriteFile(path, exp.PDF, 0644); err != nil {
			return fmt.Errorf("writing pdf: %w", err)
		}
		if res.Path, err = filepath.Abs(path); err != nil {
			res.Path = path
		}
	}

	switch {
	case jsonOutput:
		return ui.FormatJSON(w, res)
	case link:
		fmt.Fprintln(w, res.Href)
	default:
		fmt.Fprintf(w, "Exported %s (%d bytes)\n", res.Path, res.Bytes)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default diary_entry_<date>.pdf)")
	exportCmd.Flags().BoolVar(&exportLink, "link", false, "print a data:application/pdf link instead of writing a file")
	rootCmd.AddCommand(exportCmd)
}
