package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chris-regnier/moodiary/internal/config"
	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/export"
	"github.com/chris-regnier/moodiary/internal/logger"
	"github.com/chris-regnier/moodiary/internal/sticker"
	"github.com/chris-regnier/moodiary/internal/storage"
	"github.com/chris-regnier/moodiary/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile    string
	jsonOutput bool
	appConfig  *config.Config
	log        zerolog.Logger
	store      *sqlite.Store
	svc        *diary.Service
)

var rootCmd = &cobra.Command{
	Use:   "moodiary",
	Short: "A mood diary with photos and stickers",
	Long: `moodiary keeps one diary entry per day with a mood, up to three photos,
and a handful of stickers cut from a generated sheet. Entries can be
exported to PDF and browsed from the command line or the web front end.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg
		log = logger.New("moodiary", cfg.Log.Level, cfg.Log.Format)

		store, err = sqlite.New(cfg.DataDir, log)
		if err != nil {
			return fmt.Errorf("initializing sqlite storage: %w", err)
		}
		svc = newService(store)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Without a subcommand, show today's entry.
		styled := term.IsTerminal(int(os.Stdout.Fd()))
		err := showRun(cmd.Context(), cmd.OutOrStdout(), time.Now(), styled)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No entry for today yet. Write one with: moodiary create")
			return nil
		}
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// ExitCode maps a command error to the process exit status: 1 for bad
// input or a missing entry, 2 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, storage.ErrValidation),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, sticker.ErrNoSheet),
		errors.Is(err, sticker.ErrEmptyPrompt),
		errors.Is(err, errUsage):
		return 1
	default:
		return 2
	}
}

// errUsage marks malformed arguments.
var errUsage = errors.New("invalid argument")

func usageError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// PrintError writes err the way every command reports failures.
func PrintError(w io.Writer, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(w, "Error: no diary entry found")
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func newService(s storage.Store) *diary.Service {
	renderer := export.NewRenderer(export.Options{
		ImageWidth:   appConfig.Export.ImageWidth,
		StickerWidth: appConfig.Export.StickerWidth,
	})
	return diary.New(s, renderer, log)
}

// newSheets builds the sticker pipeline. Without an API key the sheets
// report every generation as unavailable.
func newSheets() (*sticker.Sheets, *sticker.SheetCache) {
	cache := sticker.NewSheetCache(appConfig.Stickers.CacheTTL)
	var gen sticker.Generator
	if appConfig.Stickers.APIKey != "" {
		gen = sticker.NewOpenAIGenerator(sticker.OpenAIConfig{
			APIKey:     appConfig.Stickers.APIKey,
			BaseURL:    appConfig.Stickers.BaseURL,
			Model:      appConfig.Stickers.Model,
			Timeout:    appConfig.Stickers.Timeout,
			MaxRetries: appConfig.Stickers.MaxRetries,
		})
	}
	return sticker.NewSheets(gen, cache, log), cache
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}
