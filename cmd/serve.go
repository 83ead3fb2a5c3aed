package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris-regnier/moodiary/internal/logger"
	"github.com/chris-regnier/moodiary/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the JSON API used by the web front end. Sticker sheets are
kept in memory per browser session and expire after stickers.cache_ttl.`,
	Example: `  moodiary serve
  moodiary serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = appConfig.ListenAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serveRun(ctx, addr)
	},
}

func serveRun(ctx context.Context, addr string) error {
	srvLog := logger.New("moodiary-server", appConfig.Log.Level, appConfig.Log.Format)
	sheets, cache := newSheets()
	if !sheets.Enabled() {
		srvLog.Warn().Msg("stickers.api_key is not set, sticker generation is disabled")
	}

	go cache.Run(ctx, time.Minute)
	return server.New(svc, sheets, srvLog).Run(ctx, addr)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from listen_addr)")
	rootCmd.AddCommand(serveCmd)
}
