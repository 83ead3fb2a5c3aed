// Package server is the HTTP JSON API behind the diary's web front end.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/sticker"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxUploadBytes bounds a multipart entry submission.
const maxUploadBytes = 32 << 20

// Server routes API requests to the diary service.
type Server struct {
	svc    *diary.Service
	sheets *sticker.Sheets
	log    zerolog.Logger
	router *mux.Router
}

// New builds the router with all API routes.
func New(svc *diary.Service, sheets *sticker.Sheets, log zerolog.Logger) *Server {
	s := &Server{
		svc:    svc,
		sheets: sheets,
		log:    log.With().Str("component", "http").Logger(),
		router: mux.NewRouter(),
	}

	// Global middlewares
	s.router.Use(s.recoveryMiddleware, s.loggingMiddleware, s.sessionMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/moods", s.handleMoods).Methods(http.MethodGet)

	api.HandleFunc("/entries", s.handleListEntries).Methods(http.MethodGet)
	api.HandleFunc("/entries", s.handleCreateEntry).Methods(http.MethodPost)
	api.HandleFunc("/entries/{date:[0-9]{4}-[0-9]{2}-[0-9]{2}}", s.handleGetEntry).Methods(http.MethodGet)
	api.HandleFunc("/entries/{date:[0-9]{4}-[0-9]{2}-[0-9]{2}}/export", s.handleExportEntry).Methods(http.MethodGet)
	api.HandleFunc("/entries/{id:[0-9]+}", s.handleUpdateEntry).Methods(http.MethodPut)
	api.HandleFunc("/entries/{id:[0-9]+}", s.handleDeleteEntry).Methods(http.MethodDelete)

	api.HandleFunc("/stickers/sheet", s.handleGenerateSheet).Methods(http.MethodPost)
	api.HandleFunc("/stickers/sheet/{date:[0-9]{4}-[0-9]{2}-[0-9]{2}}", s.handleGetSheet).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "no such route")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, r.Method+" is not supported here")
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("server stopped")
	return nil
}
