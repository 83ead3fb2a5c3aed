package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/export"
	"github.com/chris-regnier/moodiary/internal/sticker"
	"github.com/gorilla/mux"
)

// handleHealth GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		s.log.Warn().Err(err).Msg("health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "message": err.Error()})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "stickers": s.sheets.Enabled()})
}

// handleMoods GET /api/moods
func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	moods := make([]moodJSON, len(entry.Moods))
	for i, m := range entry.Moods {
		moods[i] = moodJSON{Key: m.Key, Name: m.Name, Glyph: m.Glyph, Label: m.Label()}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"moods": moods})
}

// handleListEntries GET /api/entries
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	out := make([]summaryJSON, len(entries))
	for i, e := range entries {
		out[i] = summaryJSON{ID: e.ID, Date: e.DateKey(), Mood: e.Mood, Preview: e.Preview(80)}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": out, "count": len(out)})
}

// handleCreateEntry POST /api/entries (multipart/form-data)
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteBadRequest(w, "expected a multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	date, err := entry.ParseDate(r.FormValue("date"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	mood, err := parseOptionalMood(r.FormValue("mood"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	images, err := readUploads(r, "images")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	session := SessionID(r.Context())
	var stickers []image.Image
	if raw := strings.TrimSpace(r.FormValue("stickers")); raw != "" {
		idx, err := parseIndexes(raw)
		if err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
		if stickers, err = s.sheets.Select(session, date, idx); err != nil {
			writeServiceError(w, s.log, err)
			return
		}
	}

	res, err := s.svc.Save(r.Context(), diary.Draft{
		Date:     date,
		Text:     r.FormValue("text"),
		Mood:     mood,
		Images:   images,
		Stickers: stickers,
	})
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	s.sheets.Forget(session, date)

	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	WriteJSON(w, http.StatusCreated, createResponse{Entry: toEntryJSON(res.Entry), Warnings: warnings})
}

// handleGetEntry GET /api/entries/{date}
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	date, err := entry.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	b, err := s.svc.Fetch(r.Context(), date)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, toBundleJSON(b))
}

// handleUpdateEntry PUT /api/entries/{id}
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteBadRequest(w, "invalid entry id")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON")
		return
	}
	mood, err := parseOptionalMood(req.Mood)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	// An omitted mood keeps the stored one, matching the CLI.
	var current diary.Bundle
	if strings.TrimSpace(req.Mood) == "" || req.Stickers != nil {
		if current, err = s.svc.Get(r.Context(), id); err != nil {
			writeServiceError(w, s.log, err)
			return
		}
		if strings.TrimSpace(req.Mood) == "" {
			mood = current.Entry.Mood
		}
	}

	ed := diary.Edit{Text: req.Text, Mood: mood}
	switch {
	case req.ClearStickers:
		ed.Stickers = &[]image.Image{}
	case req.Stickers != nil:
		chosen, err := s.sheets.Select(SessionID(r.Context()), current.Entry.Date, *req.Stickers)
		if err != nil {
			writeServiceError(w, s.log, err)
			return
		}
		ed.Stickers = &chosen
	}

	e, err := s.svc.Edit(r.Context(), id, ed)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, toEntryJSON(e))
}

// handleDeleteEntry DELETE /api/entries/{id}
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteBadRequest(w, "invalid entry id")
		return
	}
	if err := s.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportEntry GET /api/entries/{date}/export
func (s *Server) handleExportEntry(w http.ResponseWriter, r *http.Request) {
	date, err := entry.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	exp, err := s.svc.Export(r.Context(), date)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, exportResponse{Filename: exp.Filename, Href: export.DataLink(exp.PDF)})
}

// handleGenerateSheet POST /api/stickers/sheet
//
// Generation failures are reported as a warning with status 200: the
// entry can still be saved without stickers.
func (s *Server) handleGenerateSheet(w http.ResponseWriter, r *http.Request) {
	var req sheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON")
		return
	}
	date, err := entry.ParseDate(req.Date)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	tiles, err := s.sheets.Generate(r.Context(), SessionID(r.Context()), date, req.Ideas)
	switch {
	case errors.Is(err, sticker.ErrEmptyPrompt):
		WriteBadRequest(w, sticker.ErrEmptyPrompt.Error())
		return
	case errors.Is(err, sticker.ErrGeneration):
		WriteJSON(w, http.StatusOK, sheetResponse{
			Date:    entry.FormatDate(date),
			Warning: "Stickers are unavailable right now. You can still save the entry.",
		})
		return
	case err != nil:
		writeServiceError(w, s.log, err)
		return
	}
	s.writeCandidates(w, entry.FormatDate(date), tiles)
}

// handleGetSheet GET /api/stickers/sheet/{date}
func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	date, err := entry.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	tiles, ok := s.sheets.Candidates(SessionID(r.Context()), date)
	if !ok {
		WriteNotFound(w, "no sticker sheet for "+entry.FormatDate(date))
		return
	}
	s.writeCandidates(w, entry.FormatDate(date), tiles)
}

func (s *Server) writeCandidates(w http.ResponseWriter, date string, tiles []image.Image) {
	uris, err := candidateURIs(tiles)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	WriteJSON(w, http.StatusOK, sheetResponse{Date: date, Candidates: uris})
}

func parseOptionalMood(s string) (entry.Mood, error) {
	if strings.TrimSpace(s) == "" {
		return entry.Mood{}, nil
	}
	return entry.ParseMood(s)
}

// parseIndexes reads a comma-separated list of sticker indexes.
func parseIndexes(raw string) ([]int, error) {
	var idx []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid sticker index %q", part)
		}
		idx = append(idx, n)
	}
	return idx, nil
}

func readUploads(r *http.Request, field string) ([][]byte, error) {
	var out [][]byte
	for _, fh := range r.MultipartForm.File[field] {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
		}
		out = append(out, data)
	}
	return out, nil
}
