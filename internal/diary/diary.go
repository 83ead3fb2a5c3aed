// Package diary is the application service shared by the CLI, the HTTP
// server, and the MCP tools. It enforces input policy (text required,
// photo and sticker caps), encodes sticker selections, and assembles the
// bundles that are displayed and exported.
package diary

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/export"
	"github.com/chris-regnier/moodiary/internal/photo"
	"github.com/chris-regnier/moodiary/internal/sticker"
	"github.com/chris-regnier/moodiary/internal/storage"
	"github.com/rs/zerolog"
)

// ErrExport is returned when a stored entry cannot be rendered.
var ErrExport = errors.New("export failed")

// Exporter renders an entry document.
type Exporter interface {
	Render(doc export.Document) ([]byte, error)
}

// Draft is a new entry as submitted by a user.
type Draft struct {
	Date     time.Time
	Text     string
	Mood     entry.Mood
	Images   [][]byte
	Stickers []image.Image
}

// SaveResult is the stored entry plus any non-fatal notices, such as
// uploads dropped by the caps.
type SaveResult struct {
	Entry    entry.Entry
	Warnings []string
}

// Edit replaces an entry's text and mood. A nil Stickers keeps the
// current selection; a pointer to an empty slice clears it.
type Edit struct {
	Text     string
	Mood     entry.Mood
	Stickers *[]image.Image
}

// Bundle is an entry with its decoded attachments.
type Bundle struct {
	Entry    entry.Entry
	Photos   []photo.Photo
	Stickers []sticker.Sticker
}

// Export is a rendered entry ready for download.
type Export struct {
	Filename string
	PDF      []byte
}

// Service orchestrates the store and the exporter.
type Service struct {
	store    storage.Store
	exporter Exporter
	log      zerolog.Logger
}

// New creates a Service.
func New(store storage.Store, exporter Exporter, log zerolog.Logger) *Service {
	return &Service{store: store, exporter: exporter, log: log.With().Str("component", "diary").Logger()}
}

// Save validates and persists a draft together with its photos.
func (s *Service) Save(ctx context.Context, d Draft) (SaveResult, error) {
	if err := entry.ValidateText(d.Text); err != nil {
		return SaveResult{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	var res SaveResult
	images, dropped := entry.CapImages(d.Images)
	if dropped {
		res.Warnings = append(res.Warnings, fmt.Sprintf("only the first %d images were kept", entry.MaxImages))
	}
	stickers, dropped := entry.CapStickers(d.Stickers)
	if dropped {
		res.Warnings = append(res.Warnings, fmt.Sprintf("only the first %d stickers were kept", entry.MaxStickers))
	}
	blob, err := sticker.Encode(stickers)
	if err != nil {
		return SaveResult{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	id, err := s.store.CreateEntry(ctx, storage.NewEntry{
		Date:     entry.Day(d.Date),
		Text:     d.Text,
		Mood:     d.Mood,
		Stickers: blob,
		Images:   images,
	})
	if err != nil {
		return SaveResult{}, s.logged(err, "saving entry")
	}
	e, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return SaveResult{}, s.logged(err, "reading saved entry")
	}

	s.log.Info().Int64("id", id).Str("date", e.DateKey()).Int("images", len(images)).Int("stickers", len(stickers)).Msg("entry saved")
	res.Entry = e
	return res, nil
}

// Fetch returns the entry for date with its decodable photos and stickers.
func (s *Service) Fetch(ctx context.Context, date time.Time) (Bundle, error) {
	e, err := s.store.FindByDate(ctx, date)
	if err != nil {
		return Bundle{}, s.logged(err, "finding entry")
	}
	return s.bundle(ctx, e)
}

// Get is Fetch keyed by entry ID.
func (s *Service) Get(ctx context.Context, id int64) (Bundle, error) {
	e, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return Bundle{}, s.logged(err, "getting entry")
	}
	return s.bundle(ctx, e)
}

func (s *Service) bundle(ctx context.Context, e entry.Entry) (Bundle, error) {
	imgs, err := s.store.ListImages(ctx, e.ID)
	if err != nil {
		return Bundle{}, s.logged(err, "listing images")
	}
	blobs := make([][]byte, len(imgs))
	for i, img := range imgs {
		blobs[i] = img.Data
	}
	log := s.log.With().Int64("entry_id", e.ID).Logger()
	return Bundle{
		Entry:    e,
		Photos:   photo.DecodeAll(blobs, log),
		Stickers: sticker.Decode(e.Stickers, log),
	}, nil
}

// List returns every entry, newest date first.
func (s *Service) List(ctx context.Context) ([]entry.Entry, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, s.logged(err, "listing entries")
	}
	return entries, nil
}

// Edit overwrites text and mood, and stickers when given.
func (s *Service) Edit(ctx context.Context, id int64, ed Edit) (entry.Entry, error) {
	if err := entry.ValidateText(ed.Text); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	var blob []byte
	if ed.Stickers == nil {
		current, err := s.store.GetEntry(ctx, id)
		if err != nil {
			return entry.Entry{}, s.logged(err, "getting entry")
		}
		blob = current.Stickers
	} else {
		stickers, _ := entry.CapStickers(*ed.Stickers)
		var err error
		if blob, err = sticker.Encode(stickers); err != nil {
			return entry.Entry{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
		}
	}

	e, err := s.store.UpdateEntry(ctx, id, storage.EntryUpdate{Text: ed.Text, Mood: ed.Mood, Stickers: blob})
	if err != nil {
		return entry.Entry{}, s.logged(err, "updating entry")
	}
	s.log.Info().Int64("id", id).Msg("entry updated")
	return e, nil
}

// Delete removes an entry and its photos.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return s.logged(err, "deleting entry")
	}
	s.log.Info().Int64("id", id).Msg("entry deleted")
	return nil
}

// Export renders the entry for date as a PDF.
func (s *Service) Export(ctx context.Context, date time.Time) (Export, error) {
	b, err := s.Fetch(ctx, date)
	if err != nil {
		return Export{}, err
	}
	pdf, err := s.exporter.Render(export.Document{
		Date:     b.Entry.Date,
		Text:     b.Entry.Text,
		Mood:     b.Entry.Mood,
		Images:   photo.Images(b.Photos),
		Stickers: sticker.Images(b.Stickers),
	})
	if err != nil {
		s.log.Error().Err(err).Str("date", b.Entry.DateKey()).Msg("export failed")
		return Export{}, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return Export{Filename: export.Filename(b.Entry.Date), PDF: pdf}, nil
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// logged records storage failures before handing err back.
func (s *Service) logged(err error, op string) error {
	if errors.Is(err, storage.ErrStorage) {
		s.log.Error().Err(err).Str("op", op).Msg("storage failure")
	}
	return err
}
