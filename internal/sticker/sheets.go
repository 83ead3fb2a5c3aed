package sticker

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/rs/zerolog"
)

// Sheets generates candidate sheets and resolves selections against them.
type Sheets struct {
	gen   Generator
	cache *SheetCache
	log   zerolog.Logger
}

// NewSheets wires a generator to a cache. gen may be nil when no image
// API is configured; Generate then always reports ErrGeneration.
func NewSheets(gen Generator, cache *SheetCache, log zerolog.Logger) *Sheets {
	return &Sheets{gen: gen, cache: cache, log: log.With().Str("component", "stickers").Logger()}
}

// Enabled reports whether a generator is configured.
func (s *Sheets) Enabled() bool {
	return s.gen != nil
}

// Generate builds a prompt from ideas, generates a sheet, and caches its
// tiles for (session, date). On any failure the slot is left unset and
// the returned error wraps ErrGeneration.
func (s *Sheets) Generate(ctx context.Context, session string, date time.Time, ideas string) ([]image.Image, error) {
	s.cache.Delete(session, date)

	tiles, err := s.generate(ctx, ideas)
	if err != nil {
		s.log.Warn().Err(err).Str("date", entry.FormatDate(date)).Msg("sticker sheet unavailable")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	s.cache.Put(session, date, tiles)
	return tiles, nil
}

func (s *Sheets) generate(ctx context.Context, ideas string) ([]image.Image, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("no image generator configured")
	}
	prompt, err := BuildPrompt(ideas)
	if err != nil {
		return nil, err
	}
	sheet, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return Partition(sheet)
}

// Candidates returns the cached tiles for (session, date).
func (s *Sheets) Candidates(session string, date time.Time) ([]image.Image, bool) {
	return s.cache.Get(session, date)
}

// Select returns the chosen tiles in the order given. Duplicate indexes are
// ignored and at most entry.MaxStickers tiles are returned.
func (s *Sheets) Select(session string, date time.Time, indexes []int) ([]image.Image, error) {
	if len(indexes) == 0 {
		return nil, nil
	}
	tiles, ok := s.cache.Get(session, date)
	if !ok {
		return nil, ErrNoSheet
	}
	seen := make(map[int]bool, len(indexes))
	var chosen []image.Image
	for _, i := range indexes {
		if i < 0 || i >= len(tiles) {
			return nil, fmt.Errorf("%w: %d not in 0-%d", ErrBadIndex, i, len(tiles)-1)
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		chosen = append(chosen, tiles[i])
	}
	chosen, _ = entry.CapStickers(chosen)
	return chosen, nil
}

// Forget drops the session's sheet for date, e.g. once the entry is saved.
func (s *Sheets) Forget(session string, date time.Time) {
	s.cache.Delete(session, date)
}
