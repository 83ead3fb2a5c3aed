package server

import (
	"fmt"
	"image"
	"time"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/photo"
)

type moodJSON struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
	Label string `json:"label"`
}

type entryJSON struct {
	ID          int64      `json:"id"`
	Date        string     `json:"date"`
	Text        string     `json:"text"`
	Mood        entry.Mood `json:"mood"`
	HasStickers bool       `json:"has_stickers"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toEntryJSON(e entry.Entry) entryJSON {
	return entryJSON{
		ID:          e.ID,
		Date:        e.DateKey(),
		Text:        e.Text,
		Mood:        e.Mood,
		HasStickers: e.HasStickers(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type summaryJSON struct {
	ID      int64      `json:"id"`
	Date    string     `json:"date"`
	Mood    entry.Mood `json:"mood"`
	Preview string     `json:"preview"`
}

type bundleJSON struct {
	Entry    entryJSON `json:"entry"`
	Photos   []string  `json:"photos"`
	Stickers []string  `json:"stickers"`
}

func toBundleJSON(b diary.Bundle) bundleJSON {
	out := bundleJSON{
		Entry:    toEntryJSON(b.Entry),
		Photos:   make([]string, 0, len(b.Photos)),
		Stickers: make([]string, 0, len(b.Stickers)),
	}
	for _, p := range b.Photos {
		out.Photos = append(out.Photos, photo.DataURI(p.MIMEType(), p.Data))
	}
	for _, s := range b.Stickers {
		out.Stickers = append(out.Stickers, photo.DataURI(s.MIME, s.Data))
	}
	return out
}

type createResponse struct {
	Entry    entryJSON `json:"entry"`
	Warnings []string  `json:"warnings"`
}

type updateRequest struct {
	Text          string `json:"text"`
	Mood          string `json:"mood"`
	Stickers      *[]int `json:"stickers,omitempty"`
	ClearStickers bool   `json:"clear_stickers,omitempty"`
}

type exportResponse struct {
	Filename string `json:"filename"`
	Href     string `json:"href"`
}

type sheetRequest struct {
	Date  string `json:"date"`
	Ideas string `json:"ideas"`
}

type sheetResponse struct {
	Date       string   `json:"date"`
	Candidates []string `json:"candidates,omitempty"`
	Warning    string   `json:"warning,omitempty"`
}

func candidateURIs(tiles []image.Image) ([]string, error) {
	uris := make([]string, len(tiles))
	for i, t := range tiles {
		data, err := photo.EncodePNG(t)
		if err != nil {
			return nil, fmt.Errorf("encoding candidate %d: %w", i, err)
		}
		uris[i] = photo.DataURI("image/png", data)
	}
	return uris, nil
}
