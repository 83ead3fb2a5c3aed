package sticker

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/photo"
	"github.com/rs/zerolog"
)

const (
	containerFormat  = "moodiary.stickers"
	containerVersion = 1
)

// container is the stored sticker selection. Each sticker carries its own
// encoding so the image representation can change without breaking old rows.
type container struct {
	Format   string `json:"format"`
	Version  int    `json:"version"`
	Stickers []item `json:"stickers"`
}

type item struct {
	MIME   string `json:"mime"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"data"`
}

// Sticker is one decoded sticker from a stored selection.
type Sticker struct {
	Image image.Image
	MIME  string
	Data  []byte
}

// Encode serializes up to entry.MaxStickers images as PNGs. An empty
// selection encodes to nil so the column stays NULL.
func Encode(images []image.Image) ([]byte, error) {
	images, _ = entry.CapStickers(images)
	if len(images) == 0 {
		return nil, nil
	}
	c := container{Format: containerFormat, Version: containerVersion}
	for i, img := range images {
		data, err := photo.EncodePNG(img)
		if err != nil {
			return nil, fmt.Errorf("encoding sticker %d: %w", i+1, err)
		}
		b := img.Bounds()
		c.Stickers = append(c.Stickers, item{MIME: "image/png", Width: b.Dx(), Height: b.Dy(), Data: data})
	}
	return json.Marshal(c)
}

// Decode reads a stored selection. It never fails: a missing, corrupt, or
// unknown-version blob yields no stickers, and stickers whose bytes do not
// decode are dropped.
func Decode(blob []byte, log zerolog.Logger) []Sticker {
	if len(blob) == 0 {
		return nil
	}
	var c container
	if err := json.Unmarshal(blob, &c); err != nil {
		log.Warn().Err(err).Int("bytes", len(blob)).Msg("unreadable sticker blob, treating as empty")
		return nil
	}
	if c.Format != containerFormat || c.Version != containerVersion {
		log.Warn().Str("format", c.Format).Int("version", c.Version).Msg("unsupported sticker blob, treating as empty")
		return nil
	}

	stickers := make([]Sticker, 0, len(c.Stickers))
	for i, it := range c.Stickers {
		if len(stickers) == entry.MaxStickers {
			break
		}
		p, err := photo.Decode(it.Data)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("skipping undecodable sticker")
			continue
		}
		stickers = append(stickers, Sticker{Image: p.Image, MIME: it.MIME, Data: it.Data})
	}
	return stickers
}

// Images returns the decoded images of stickers.
func Images(stickers []Sticker) []image.Image {
	out := make([]image.Image, len(stickers))
	for i, s := range stickers {
		out[i] = s.Image
	}
	return out
}
