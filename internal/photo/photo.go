// Package photo decodes stored image blobs for display and export.
package photo

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Photo is a decoded image alongside the bytes it came from.
type Photo struct {
	Data   []byte
	Image  image.Image
	Format string
}

// Decode decodes one image blob, applying EXIF orientation for photos
// taken on phones.
func Decode(data []byte) (Photo, error) {
	if len(data) == 0 {
		return Photo{}, fmt.Errorf("empty image")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Photo{}, fmt.Errorf("decoding image header: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Photo{}, fmt.Errorf("decoding %s image: %w", format, err)
	}
	return Photo{Data: data, Image: img, Format: format}, nil
}

// DecodeAll decodes each blob in order. Blobs that fail to decode are
// logged and skipped.
func DecodeAll(blobs [][]byte, log zerolog.Logger) []Photo {
	photos := make([]Photo, 0, len(blobs))
	for i, b := range blobs {
		p, err := Decode(b)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Int("bytes", len(b)).Msg("skipping undecodable image")
			continue
		}
		photos = append(photos, p)
	}
	return photos
}

// Images returns the decoded images of photos.
func Images(photos []Photo) []image.Image {
	out := make([]image.Image, len(photos))
	for i, p := range photos {
		out[i] = p.Image
	}
	return out
}

// MIMEType sniffs the content type of an encoded image.
func (p Photo) MIMEType() string {
	if p.Format != "" {
		return "image/" + p.Format
	}
	return http.DetectContentType(p.Data)
}

// DataURI embeds data as a base64 data URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
