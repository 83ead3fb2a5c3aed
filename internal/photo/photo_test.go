package photo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodePNGAndJPEG(t *testing.T) {
	pngBytes, err := EncodePNG(solid(8, 4, color.White))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	p, err := Decode(pngBytes)
	if err != nil {
		t.Fatalf("Decode png: %v", err)
	}
	if p.Format != "png" || p.Image.Bounds().Dx() != 8 || p.Image.Bounds().Dy() != 4 {
		t.Errorf("png photo = %s %v", p.Format, p.Image.Bounds())
	}
	if p.MIMEType() != "image/png" {
		t.Errorf("MIMEType = %q", p.MIMEType())
	}

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, solid(6, 6, color.Black), nil); err != nil {
		t.Fatal(err)
	}
	p, err = Decode(jpg.Bytes())
	if err != nil {
		t.Fatalf("Decode jpeg: %v", err)
	}
	if p.Format != "jpeg" {
		t.Errorf("format = %q", p.Format)
	}
}

func TestDecodeAllSkipsGarbage(t *testing.T) {
	good, _ := EncodePNG(solid(2, 2, color.White))
	var logs bytes.Buffer
	photos := DecodeAll([][]byte{[]byte("not an image"), good, nil, good}, zerolog.New(&logs))
	if len(photos) != 2 {
		t.Fatalf("decoded %d photos, want 2", len(photos))
	}
	if !strings.Contains(logs.String(), "skipping undecodable image") {
		t.Errorf("expected a warning to be logged, got %q", logs.String())
	}
}

func TestDataURI(t *testing.T) {
	got := DataURI("image/png", []byte("hi"))
	if got != "data:image/png;base64,aGk=" {
		t.Errorf("DataURI = %q", got)
	}
}
