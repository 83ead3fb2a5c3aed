package export

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
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

func mustMood(t *testing.T, s string) entry.Mood {
	t.Helper()
	m, err := entry.ParseMood(s)
	if err != nil {
		t.Fatalf("ParseMood(%q): %v", s, err)
	}
	return m
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	left, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading temp dir: %v", err)
	}
	if len(left) != 0 {
		names := make([]string, len(left))
		for i, e := range left {
			names[i] = e.Name()
		}
		t.Errorf("temp files left behind: %v", names)
	}
}

func TestRenderTextOnly(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	r := NewRenderer(Options{TempDir: t.TempDir()})

	pdf, err := r.Render(Document{Date: date, Text: "Hello", Mood: mustMood(t, "happy")})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", pdf[:min(len(pdf), 16)])
	}
	for _, want := range []string{"2024-01-01", "Happy", "moodiary"} {
		if !bytes.Contains(pdf, []byte(want)) {
			t.Errorf("pdf does not contain %q", want)
		}
	}
}

func TestRenderNeutralMoodOmitsSubject(t *testing.T) {
	r := NewRenderer(Options{TempDir: t.TempDir()})
	pdf, err := r.Render(Document{Date: time.Now(), Text: "plain"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bytes.Contains(pdf, []byte("/Subject")) {
		t.Error("neutral entry should not carry a mood subject")
	}
}

func TestRenderWithImagesAndStickers(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(Options{TempDir: dir})

	doc := Document{
		Date:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.Local),
		Text:   strings.Repeat("A long day at the beach. ", 40),
		Mood:   mustMood(t, "cool"),
		Images: []image.Image{solid(64, 48, color.RGBA{R: 200, A: 255}), solid(30, 90, color.Gray{Y: 80})},
		Stickers: []image.Image{
			solid(20, 20, color.NRGBA{G: 255, A: 128}),
			solid(20, 20, color.NRGBA{B: 255, A: 255}),
			solid(20, 20, color.NRGBA{R: 255, G: 255, A: 255}),
		},
	}
	pdf, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(pdf, []byte("2024-03-09")) {
		t.Error("pdf does not contain the entry date")
	}
	// Two photos and three stickers; translucent stickers add a soft mask.
	if n := bytes.Count(pdf, []byte("/Subtype /Image")); n < 5 {
		t.Errorf("embedded images = %d, want at least 5", n)
	}
	assertEmptyDir(t, dir)
}

func TestRenderWrapsManyStickers(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(Options{TempDir: dir, StickerWidth: 60})
	stickers := make([]image.Image, entry.MaxStickers)
	for i := range stickers {
		stickers[i] = solid(10, 10, color.Black)
	}
	if _, err := r.Render(Document{Date: time.Now(), Text: "x", Stickers: stickers}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	assertEmptyDir(t, dir)
}

func TestRenderCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(Options{TempDir: dir})

	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	_, err := r.Render(Document{
		Date:     time.Now(),
		Text:     "broken",
		Stickers: []image.Image{solid(8, 8, color.White), empty},
	})
	if err == nil {
		t.Fatal("expected error for a zero-sized sticker")
	}
	if !strings.Contains(err.Error(), "sticker 2") {
		t.Errorf("error should name the failing sticker, got %v", err)
	}
	assertEmptyDir(t, dir)
}

func TestRenderMissingTempDir(t *testing.T) {
	r := NewRenderer(Options{TempDir: "/nonexistent/moodiary-export"})
	_, err := r.Render(Document{Date: time.Now(), Text: "x", Images: []image.Image{solid(4, 4, color.White)}})
	if err == nil {
		t.Fatal("expected error when the temp dir does not exist")
	}
}

func TestNewRendererDefaults(t *testing.T) {
	r := NewRenderer(Options{})
	if r.opts.ImageWidth != DefaultOptions.ImageWidth || r.opts.StickerWidth != DefaultOptions.StickerWidth {
		t.Errorf("defaults not applied: %+v", r.opts)
	}
}

func TestFilenameAndDataLink(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	if got := Filename(date); got != "diary_entry_2024-01-01.pdf" {
		t.Errorf("Filename = %q", got)
	}
	if got := DataLink([]byte("%PDF")); got != "data:application/pdf;base64,JVBERg==" {
		t.Errorf("DataLink = %q", got)
	}
}
