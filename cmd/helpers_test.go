package cmd

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/chris-regnier/moodiary/internal/config"
	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/photo"
	"github.com/chris-regnier/moodiary/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

// setupTestEnv points the command globals at a fresh store.
func setupTestEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	s, err := sqlite.New(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	appConfig = &config.Config{
		DataDir:  dir,
		Stickers: config.StickersConfig{CacheTTL: time.Minute},
		Export:   config.ExportConfig{ImageWidth: 100, StickerWidth: 25},
	}
	log = zerolog.Nop()
	store = s
	svc = newService(s)
	jsonOutput = false
	t.Cleanup(func() { jsonOutput = false })
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := entry.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// writePNG writes a small solid image and returns its path.
func writePNG(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	data, err := photo.EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// stripANSI removes ANSI escape sequences from a string
func stripANSI(s string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(s, "")
}

// writeText writes a file that is not an image.
func writeText(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
