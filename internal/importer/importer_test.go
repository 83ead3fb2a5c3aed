package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/export"
	"github.com/chris-regnier/moodiary/internal/storage"
	"github.com/chris-regnier/moodiary/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "photo.bin"), "raw-bytes")
	path := filepath.Join(dir, "2024-01-01.md")
	writeFile(t, path, "---\ndate: 2024-01-01\nmood: \"😊 Happy\"\nimages: [photo.bin]\n---\n\nHad ice cream\n")

	d, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if d.Date.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("date = %v", d.Date)
	}
	if d.Text != "Had ice cream" {
		t.Errorf("text = %q", d.Text)
	}
	if d.Mood.Key != "happy" {
		t.Errorf("mood = %+v", d.Mood)
	}
	if len(d.Images) != 1 || string(d.Images[0]) != "raw-bytes" {
		t.Errorf("images = %q", d.Images)
	}
}

func TestParseFileCreatedAtFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abc12345.md")
	writeFile(t, path, "---\nid: abc12345\ncreated_at: 2024-02-03T10:00:00Z\nupdated_at: 2024-02-03T10:00:00Z\n---\n\nFrom the old journal\n")

	d, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if d.Date.IsZero() || d.Text != "From the old journal" || !d.Mood.IsNeutral() {
		t.Errorf("unexpected draft: %+v", d)
	}
}

func TestParseFileErrors(t *testing.T) {
	tests := map[string]string{
		"no date":       "---\nmood: happy\n---\nbody\n",
		"bad date":      "---\ndate: 01/02/2024\n---\nbody\n",
		"empty body":    "---\ndate: 2024-01-01\n---\n   \n",
		"unknown mood":  "---\ndate: 2024-01-01\nmood: grumpy\n---\nbody\n",
		"missing image": "---\ndate: 2024-01-01\nimages: [nope.jpg]\n---\nbody\n",
		"broken yaml":   "---\ndate: [2024\n---\nbody\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "entry.md")
			writeFile(t, path, content)
			if _, err := ParseFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestImportDir(t *testing.T) {
	store, err := sqlite.New(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	svc := diary.New(store, export.NewRenderer(export.Options{}), zerolog.Nop())

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "2024", "01", "a.md"), "---\ndate: 2024-01-01\nmood: happy\n---\nNew year\n")
	writeFile(t, filepath.Join(src, "2024", "02", "b.md"), "---\ndate: 2024-02-14\nmood: loved\n---\nValentine\n")
	writeFile(t, filepath.Join(src, "bad.md"), "no front matter here\n")
	writeFile(t, filepath.Join(src, "notes.txt"), "ignored")

	rep, err := New(svc, zerolog.Nop()).ImportDir(context.Background(), src)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if len(rep.Imported) != 2 {
		t.Fatalf("imported %d files, want 2: %+v", len(rep.Imported), rep)
	}
	if len(rep.Skipped) != 1 || !strings.HasSuffix(rep.Skipped[0].Path, "bad.md") {
		t.Errorf("unexpected skipped: %+v", rep.Skipped)
	}

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Text != "Valentine" {
		t.Errorf("unexpected stored entries: %+v", entries)
	}
}

type failingSaver struct{ calls int }

func (f *failingSaver) Save(context.Context, diary.Draft) (diary.SaveResult, error) {
	f.calls++
	return diary.SaveResult{}, storage.ErrStorage
}

func TestImportDirStopsOnStorageFailure(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.md"), "---\ndate: 2024-01-01\n---\none\n")
	writeFile(t, filepath.Join(src, "b.md"), "---\ndate: 2024-01-02\n---\ntwo\n")

	saver := &failingSaver{}
	_, err := New(saver, zerolog.Nop()).ImportDir(context.Background(), src)
	if !errors.Is(err, storage.ErrStorage) {
		t.Fatalf("got %v, want ErrStorage", err)
	}
	if saver.calls != 1 {
		t.Errorf("saver called %d times, want 1", saver.calls)
	}
}

func TestImportDirMissing(t *testing.T) {
	_, err := New(&failingSaver{}, zerolog.Nop()).ImportDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected error for a missing directory")
	}
}
