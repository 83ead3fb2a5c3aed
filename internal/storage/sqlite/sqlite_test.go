package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/storage"
	"github.com/chris-regnier/moodiary/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("creating sqlite storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func happy(t *testing.T) entry.Mood {
	t.Helper()
	m, err := entry.ParseMood("happy")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCreateAndFindByDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateEntry(ctx, storage.NewEntry{
		Date:   date(2024, 1, 1),
		Text:   "Had ice cream",
		Mood:   happy(t),
		Images: [][]byte{[]byte("one"), []byte("two")},
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	got, err := s.FindByDate(ctx, date(2024, 1, 1))
	if err != nil {
		t.Fatalf("FindByDate: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %d, want %d", got.ID, id)
	}
	if !got.Date.Equal(date(2024, 1, 1)) {
		t.Errorf("date = %v", got.Date)
	}
	if got.Text != "Had ice cream" {
		t.Errorf("text = %q", got.Text)
	}
	if got.Mood.Label() != "😊 Happy" {
		t.Errorf("mood = %q", got.Mood.Label())
	}
	if got.HasStickers() {
		t.Errorf("expected no stickers, got %d bytes", len(got.Stickers))
	}
	if got.CreatedAt.IsZero() || !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	images, err := s.ListImages(ctx, id)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(images) != 2 || string(images[0].Data) != "one" || string(images[1].Data) != "two" {
		t.Errorf("images = %+v", images)
	}
}

func TestCreateEmptyTextRejected(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateEntry(context.Background(), storage.NewEntry{Date: date(2024, 1, 1), Text: "   "})
	if !errors.Is(err, storage.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestFindByDateNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.FindByDate(context.Background(), date(2030, 5, 5))
	if err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByDateDuplicatesReturnsEarliest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first, _ := s.CreateEntry(ctx, storage.NewEntry{Date: date(2024, 3, 3), Text: "first"})
	if _, err := s.CreateEntry(ctx, storage.NewEntry{Date: date(2024, 3, 3), Text: "second"}); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	got, err := s.FindByDate(ctx, date(2024, 3, 3))
	if err != nil {
		t.Fatalf("FindByDate: %v", err)
	}
	if got.ID != first || got.Text != "first" {
		t.Errorf("got %d %q, want first entry %d", got.ID, got.Text, first)
	}
}

func TestListEntriesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries, err := s.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty list, got %d", len(entries))
	}

	for _, d := range []time.Time{date(2024, 1, 2), date(2024, 1, 5), date(2023, 12, 31)} {
		if _, err := s.CreateEntry(ctx, storage.NewEntry{Date: d, Text: entry.FormatDate(d)}); err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
	}
	entries, err = s.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	want := []string{"2024-01-05", "2024-01-02", "2023-12-31"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].DateKey() != w {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].DateKey(), w)
		}
	}
}

func TestUpdateEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id, _ := s.CreateEntry(ctx, storage.NewEntry{
		Date:     date(2024, 2, 2),
		Text:     "old",
		Mood:     happy(t),
		Stickers: []byte("sticker-blob"),
	})

	sad, _ := entry.ParseMood("sad")
	updated, err := s.UpdateEntry(ctx, id, storage.EntryUpdate{Text: "new", Mood: sad, Stickers: []byte("sticker-blob")})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if updated.Text != "new" || updated.Mood.Key != "sad" {
		t.Errorf("updated = %+v", updated)
	}
	if string(updated.Stickers) != "sticker-blob" {
		t.Errorf("stickers = %q", updated.Stickers)
	}

	if _, err := s.UpdateEntry(ctx, 9999, storage.EntryUpdate{Text: "x"}); err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateEntry(ctx, id, storage.EntryUpdate{Text: " "}); !errors.Is(err, storage.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestDeleteEntryCascadesImages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id, _ := s.CreateEntry(ctx, storage.NewEntry{
		Date:   date(2024, 4, 4),
		Text:   "delete me",
		Images: [][]byte{[]byte("a"), []byte("b"), []byte("c")},
	})
	other, _ := s.CreateEntry(ctx, storage.NewEntry{
		Date:   date(2024, 4, 5),
		Text:   "keep me",
		Images: [][]byte{[]byte("z")},
	})

	if err := s.DeleteEntry(ctx, id); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := s.FindByDate(ctx, date(2024, 4, 4)); err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	images, err := s.ListImages(ctx, id)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("expected no orphan images, got %d", len(images))
	}
	kept, _ := s.ListImages(ctx, other)
	if len(kept) != 1 {
		t.Errorf("other entry images = %d, want 1", len(kept))
	}

	if err := s.DeleteEntry(ctx, id); err != storage.ErrNotFound {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestAttachAndDeleteImages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id, _ := s.CreateEntry(ctx, storage.NewEntry{Date: date(2024, 6, 1), Text: "photos"})

	// The store itself does not cap images.
	for i := 0; i < 4; i++ {
		if _, err := s.AttachImage(ctx, id, []byte{byte(i)}); err != nil {
			t.Fatalf("AttachImage %d: %v", i, err)
		}
	}
	images, _ := s.ListImages(ctx, id)
	if len(images) != 4 {
		t.Fatalf("images = %d, want 4", len(images))
	}
	for i, img := range images {
		if img.EntryID != id || img.Data[0] != byte(i) {
			t.Errorf("images[%d] = %+v", i, img)
		}
	}

	if err := s.DeleteImages(ctx, id); err != nil {
		t.Fatalf("DeleteImages: %v", err)
	}
	images, _ = s.ListImages(ctx, id)
	if len(images) != 0 {
		t.Errorf("images after DeleteImages = %d", len(images))
	}
}

func TestMigrateLegacyDatabase(t *testing.T) {
	dir := t.TempDir()

	db, err := sql.Open("libsql", "file:"+filepath.Join(dir, sqlite.DBFile))
	if err != nil {
		t.Fatalf("opening legacy db: %v", err)
	}
	for _, q := range []string{
		"CREATE TABLE diary_entries (id INTEGER PRIMARY KEY AUTOINCREMENT, entry_date TEXT, entry_text TEXT)",
		"CREATE TABLE diary_images (id INTEGER PRIMARY KEY AUTOINCREMENT, entry_id INTEGER, image BLOB)",
		"INSERT INTO diary_entries (entry_date, entry_text) VALUES ('2023-07-14', 'before moods')",
	} {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("seeding legacy db: %v", err)
		}
	}
	db.Close()

	for i := 0; i < 2; i++ {
		s, err := sqlite.New(dir, zerolog.Nop())
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		got, err := s.FindByDate(context.Background(), date(2023, 7, 14))
		if err != nil {
			t.Fatalf("FindByDate: %v", err)
		}
		if got.Text != "before moods" {
			t.Errorf("text = %q", got.Text)
		}
		if !got.Mood.IsNeutral() || got.HasStickers() {
			t.Errorf("legacy row should read neutral: %+v", got)
		}
		if !got.CreatedAt.IsZero() {
			t.Errorf("legacy created_at = %v, want zero", got.CreatedAt)
		}
		s.Close()
	}
}

func TestNewCreatesFullSchema(t *testing.T) {
	dir := t.TempDir()
	s, err := sqlite.New(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Close()

	db, err := sql.Open("libsql", "file:"+filepath.Join(dir, sqlite.DBFile))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, name := range []string{
		"diary_entries",
		"diary_images",
		"schema_migrations",
		"idx_diary_entries_date",
		"idx_diary_images_entry",
	} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = ?", name).Scan(&n); err != nil {
			t.Fatalf("querying sqlite_master: %v", err)
		}
		if n != 1 {
			t.Errorf("%s missing after New", name)
		}
	}

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestEntryDateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := sqlite.New(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.CreateEntry(ctx, storage.NewEntry{Date: date(2024, 2, 29), Text: "leap day"})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	s.Close()

	s, err = sqlite.New(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.Date.Format("2006-01-02") != "2024-02-29" {
		t.Errorf("date = %v", got.Date)
	}
	list, err := s.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Errorf("list = %+v", list)
	}
}
