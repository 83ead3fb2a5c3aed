package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/storage"
	"github.com/rs/zerolog"
	_ "github.com/tursodatabase/go-libsql"
)

// DBFile is the database file name inside the data directory.
const DBFile = "moodiary.db"

// Store implements storage.Store using SQLite via Turso/libSQL.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

var _ storage.Store = (*Store)(nil)

// New opens (or creates) the database in dataDir and migrates it.
func New(dataDir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", storage.ErrStorage, err)
	}

	dbPath := filepath.Join(dataDir, DBFile)
	db, err := sql.Open("libsql", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", storage.ErrStorage, err)
	}

	// journal_mode answers with a row, so it has to go through Query.
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode=WAL").Scan(&mode); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling WAL mode: %v", storage.ErrStorage, err)
	}

	s, err := NewWithDB(context.Background(), db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.log.Debug().Str("path", dbPath).Msg("opened sqlite store")
	return s, nil
}

// NewWithDB wires the store to an existing connection pool and migrates it.
func NewWithDB(ctx context.Context, db *sql.DB, log zerolog.Logger) (*Store, error) {
	s := &Store{db: db, log: log.With().Str("component", "sqlite").Logger()}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", storage.ErrStorage, err)
	}
	return nil
}

// CreateEntry persists a new entry together with its images.
func (s *Store) CreateEntry(ctx context.Context, e storage.NewEntry) (int64, error) {
	if err := entry.ValidateText(e.Text); err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO diary_entries (entry_date, entry_text, mood_emoji, stickers, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		entry.FormatDate(e.Date), e.Text, e.Mood.Label(), nullBlob(e.Stickers), now, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting entry: %v", storage.ErrStorage, err)
	}

	for i, img := range e.Images {
		if _, err := insertImage(ctx, tx, id, img); err != nil {
			return 0, fmt.Errorf("%w: inserting image %d: %v", storage.ErrStorage, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return id, nil
}

const entryColumns = "id, entry_date, entry_text, mood_emoji, stickers, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (entry.Entry, error) {
	var (
		e                entry.Entry
		date             any
		text             sql.NullString
		mood             sql.NullString
		created, updated sql.NullString
		stickers         []byte
	)
	if err := row.Scan(&e.ID, &date, &text, &mood, &stickers, &created, &updated); err != nil {
		return entry.Entry{}, err
	}
	d, err := entryDay(date)
	if err != nil {
		return entry.Entry{}, err
	}
	e.Date = d
	e.Text = text.String
	e.Mood = entry.MoodFromLabel(mood.String)
	if len(stickers) > 0 {
		e.Stickers = stickers
	}
	// Rows from before timestamps were tracked leave these zero.
	e.CreatedAt, _ = time.Parse(time.RFC3339, created.String)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated.String)
	return e, nil
}

// entryDay turns a stored entry_date into a local calendar day. The driver
// hands back date-shaped TEXT as a time.Time.
func entryDay(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local), nil
	case string:
		return parseDay(d)
	case []byte:
		return parseDay(string(d))
	default:
		return time.Time{}, fmt.Errorf("unexpected entry_date %T", v)
	}
}

func parseDay(s string) (time.Time, error) {
	if len(s) > len(entry.DateLayout) {
		s = s[:len(entry.DateLayout)]
	}
	d, err := time.ParseInLocation(entry.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing entry_date %q: %v", s, err)
	}
	return d, nil
}

// FindByDate returns the earliest-created entry for the date.
func (s *Store) FindByDate(ctx context.Context, date time.Time) (entry.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM diary_entries WHERE entry_date = ? ORDER BY id ASC LIMIT 1",
		entry.FormatDate(date),
	)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry.Entry{}, storage.ErrNotFound
		}
		return entry.Entry{}, fmt.Errorf("%w: querying entry by date: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// GetEntry retrieves an entry by ID.
func (s *Store) GetEntry(ctx context.Context, id int64) (entry.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM diary_entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry.Entry{}, storage.ErrNotFound
		}
		return entry.Entry{}, fmt.Errorf("%w: querying entry: %v", storage.ErrStorage, err)
	}
	return e, nil
}

// ListEntries returns every entry, newest date first.
func (s *Store) ListEntries(ctx context.Context) ([]entry.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM diary_entries ORDER BY entry_date DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listing entries: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	entries := []entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", storage.ErrStorage, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating entries: %v", storage.ErrStorage, err)
	}
	return entries, nil
}

// UpdateEntry replaces an entry's text, mood, and stickers.
func (s *Store) UpdateEntry(ctx context.Context, id int64, u storage.EntryUpdate) (entry.Entry, error) {
	if err := entry.ValidateText(u.Text); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", storage.ErrValidation, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx,
		"UPDATE diary_entries SET entry_text = ?, mood_emoji = ?, stickers = ?, updated_at = ? WHERE id = ?",
		u.Text, u.Mood.Label(), nullBlob(u.Stickers), now, id,
	)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: updating entry: %v", storage.ErrStorage, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: checking rows affected: %v", storage.ErrStorage, err)
	}
	if n == 0 {
		return entry.Entry{}, storage.ErrNotFound
	}
	return s.GetEntry(ctx, id)
}

// DeleteEntry removes an entry and its images in one transaction.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", storage.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM diary_images WHERE entry_id = ?", id); err != nil {
		return fmt.Errorf("%w: deleting images: %v", storage.ErrStorage, err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM diary_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting entry: %v", storage.ErrStorage, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected: %v", storage.ErrStorage, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", storage.ErrStorage, err)
	}
	return nil
}

// AttachImage appends one image to an entry.
func (s *Store) AttachImage(ctx context.Context, entryID int64, data []byte) (int64, error) {
	id, err := insertImage(ctx, s.db, entryID, data)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting image: %v", storage.ErrStorage, err)
	}
	return id, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertImage(ctx context.Context, q querier, entryID int64, data []byte) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		"INSERT INTO diary_images (entry_id, image) VALUES (?, ?) RETURNING id",
		entryID, data,
	).Scan(&id)
	return id, err
}

// ListImages returns the raw images of an entry in insertion order.
func (s *Store) ListImages(ctx context.Context, entryID int64) ([]storage.Image, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, entry_id, image FROM diary_images WHERE entry_id = ? ORDER BY id ASC", entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listing images: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	images := []storage.Image{}
	for rows.Next() {
		var img storage.Image
		if err := rows.Scan(&img.ID, &img.EntryID, &img.Data); err != nil {
			return nil, fmt.Errorf("%w: scanning image: %v", storage.ErrStorage, err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating images: %v", storage.ErrStorage, err)
	}
	return images, nil
}

// DeleteImages removes every image of an entry.
func (s *Store) DeleteImages(ctx context.Context, entryID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM diary_images WHERE entry_id = ?", entryID); err != nil {
		return fmt.Errorf("%w: deleting images: %v", storage.ErrStorage, err)
	}
	return nil
}

// nullBlob stores empty sticker selections as NULL.
func nullBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
