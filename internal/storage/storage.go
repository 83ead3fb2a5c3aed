package storage

import (
	"context"
	"errors"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("entry not found")
	ErrStorage    = errors.New("storage error")
	ErrValidation = errors.New("validation error")
)

// NewEntry carries everything persisted when an entry is first saved.
type NewEntry struct {
	Date     time.Time
	Text     string
	Mood     entry.Mood
	Stickers []byte // encoded sticker selection, nil for none
	Images   [][]byte
}

// EntryUpdate is a full replacement of an entry's mutable fields.
type EntryUpdate struct {
	Text     string
	Mood     entry.Mood
	Stickers []byte
}

// Image is one stored photo as raw encoded bytes.
type Image struct {
	ID      int64
	EntryID int64
	Data    []byte
}

// Store defines diary persistence: the entry repository and the image
// store share one database so that cascading deletes are transactional.
type Store interface {
	// CreateEntry inserts the entry and its images atomically and returns the new ID.
	CreateEntry(ctx context.Context, e NewEntry) (int64, error)

	// FindByDate returns the earliest-created entry on the given calendar day.
	// Returns ErrNotFound if no entry exists for the date.
	FindByDate(ctx context.Context, date time.Time) (entry.Entry, error)

	// GetEntry returns an entry by ID.
	GetEntry(ctx context.Context, id int64) (entry.Entry, error)

	// ListEntries returns all entries, newest date first.
	ListEntries(ctx context.Context) ([]entry.Entry, error)

	// UpdateEntry replaces text, mood, and stickers. Last writer wins.
	UpdateEntry(ctx context.Context, id int64, u EntryUpdate) (entry.Entry, error)

	// DeleteEntry removes the entry and all of its images in one transaction.
	DeleteEntry(ctx context.Context, id int64) error

	// AttachImage appends a photo to an entry. The per-entry cap is the caller's concern.
	AttachImage(ctx context.Context, entryID int64, data []byte) (int64, error)

	// ListImages returns an entry's photos in insertion order.
	ListImages(ctx context.Context, entryID int64) ([]Image, error)

	// DeleteImages removes every photo owned by the entry.
	DeleteImages(ctx context.Context, entryID int64) error

	Ping(ctx context.Context) error
	Close() error
}
