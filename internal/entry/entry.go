package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the external format of an entry's date key.
const DateLayout = "2006-01-02"

const (
	// MaxImages is the number of photos kept per entry.
	MaxImages = 3
	// MaxStickers is the number of stickers kept per entry.
	MaxStickers = 5
)

// ErrEmptyText is returned when entry text is blank after trimming.
var ErrEmptyText = errors.New("entry text must not be empty")

// Entry represents a single diary entry.
type Entry struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Text      string    `json:"text"`
	Mood      Mood      `json:"mood"`
	Stickers  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateKey returns the entry date in DateLayout.
func (e *Entry) DateKey() string {
	return FormatDate(e.Date)
}

// HasStickers reports whether a sticker blob is stored for the entry.
func (e *Entry) HasStickers() bool {
	return len(e.Stickers) > 0
}

// Preview returns a truncated single-line preview of the entry text.
func (e *Entry) Preview(maxLen int) string {
	text := strings.ReplaceAll(e.Text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// ValidateText checks whether text is non-empty.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date into local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// FormatDate formats the calendar day of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to local midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// CapImages keeps at most MaxImages photos. The second result reports
// whether anything was dropped.
func CapImages(images [][]byte) ([][]byte, bool) {
	if len(images) <= MaxImages {
		return images, false
	}
	return images[:MaxImages], true
}

// CapStickers keeps at most MaxStickers items.
func CapStickers[T any](stickers []T) ([]T, bool) {
	if len(stickers) <= MaxStickers {
		return stickers, false
	}
	return stickers[:MaxStickers], true
}
