package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
)

const timestampLayout = "2006-01-02 15:04"

func moodOrDash(m entry.Mood) string {
	if m.IsNeutral() {
		return "-"
	}
	return m.Label()
}

// FormatEntryCreated formats a creation confirmation message followed by
// any warnings raised while saving.
func FormatEntryCreated(w io.Writer, e entry.Entry, warnings []string) {
	fmt.Fprintf(w, "Created entry %d for %s (%s)\n", e.ID, e.DateKey(), moodOrDash(e.Mood))
	for _, warn := range warnings {
		fmt.Fprintf(w, "Warning: %s\n", warn)
	}
}

// FormatEntryUpdated formats an update confirmation message.
func FormatEntryUpdated(w io.Writer, e entry.Entry) {
	fmt.Fprintf(w, "Updated entry %d (%s)\n", e.ID, e.UpdatedAt.Local().Format(timestampLayout))
}

// FormatEntryDeleted formats a deletion confirmation message.
func FormatEntryDeleted(w io.Writer, id int64) {
	fmt.Fprintf(w, "Deleted entry %d.\n", id)
}

// EntryView is what FormatEntryFull draws.
type EntryView struct {
	Entry    entry.Entry
	Photos   int
	Stickers int
}

// FormatEntryFull formats a full entry display with metadata header. When
// styled is set the header uses theme colors and the body is rendered as
// markdown; otherwise the text is written as is.
func FormatEntryFull(w io.Writer, v EntryView, theme Theme, styled bool) {
	e := v.Entry
	title := fmt.Sprintf("Diary Entry: %s", e.DateKey())
	mood := "Mood: " + moodOrDash(e.Mood)
	meta := fmt.Sprintf("#%d  photos: %d  stickers: %d", e.ID, v.Photos, v.Stickers)
	if !e.UpdatedAt.IsZero() {
		meta += "  modified: " + e.UpdatedAt.Local().Format(timestampLayout)
	}

	if !styled {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, mood)
		fmt.Fprintln(w, meta)
		fmt.Fprintln(w)
		fmt.Fprintln(w, e.Text)
		return
	}

	fmt.Fprintln(w, theme.HeaderStyle().Render(title))
	fmt.Fprintln(w, theme.MoodStyle().Render(mood))
	fmt.Fprintln(w, theme.MutedStyle().Render(meta))
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderMarkdownWithStyle(e.Text, 80, theme.MarkdownStyle))
}

// FormatEntryList formats a list of entries as a table.
func FormatEntryList(w io.Writer, entries []entry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No diary entries found.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%d  %s  %-14s  %s\n",
			e.ID,
			e.DateKey(),
			moodOrDash(e.Mood),
			e.Preview(60),
		)
	}
}

// FormatJSON writes any value as JSON to the writer.
func FormatJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EntrySummary is a JSON representation for list output.
type EntrySummary struct {
	ID          int64      `json:"id"`
	Date        string     `json:"date"`
	Mood        entry.Mood `json:"mood"`
	Preview     string     `json:"preview"`
	HasStickers bool       `json:"has_stickers"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToSummaries converts entries to summary format for JSON list output.
func ToSummaries(entries []entry.Entry) []EntrySummary {
	summaries := make([]EntrySummary, len(entries))
	for i, e := range entries {
		summaries[i] = EntrySummary{
			ID:          e.ID,
			Date:        e.DateKey(),
			Mood:        e.Mood,
			Preview:     e.Preview(60),
			HasStickers: e.HasStickers(),
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		}
	}
	return summaries
}

// EntryDetail is a JSON representation for show output.
type EntryDetail struct {
	ID        int64      `json:"id"`
	Date      string     `json:"date"`
	Text      string     `json:"text"`
	Mood      entry.Mood `json:"mood"`
	Photos    int        `json:"photos"`
	Stickers  int        `json:"stickers"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToDetail converts a view to its JSON form.
func ToDetail(v EntryView) EntryDetail {
	return EntryDetail{
		ID:        v.Entry.ID,
		Date:      v.Entry.DateKey(),
		Text:      v.Entry.Text,
		Mood:      v.Entry.Mood,
		Photos:    v.Photos,
		Stickers:  v.Stickers,
		CreatedAt: v.Entry.CreatedAt,
		UpdatedAt: v.Entry.UpdatedAt,
	}
}

// DeleteResult is a JSON representation for delete output.
type DeleteResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
