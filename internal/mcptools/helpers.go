package mcptools

import (
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
)

// parseDateOr parses s, or returns fallback when s is empty.
func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return entry.Day(fallback), nil
	}
	return entry.ParseDate(s)
}

func parseMood(s string) (entry.Mood, error) {
	if s == "" {
		return entry.Mood{}, nil
	}
	return entry.ParseMood(s)
}
