package entry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Mood is one of the fixed mood tags. The zero value is the neutral mood
// used for rows written before moods existed.
type Mood struct {
	Key   string
	Name  string
	Glyph string
}

// Moods lists the selectable moods in display order.
var Moods = []Mood{
	{Key: "happy", Name: "Happy", Glyph: "😊"},
	{Key: "loved", Name: "Loved", Glyph: "🥰"},
	{Key: "sleepy", Name: "Sleepy", Glyph: "😴"},
	{Key: "excited", Name: "Excited", Glyph: "🤩"},
	{Key: "sad", Name: "Sad", Glyph: "😢"},
	{Key: "cool", Name: "Cool", Glyph: "😎"},
	{Key: "grateful", Name: "Grateful", Glyph: "🙏"},
}

// Label is the stored form, e.g. "😊 Happy". Neutral moods have an empty label.
func (m Mood) Label() string {
	if m.IsNeutral() {
		return ""
	}
	return m.Glyph + " " + m.Name
}

// IsNeutral reports whether m is the zero mood.
func (m Mood) IsNeutral() bool {
	return m.Key == ""
}

func (m Mood) String() string {
	return m.Label()
}

// MarshalJSON encodes a mood as its label.
func (m Mood) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Label())
}

// UnmarshalJSON accepts anything ParseMood accepts, plus "".
func (m *Mood) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*m = Mood{}
		return nil
	}
	parsed, err := ParseMood(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMood accepts a mood key ("happy"), name ("Happy"), or full label ("😊 Happy").
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	for _, m := range Moods {
		if strings.EqualFold(s, m.Key) || strings.EqualFold(s, m.Name) || s == m.Label() {
			return m, nil
		}
	}
	return Mood{}, fmt.Errorf("unknown mood %q", s)
}

// MoodFromLabel maps a stored label back to a mood. Unknown or empty
// labels yield the neutral mood.
func MoodFromLabel(label string) Mood {
	if label == "" {
		return Mood{}
	}
	m, err := ParseMood(label)
	if err != nil {
		return Mood{}
	}
	return m
}
