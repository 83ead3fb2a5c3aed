package entry

import (
	"encoding/json"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"plain", "Had ice cream", false},
		{"empty", "", true},
		{"whitespace", "  \n\t ", true},
		{"padded", "  ok  ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
		})
	}
}

func TestParseMood(t *testing.T) {
	for _, in := range []string{"happy", "Happy", "😊 Happy", " HAPPY "} {
		m, err := ParseMood(in)
		if err != nil {
			t.Fatalf("ParseMood(%q): %v", in, err)
		}
		if m.Label() != "😊 Happy" {
			t.Errorf("ParseMood(%q).Label() = %q", in, m.Label())
		}
	}
	if _, err := ParseMood("grumpy"); err == nil {
		t.Error("expected error for unknown mood")
	}
}

func TestMoodFromLabelNeutral(t *testing.T) {
	if m := MoodFromLabel(""); !m.IsNeutral() {
		t.Errorf("empty label should be neutral, got %+v", m)
	}
	if m := MoodFromLabel("🦄 Whimsical"); !m.IsNeutral() {
		t.Errorf("unknown label should be neutral, got %+v", m)
	}
	if m := MoodFromLabel("😎 Cool"); m.Key != "cool" {
		t.Errorf("got %+v, want cool", m)
	}
}

func TestMoodJSON(t *testing.T) {
	e := Entry{ID: 1, Text: "x", Mood: Moods[2]}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Entry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Mood != Moods[2] {
		t.Errorf("mood = %+v, want %+v", got.Mood, Moods[2])
	}
}

func TestCapImages(t *testing.T) {
	in := make([][]byte, 5)
	got, truncated := CapImages(in)
	if len(got) != MaxImages || !truncated {
		t.Errorf("CapImages(5) = %d, %v", len(got), truncated)
	}
	got, truncated = CapImages(in[:2])
	if len(got) != 2 || truncated {
		t.Errorf("CapImages(2) = %d, %v", len(got), truncated)
	}
}

func TestCapStickers(t *testing.T) {
	got, truncated := CapStickers([]int{0, 1, 2, 3, 4, 5, 6})
	if len(got) != MaxStickers || !truncated {
		t.Errorf("CapStickers(7) = %d, %v", len(got), truncated)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if FormatDate(d) != "2024-01-01" {
		t.Errorf("round trip = %q", FormatDate(d))
	}
	if _, err := ParseDate("01/01/2024"); err == nil {
		t.Error("expected error for bad layout")
	}
}

func TestPreview(t *testing.T) {
	e := Entry{Text: "line one\nline two that keeps going"}
	if got := e.Preview(12); got != "line one ..." {
		t.Errorf("Preview = %q", got)
	}
	if got := e.Preview(100); got != "line one line two that keeps going" {
		t.Errorf("Preview = %q", got)
	}
}
