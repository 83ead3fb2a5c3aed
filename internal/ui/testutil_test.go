package ui

import (
	"regexp"
	"strings"
)

var sgr = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI drops lipgloss color codes so tests can compare plain text.
func stripANSI(s string) string { return sgr.ReplaceAllString(s, "") }

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}
