package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererCache holds the most recently built glamour renderer; building
// one parses a full style sheet.
var rendererCache struct {
	sync.Mutex
	r     *glamour.TermRenderer
	width int
	style string
}

func markdownRenderer(width int, style string) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = 80
	}
	if style == "" {
		style = "dark"
	}

	rendererCache.Lock()
	defer rendererCache.Unlock()
	if rendererCache.r != nil && rendererCache.width == width && rendererCache.style == style {
		return rendererCache.r, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.r, rendererCache.width, rendererCache.style = r, width, style
	return r, nil
}

// RenderMarkdownWithStyle renders markdown content using the specified glamour style.
// Returns the original content if rendering fails.
func RenderMarkdownWithStyle(content string, width int, style string) string {
	if content == "" {
		return ""
	}
	r, err := markdownRenderer(width, style)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
