// Package sticker turns free-text ideas into a sheet of candidate stickers
// and stores the user's chosen subset.
package sticker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
)

var (
	// ErrGeneration marks any failure producing a candidate sheet. It is
	// never fatal: callers show a warning and carry on without stickers.
	ErrGeneration = errors.New("sticker generation failed")
	// ErrEmptyPrompt is returned when no usable ideas were given.
	ErrEmptyPrompt = errors.New("no sticker ideas given")
	// ErrNoSheet is returned when selecting from a sheet that was never generated or has expired.
	ErrNoSheet = errors.New("no sticker sheet for this date")
	// ErrBadIndex is returned when a selection names a tile the sheet does not have.
	ErrBadIndex = errors.New("sticker index out of range")
)

// MaxIdeas is the number of ideas sent in one prompt, one per grid cell.
const MaxIdeas = SheetSize

// Generator produces one composite image from a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (image.Image, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (image.Image, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (image.Image, error) {
	return f(ctx, prompt)
}

// SplitIdeas splits comma- or newline-separated ideas, dropping blanks and
// keeping at most MaxIdeas.
func SplitIdeas(ideas string) []string {
	fields := strings.FieldsFunc(ideas, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, f)
		if len(out) == MaxIdeas {
			break
		}
	}
	return out
}

// BuildPrompt turns the user's ideas into an image prompt describing a
// 2x5 sheet of separate sticker illustrations.
func BuildPrompt(ideas string) (string, error) {
	list := SplitIdeas(ideas)
	if len(list) == 0 {
		return "", ErrEmptyPrompt
	}
	var b strings.Builder
	fmt.Fprintf(&b, "A square sheet of %d cute, colorful, cartoon-style sticker illustrations ", SheetSize)
	fmt.Fprintf(&b, "arranged in a grid of %d rows and %d columns on a plain white background. ", SheetRows, SheetColumns)
	b.WriteString("Each sticker sits centered in its own cell with a white border and nothing overlaps. ")
	b.WriteString("Stickers: ")
	for i := 0; i < SheetSize; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, list[i%len(list)])
	}
	b.WriteString(".")
	return b.String(), nil
}
