// Package importer loads diary entries from markdown files with YAML
// front matter:
//
//	---
//	date: 2024-01-01
//	mood: happy
//	images: [beach.jpg]
//	---
//	Had ice cream.
//
// Older exports that carry created_at instead of date are accepted too.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/chris-regnier/moodiary/internal/diary"
	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/chris-regnier/moodiary/internal/storage"
	"github.com/rs/zerolog"
)

// Saver persists a parsed draft.
type Saver interface {
	Save(ctx context.Context, d diary.Draft) (diary.SaveResult, error)
}

type frontMatter struct {
	Date      string   `yaml:"date"`
	Mood      string   `yaml:"mood"`
	Images    []string `yaml:"images"`
	CreatedAt string   `yaml:"created_at"`
}

// Imported describes one saved file.
type Imported struct {
	Path     string   `json:"path"`
	ID       int64    `json:"id"`
	Date     string   `json:"date"`
	Warnings []string `json:"warnings,omitempty"`
}

// Skipped describes a file that was not imported.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarises an import run.
type Report struct {
	Imported []Imported `json:"imported"`
	Skipped  []Skipped  `json:"skipped"`
}

// Importer walks a directory tree and saves each markdown file as an entry.
type Importer struct {
	saver Saver
	log   zerolog.Logger
}

// New creates an Importer.
func New(saver Saver, log zerolog.Logger) *Importer {
	return &Importer{saver: saver, log: log.With().Str("component", "importer").Logger()}
}

// ImportDir imports every *.md file under dir in lexical path order.
// Unparseable files are skipped and reported; a storage failure stops the
// run and is returned along with what was imported so far.
func (im *Importer) ImportDir(ctx context.Context, dir string) (Report, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(paths)

	var rep Report
	for _, path := range paths {
		draft, err := ParseFile(path)
		if err != nil {
			im.log.Warn().Err(err).Str("path", path).Msg("skipping file")
			rep.Skipped = append(rep.Skipped, Skipped{Path: path, Reason: err.Error()})
			continue
		}
		res, err := im.saver.Save(ctx, draft)
		if errors.Is(err, storage.ErrValidation) {
			rep.Skipped = append(rep.Skipped, Skipped{Path: path, Reason: err.Error()})
			continue
		}
		if err != nil {
			return rep, fmt.Errorf("importing %s: %w", path, err)
		}
		rep.Imported = append(rep.Imported, Imported{
			Path:     path,
			ID:       res.Entry.ID,
			Date:     res.Entry.DateKey(),
			Warnings: res.Warnings,
		})
	}
	im.log.Info().Int("imported", len(rep.Imported)).Int("skipped", len(rep.Skipped)).Msg("import finished")
	return rep, nil
}

// ParseFile reads one markdown file into a draft. Image paths in the front
// matter are resolved relative to the file.
func ParseFile(path string) (diary.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return diary.Draft{}, err
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return diary.Draft{}, fmt.Errorf("parsing front matter: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if err := entry.ValidateText(text); err != nil {
		return diary.Draft{}, err
	}

	date, err := draftDate(fm)
	if err != nil {
		return diary.Draft{}, err
	}

	var mood entry.Mood
	if fm.Mood != "" {
		if mood, err = entry.ParseMood(fm.Mood); err != nil {
			return diary.Draft{}, err
		}
	}

	var images [][]byte
	for _, rel := range fm.Images {
		p := rel
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(path), rel)
		}
		img, err := os.ReadFile(p)
		if err != nil {
			return diary.Draft{}, fmt.Errorf("reading image %s: %w", rel, err)
		}
		images = append(images, img)
	}

	return diary.Draft{Date: date, Text: text, Mood: mood, Images: images}, nil
}

func draftDate(fm frontMatter) (time.Time, error) {
	switch {
	case fm.Date != "":
		return entry.ParseDate(fm.Date)
	case fm.CreatedAt != "":
		t, err := time.Parse(time.RFC3339, fm.CreatedAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
		}
		return entry.Day(t.Local()), nil
	default:
		return time.Time{}, errors.New("front matter has no date")
	}
}
