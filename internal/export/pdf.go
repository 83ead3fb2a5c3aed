// Package export renders a diary entry as a PDF document.
package export

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

// Document is everything drawn for one entry.
type Document struct {
	Date     time.Time
	Text     string
	Mood     entry.Mood
	Images   []image.Image
	Stickers []image.Image
}

// Options controls layout. Widths are in millimetres.
type Options struct {
	ImageWidth   float64
	StickerWidth float64
	// TempDir receives the intermediate image files; "" uses the system default.
	TempDir string
}

// DefaultOptions matches the layout of the web view's download.
var DefaultOptions = Options{ImageWidth: 100, StickerWidth: 25}

const (
	lineHeight   = 7.0
	sectionGap   = 6.0
	stickerGap   = 3.0
	bottomMargin = 15.0
)

// Renderer draws Documents to PDF bytes.
type Renderer struct {
	opts Options
}

// NewRenderer returns a renderer, filling unset widths from DefaultOptions.
func NewRenderer(opts Options) *Renderer {
	if opts.ImageWidth <= 0 {
		opts.ImageWidth = DefaultOptions.ImageWidth
	}
	if opts.StickerWidth <= 0 {
		opts.StickerWidth = DefaultOptions.StickerWidth
	}
	return &Renderer{opts: opts}
}

// Title is the heading drawn at the top of the document.
func Title(date time.Time) string {
	return "Diary Entry: " + entry.FormatDate(date)
}

// Render lays out title, mood, body, stickers, then photos, and returns
// the finished PDF.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title(doc.Date), false)
	if !doc.Mood.IsNeutral() {
		pdf.SetSubject("Mood: "+doc.Mood.Name, false)
	}
	pdf.SetCreator("moodiary", false)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(Title(doc.Date)), "", 1, "C", false, 0, "")
	pdf.Ln(sectionGap / 2)

	if !doc.Mood.IsNeutral() {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(0, lineHeight, tr("Mood: "+doc.Mood.Name), "", 1, "L", false, 0, "")
		pdf.Ln(sectionGap / 2)
	}

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, lineHeight, tr(doc.Text), "", "L", false)
	pdf.Ln(sectionGap)

	if len(doc.Stickers) > 0 {
		if err := r.drawStickers(pdf, doc.Stickers); err != nil {
			return nil, err
		}
		pdf.Ln(sectionGap)
	}

	pageW, _ := pdf.GetPageSize()
	for i, img := range doc.Images {
		x := (pageW - r.opts.ImageWidth) / 2
		if err := r.drawImage(pdf, img, x, -1, r.opts.ImageWidth, true); err != nil {
			return nil, fmt.Errorf("drawing image %d: %w", i+1, err)
		}
		pdf.Ln(sectionGap)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("rendering pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawStickers places thumbnails left to right, wrapping to a new row
// when the page width runs out.
func (r *Renderer) drawStickers(pdf *fpdf.Fpdf, stickers []image.Image) error {
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	w := r.opts.StickerWidth

	x, y := left, pdf.GetY()
	rowH := 0.0
	for i, s := range stickers {
		if x+w > pageW-right && x > left {
			x = left
			y += rowH + stickerGap
			rowH = 0
		}
		if err := r.drawImage(pdf, s, x, y, w, false); err != nil {
			return fmt.Errorf("drawing sticker %d: %w", i+1, err)
		}
		if h := scaledHeight(s, w); h > rowH {
			rowH = h
		}
		x += w + stickerGap
	}
	pdf.SetY(y + rowH)
	return nil
}

// drawImage writes img to a temporary PNG, draws it, and always removes
// the file afterwards.
func (r *Renderer) drawImage(pdf *fpdf.Fpdf, img image.Image, x, y, w float64, flow bool) error {
	path, err := r.materialize(img)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	pdf.ImageOptions(path, x, y, w, 0, flow, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	if pdf.Err() {
		return pdf.Error()
	}
	return nil
}

func (r *Renderer) materialize(img image.Image) (string, error) {
	f, err := os.CreateTemp(r.opts.TempDir, "moodiary-export-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	path := f.Name()
	f.Close()

	// Re-encode as 8-bit NRGBA; the PDF writer rejects 16-bit PNGs.
	if err := imaging.Save(imaging.Clone(img), path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing temp image: %w", err)
	}
	return path, nil
}

func scaledHeight(img image.Image, w float64) float64 {
	b := img.Bounds()
	if b.Dx() == 0 {
		return 0
	}
	return w * float64(b.Dy()) / float64(b.Dx())
}
