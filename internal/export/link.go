package export

import (
	"encoding/base64"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
)

// Filename is the download name for an entry's PDF.
func Filename(date time.Time) string {
	return "diary_entry_" + entry.FormatDate(date) + ".pdf"
}

// DataLink wraps a PDF in a base64 data URL suitable for an <a href>.
func DataLink(pdf []byte) string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdf)
}
