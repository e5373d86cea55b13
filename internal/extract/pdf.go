package extract

import (
	"bytes"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// extractPDF pulls plain text page by page and document info (title, author)
// from the trailer. Pages with unreadable content streams are skipped rather
// than failing the whole document.
func extractPDF(data []byte) (*Result, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf failed: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(strings.TrimSpace(text))
	}

	res := &Result{
		Text:  buf.String(),
		Pages: numPages,
	}
	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		res.Title = info.Key("Title").Text()
		res.Author = info.Key("Author").Text()
	}
	return res, nil
}
