package extract

import (
	"errors"
	"path/filepath"
	"strings"
)

// Result is the text and structural metadata pulled out of an uploaded file.
// Pages is zero when the format has no page concept.
type Result struct {
	Text   string
	Pages  int
	Title  string
	Author string
}

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extract dispatches on the file extension and returns the extracted text
// plus whatever metadata the format carries.
func Extract(data []byte, filename string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	case ".md", ".markdown":
		return extractMarkdown(data)
	case ".html", ".htm":
		return extractHTML(data)
	case ".txt", ".text":
		return extractText(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Supported reports whether the filename's extension maps to an extractor.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".md", ".markdown", ".html", ".htm", ".txt", ".text":
		return true
	}
	return false
}
