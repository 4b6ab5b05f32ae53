// Package extract turns article files into the plain text the classifier reads.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned for extensions with no extractor.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor extracts article text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether ext (with leading dot, any case) has an extractor.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".txt", ".md", "", ".pdf", ".docx", ".odt", ".rtf", ".html", ".htm":
		return true
	default:
		return false
	}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".txt", ".md", "":
		return extractPlain(content), nil
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".odt", ".rtf":
		return extractCat(content, ext)
	case ".html", ".htm":
		return extractHTML(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// extractPlain replaces invalid UTF-8 sequences with U+FFFD.
func extractPlain(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "\ufffd")
}
