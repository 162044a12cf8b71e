// Package parser pulls plain text out of uploaded documents.
package parser

import (
	"context"
	"errors"
	"strings"
	"unicode"
)

// MIME types with a built-in extractor.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMEText = "text/plain"
)

var (
	// ErrUnsupportedType is returned for a MIME type with no extractor.
	ErrUnsupportedType = errors.New("parser: unsupported file type")
	// ErrNoText is returned when a document yields no text at all.
	ErrNoText = errors.New("parser: no text could be extracted")
)

// Extractor pulls raw text from a document held in memory.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
	MIMETypes() []string
}

// Sanitize removes null bytes, normalizes line endings to LF, replaces
// other control characters with spaces and trims the result.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}
