package parser

import (
	"context"
	"strings"
	"unicode/utf8"
)

// TextExtractor handles plain UTF-8 text.
type TextExtractor struct{}

func (e *TextExtractor) MIMETypes() []string { return []string{MIMEText} }

func (e *TextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	text := strings.TrimPrefix(string(data), "\uFEFF")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	return text, nil
}
