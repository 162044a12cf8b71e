package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads the text layer of a PDF. Pages without text, or whose
// content stream cannot be decoded, are skipped; pages are separated by a
// blank line.
type PDFExtractor struct{}

func (e *PDFExtractor) MIMETypes() []string { return []string{MIMEPDF} }

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	n := doc.NumPage()
	var out []string
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := pageText(doc.Page(i))
		if err != nil {
			slog.Debug("pdf: skipping page", "page", i, "of", n, "error", err)
			continue
		}
		if text != "" {
			out = append(out, text)
		}
	}
	return strings.Join(out, "\n\n"), nil
}

// pageText decodes one page. The pdf package panics on some malformed
// content streams, so a panic is reported as an error for that page.
func pageText(p pdf.Page) (text string, err error) {
	if p.V.IsNull() {
		return "", nil
	}
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("decoding page: %v", v)
		}
	}()
	text, err = p.GetPlainText(nil)
	return strings.TrimSpace(text), err
}
