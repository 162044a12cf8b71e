package parser

import (
	"context"
	"fmt"
)

// DOCXExtractor reads word/document.xml: paragraphs and table rows in
// document order.
type DOCXExtractor struct{}

func (e *DOCXExtractor) MIMETypes() []string { return []string{MIMEDOCX} }

func (e *DOCXExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	zr, err := openArchive("DOCX", data)
	if err != nil {
		return "", err
	}
	part, err := findPart(zr, "word/document.xml")
	if err != nil {
		return "", fmt.Errorf("DOCX: %w", err)
	}
	raw, err := readPart(part)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := ooxmlText(raw)
	if err != nil {
		return "", fmt.Errorf("DOCX: %w", err)
	}
	return text, nil
}
