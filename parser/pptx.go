package parser

import (
	"archive/zip"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// PPTXExtractor reads the text of every slide in slide order. Slides are
// separated by a blank line.
type PPTXExtractor struct{}

func (e *PPTXExtractor) MIMETypes() []string { return []string{MIMEPPTX} }

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// slideNumber parses N out of "ppt/slides/slideN.xml", or returns 0.
func slideNumber(name string) int {
	m := slidePart.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func (e *PPTXExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	zr, err := openArchive("PPTX", data)
	if err != nil {
		return "", err
	}

	var slides []*zip.File
	for _, f := range zr.File {
		if slideNumber(f.Name) > 0 {
			slides = append(slides, f)
		}
	}
	slices.SortFunc(slides, func(a, b *zip.File) int {
		return slideNumber(a.Name) - slideNumber(b.Name)
	})

	var texts []string
	for _, f := range slides {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		raw, err := readPart(f)
		if err != nil {
			slog.Debug("pptx: unreadable slide", "slide", f.Name, "error", err)
			continue
		}
		text, err := ooxmlText(raw)
		if err != nil {
			slog.Debug("pptx: malformed slide", "slide", f.Name, "error", err)
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("PPTX: no slides: %w", errPartMissing)
	}
	return strings.Join(texts, "\n\n"), nil
}
