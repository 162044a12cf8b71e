package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxPartBytes bounds a single decompressed archive member.
const maxPartBytes = 64 << 20

var errPartMissing = errors.New("archive member not found")

// openArchive opens an Office Open XML package held in memory.
func openArchive(kind string, data []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", kind, err)
	}
	return zr, nil
}

// readPart returns the decompressed contents of one archive member.
func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxPartBytes))
}

func findPart(zr *zip.Reader, name string) (*zip.File, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, errPartMissing)
}

// ooxmlText streams a WordprocessingML or DrawingML part and returns its
// text in document order, one line per paragraph. Both dialects share the
// local names used here: t (text run), p (paragraph), tr and tc (table
// row and cell). Cells of a row are joined by tabs.
func ooxmlText(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		lines  []string
		para   strings.Builder
		inText bool
		rows   int      // open table rows; nested tables share the counter
		cell   []string // paragraphs of the current cell
		row    []string // finished cells of the current row
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tr":
				rows++
				row = row[:0]
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text := strings.TrimSpace(para.String())
				para.Reset()
				switch {
				case rows > 0:
					cell = append(cell, text)
				case text != "":
					lines = append(lines, text)
				}
			case "tc":
				row = append(row, strings.TrimSpace(strings.Join(cell, " ")))
				cell = cell[:0]
			case "tr":
				rows = max(rows-1, 0)
				if line := strings.TrimSpace(strings.Join(row, "\t")); line != "" {
					lines = append(lines, line)
				}
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
