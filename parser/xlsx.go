package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXExtractor flattens every sheet into lines of tab-separated cells.
// Each sheet ends with a blank line; empty rows are dropped.
type XLSXExtractor struct{}

func (e *XLSXExtractor) MIMETypes() []string { return []string{MIMEXLSX} }

func (e *XLSXExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("opening XLSX: %w", err)
	}
	defer wb.Close()

	var b strings.Builder
	for _, sheet := range wb.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := writeSheet(&b, wb, sheet); err != nil {
			slog.Debug("xlsx: skipping sheet", "sheet", sheet, "error", err)
		}
	}
	return b.String(), nil
}

func writeSheet(b *strings.Builder, wb *excelize.File, sheet string) error {
	rows, err := wb.Rows(sheet)
	if err != nil {
		return err
	}
	defer rows.Close()

	wrote := false
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return err
		}
		line := strings.TrimSpace(strings.Join(cells, "\t"))
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
		wrote = true
	}
	if wrote {
		b.WriteByte('\n')
	}
	return rows.Error()
}
