package exporter

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"tds-export/models"
	"tds-export/services"
)

const (
	sheetName     = "Sheet1"
	commentAuthor = "TMO Reference"

	// widthMargin pads the auto-fitted column width past the widest value.
	widthMargin = 3
	// maxColWidth is the widest column Excel accepts.
	maxColWidth = 255

	commentWidth  = 400
	commentHeight = 200
)

// WriteSheet serializes a table to an xlsx file at path: one header row,
// one row per table row, every column sized to its widest rendered value,
// and a note on each header cell whose prefix-stripped text has a scraped
// definition.
func WriteSheet(path string, table *models.Table, defs map[string]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	// Widths must go in before any row on a stream writer.
	for i := range table.Columns {
		if err := sw.SetColWidth(i+1, i+1, columnWidth(table, i)); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	header := make([]interface{}, len(table.Columns))
	for i, name := range table.Columns {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("header row: %w", err)
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = cellValue(v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("row %d: %w", r+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	if err := annotateHeaders(f, table.Columns, defs); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// annotateHeaders attaches a scraped description as a comment on each header
// cell whose entity-prefix-stripped text matches a definition key.
func annotateHeaders(f *excelize.File, columns []string, defs map[string]string) error {
	if len(defs) == 0 {
		return nil
	}
	for i, name := range columns {
		desc, ok := defs[services.StripEntityPrefix(name)]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		err = f.AddComment(sheetName, excelize.Comment{
			Cell:      cell,
			Author:    commentAuthor,
			Width:     commentWidth,
			Height:    commentHeight,
			Paragraph: []excelize.RichTextRun{{Text: desc}},
		})
		if err != nil {
			return fmt.Errorf("comment on %s: %w", cell, err)
		}
	}
	return nil
}

// columnWidth counts characters, not bytes, so non-ASCII values size the
// same as they render.
func columnWidth(t *models.Table, col int) float64 {
	widest := utf8.RuneCountInString(t.Columns[col])
	for _, row := range t.Rows {
		if n := utf8.RuneCountInString(renderValue(row[col])); n > widest {
			widest = n
		}
	}
	w := float64(widest + widthMargin)
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func cellValue(v any) interface{} {
	if v == nil {
		return ""
	}
	return v
}
