package services

import (
	"fmt"
	"strings"
	"time"

	"tds-export/models"
)

// dateLayouts are tried in order when coercing date-like text. The list
// covers SQL Server textual results and the cleaner's own output format, so
// cleaning an already-cleaned table is a no-op.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"01/02/2006",
}

// Clean applies the uniform column rules to a query result:
//
//  1. drop any column whose name contains "recid" (case-insensitive);
//  2. drop columns named in omissions;
//  3. drop any column whose every value is empty, whitespace, zero, or a
//     NULL marker;
//  4. render surviving columns whose name contains "date" as M/D/YYYY text,
//     with values that cannot be read as a date becoming "".
//
// Rows are never reordered or removed and the input table is not modified.
func Clean(t *models.Table, omissions []string) *models.Table {
	omit := make(map[string]struct{}, len(omissions))
	for _, name := range omissions {
		omit[name] = struct{}{}
	}

	keep := make([]int, 0, len(t.Columns))
	for i, name := range t.Columns {
		if strings.Contains(strings.ToLower(name), "recid") {
			continue
		}
		if _, ok := omit[name]; ok {
			continue
		}
		if columnIsBlank(t, i) {
			continue
		}
		keep = append(keep, i)
	}

	out := t.Select(keep)
	for i, name := range out.Columns {
		if strings.Contains(strings.ToLower(name), "date") {
			for _, row := range out.Rows {
				row[i] = formatDate(row[i])
			}
		}
	}
	return out
}

// columnIsBlank reports whether every value in the column carries no
// information. A zero-row table has no blank columns.
func columnIsBlank(t *models.Table, col int) bool {
	if len(t.Rows) == 0 {
		return false
	}
	for _, row := range t.Rows {
		if !isBlank(row[col]) {
			return false
		}
	}
	return true
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		switch strings.TrimSpace(x) {
		case "", "0", "0.0", "NULL", "null":
			return true
		}
		return false
	case int:
		return x == 0
	case int32:
		return x == 0
	case int64:
		return x == 0
	case float32:
		return x == 0
	case float64:
		return x == 0
	default:
		return false
	}
}

// formatDate renders a value as M/D/YYYY without leading zeros. Values that
// cannot be read as a date come back as "", never as an error.
func formatDate(v any) string {
	switch x := v.(type) {
	case time.Time:
		return renderDate(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return ""
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return renderDate(ts)
			}
		}
		return ""
	default:
		return ""
	}
}

func renderDate(ts time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(ts.Month()), ts.Day(), ts.Year())
}
