package exporter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tds-export/models"
)

func writeAndReopen(t *testing.T, table *models.Table, defs map[string]string) *excelize.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteSheet(path, table, defs))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteSheet(t *testing.T) {
	table := &models.Table{
		Columns: []string{"Account", "Street"},
		Rows: [][]any{
			{"L-100", "1 Main St"},
			{"L-101", nil},
		},
	}

	f := writeAndReopen(t, table, nil)

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, []string{"Account", "Street"}, rows[0])
	assert.Equal(t, "L-100", rows[1][0])
	assert.Equal(t, "1 Main St", rows[1][1])
}

func TestWriteSheetColumnWidths(t *testing.T) {
	table := &models.Table{
		Columns: []string{"Account"},
		Rows:    [][]any{{"a-rather-long-account-number"}},
	}

	f := writeAndReopen(t, table, nil)

	width, err := f.GetColWidth("Sheet1", "A")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, width, float64(len("a-rather-long-account-number")+3))
}

func TestWriteSheetColumnWidthsCountCharacters(t *testing.T) {
	// 10 characters over 30 bytes; byte-based sizing would triple the width.
	street := "日本語の住所テキスト"
	table := &models.Table{
		Columns: []string{"St"},
		Rows:    [][]any{{street}},
	}

	f := writeAndReopen(t, table, nil)

	width, err := f.GetColWidth("Sheet1", "A")
	require.NoError(t, err)
	assert.InDelta(t, 13, width, 0.01)
}

func TestWriteSheetHeaderComments(t *testing.T) {
	table := &models.Table{
		Columns: []string{"Account", "Property: Street"},
		Rows:    [][]any{{"L-100", "1 Main St"}},
	}
	defs := map[string]string{
		"Account": "The loan account number.",
		"Street":  "First address line.\nAs entered by servicing.",
	}

	f := writeAndReopen(t, table, defs)

	comments, err := f.GetComments("Sheet1")
	require.NoError(t, err)
	require.Len(t, comments, 2)

	byCell := make(map[string]string, len(comments))
	for _, c := range comments {
		assert.Equal(t, "TMO Reference", c.Author)
		byCell[c.Cell] = commentText(c)
	}
	assert.Equal(t, "The loan account number.", byCell["A1"])
	assert.Equal(t, "First address line.\nAs entered by servicing.", byCell["B1"])
}

func TestWriteSheetNoDefinitionsNoComments(t *testing.T) {
	table := &models.Table{
		Columns: []string{"Account"},
		Rows:    [][]any{{"L-100"}},
	}

	f := writeAndReopen(t, table, map[string]string{"Unrelated": "nope"})

	comments, err := f.GetComments("Sheet1")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestWriteSheetEmptyTable(t *testing.T) {
	table := &models.Table{Columns: []string{"Account", "NoteDate"}}

	f := writeAndReopen(t, table, nil)

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Account", "NoteDate"}, rows[0])
}

// commentText tolerates both storage forms excelize round-trips comments
// through: a flat Text field or rich text runs.
func commentText(c excelize.Comment) string {
	if c.Text != "" {
		return c.Text
	}
	var b strings.Builder
	for _, run := range c.Paragraph {
		b.WriteString(run.Text)
	}
	return b.String()
}
