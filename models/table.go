package models

import "fmt"

// Table is an ordered set of named columns over ordered rows, as produced by
// a single query. Values are raw driver values: string, int64, float64, bool,
// time.Time or nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnValues returns a copy of the named column's values, or nil if the
// column does not exist.
func (t *Table) ColumnValues(name string) []any {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values
}

// Select returns a new table holding the given columns in the given order.
// Row slices are freshly allocated, so the result can be mutated without
// touching the receiver.
func (t *Table) Select(indices []int) *Table {
	out := &Table{
		Columns: make([]string, len(indices)),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, idx := range indices {
		out.Columns[i] = t.Columns[idx]
	}
	for r, row := range t.Rows {
		values := make([]any, len(indices))
		for i, idx := range indices {
			values[i] = row[idx]
		}
		out.Rows[r] = values
	}
	return out
}

// Drop returns a new table without the named columns. Names that do not
// exist are ignored.
func (t *Table) Drop(names ...string) *Table {
	dropped := make(map[string]struct{}, len(names))
	for _, n := range names {
		dropped[n] = struct{}{}
	}
	keep := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if _, ok := dropped[c]; !ok {
			keep = append(keep, i)
		}
	}
	return t.Select(keep)
}

// MoveToFront returns a new table with the named columns first, in the given
// order, followed by the remaining columns in their original order. Names
// that do not exist are ignored.
func (t *Table) MoveToFront(names ...string) *Table {
	indices := make([]int, 0, len(t.Columns))
	taken := make(map[int]struct{}, len(names))
	for _, n := range names {
		if idx := t.ColumnIndex(n); idx >= 0 {
			indices = append(indices, idx)
			taken[idx] = struct{}{}
		}
	}
	for i := range t.Columns {
		if _, ok := taken[i]; !ok {
			indices = append(indices, i)
		}
	}
	return t.Select(indices)
}

// AppendColumn adds a column at the end; values must match the row count.
func (t *Table) AppendColumn(name string, values []any) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// AppendEmptyColumn adds a column at the end with every value "".
func (t *Table) AppendEmptyColumn(name string) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
}

// RenameColumn renames the first column matching old. Missing columns are
// ignored.
func (t *Table) RenameColumn(old, new string) {
	if idx := t.ColumnIndex(old); idx >= 0 {
		t.Columns[idx] = new
	}
}
