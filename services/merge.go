package services

import (
	"errors"
	"fmt"
	"strings"

	"tds-export/models"
)

// Column name prefixes on the merged properties/insurance sheet, stripped
// again when header comments are matched against scraped definitions.
const (
	PropertyPrefix  = "Property: "
	InsurancePrefix = "Insurance: "
)

// Internal linkage columns carried through the merge and dropped from the
// final output. Named so the recid cleaning rule leaves them alone.
const (
	propertyLinkColumn  = "_pid"
	insuranceLinkColumn = "_pref"
)

// MergePropertiesInsurance builds the combined properties/insurance table.
// The properties query must carry the loan Account and the property record
// id aliased as _pid; both tables are cleaned independently, prefixed with
// their source entity, and insurance rows are left-joined onto properties
// via the property record id. One property with n matching insurance rows
// yields n output rows; a property without insurance yields a single row
// with empty insurance cells. Account ends up as the first column.
func MergePropertiesInsurance(properties, insurance *models.Table, omissions []string) (*models.Table, error) {
	accounts := properties.ColumnValues("Account")
	pids := properties.ColumnValues(propertyLinkColumn)
	if accounts == nil || pids == nil {
		return nil, errors.New("properties result missing Account or _pid column")
	}
	prefs := insurance.ColumnValues("PropRecID")
	if prefs == nil {
		return nil, errors.New("insurance result missing PropRecID column")
	}

	left := PrefixColumns(Clean(properties.Drop("Account", propertyLinkColumn), omissions), PropertyPrefix)
	if err := left.AppendColumn("Account", accounts); err != nil {
		return nil, err
	}
	if err := left.AppendColumn(propertyLinkColumn, pids); err != nil {
		return nil, err
	}

	right := PrefixColumns(Clean(insurance, omissions), InsurancePrefix)
	if err := right.AppendColumn(insuranceLinkColumn, prefs); err != nil {
		return nil, err
	}

	merged := LeftJoin(left, right, propertyLinkColumn, insuranceLinkColumn)
	return merged.Drop(propertyLinkColumn, insuranceLinkColumn).MoveToFront("Account"), nil
}

// PrefixColumns prepends prefix to every column name in place and returns t.
func PrefixColumns(t *models.Table, prefix string) *models.Table {
	for i, name := range t.Columns {
		if !strings.HasPrefix(name, prefix) {
			t.Columns[i] = prefix + name
		}
	}
	return t
}

// LeftJoin matches each left row against right rows whose rightKey value
// equals the left row's leftKey value. Every left row appears at least once,
// in its original order; unmatched left rows get "" for every right column.
// NULL keys never match, mirroring SQL join semantics.
func LeftJoin(left, right *models.Table, leftKey, rightKey string) *models.Table {
	li := left.ColumnIndex(leftKey)
	ri := right.ColumnIndex(rightKey)

	byKey := make(map[string][]int)
	if ri >= 0 {
		for idx, row := range right.Rows {
			if row[ri] == nil {
				continue
			}
			k := joinKey(row[ri])
			byKey[k] = append(byKey[k], idx)
		}
	}

	out := &models.Table{
		Columns: append(append([]string{}, left.Columns...), right.Columns...),
	}
	for _, lrow := range left.Rows {
		var matches []int
		if li >= 0 && lrow[li] != nil {
			matches = byKey[joinKey(lrow[li])]
		}
		if len(matches) == 0 {
			row := make([]any, 0, len(out.Columns))
			row = append(row, lrow...)
			for range right.Columns {
				row = append(row, "")
			}
			out.Rows = append(out.Rows, row)
			continue
		}
		for _, m := range matches {
			row := make([]any, 0, len(out.Columns))
			row = append(row, lrow...)
			row = append(row, right.Rows[m]...)
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func joinKey(v any) string {
	return fmt.Sprintf("%v", v)
}

// StripEntityPrefix removes the Property/Insurance prefix from a header so
// it can be matched against scraped field names.
func StripEntityPrefix(header string) string {
	header = strings.TrimPrefix(header, PropertyPrefix)
	return strings.TrimPrefix(header, InsurancePrefix)
}
