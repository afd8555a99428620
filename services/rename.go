package services

import (
	"strings"

	"tds-export/models"
)

// rateSuffixes are the trailing tier tokens on funding fee columns that get
// split off with an underscore, e.g. ServicingPct -> Servicing_Pct.
var rateSuffixes = []string{"Pct", "Flat", "Min"}

// NormalizeRateSuffixes rewrites column names ending in a rate tier token so
// the token is underscore-separated. Names already in normalized form are
// left alone, so applying it twice changes nothing.
func NormalizeRateSuffixes(t *models.Table) *models.Table {
	for i, name := range t.Columns {
		for _, suffix := range rateSuffixes {
			if !strings.HasSuffix(name, suffix) || strings.HasSuffix(name, "_"+suffix) {
				continue
			}
			base := strings.TrimSuffix(name, suffix)
			if base == "" {
				continue
			}
			t.Columns[i] = base + "_" + suffix
			break
		}
	}
	return t
}
