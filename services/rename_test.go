package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tds-export/models"
)

func TestNormalizeRateSuffixes(t *testing.T) {
	table := &models.Table{
		Columns: []string{"ServicingPct", "OriginationFlat", "LateChargeMin", "Account", "Pct"},
	}

	got := NormalizeRateSuffixes(table)

	assert.Equal(t, []string{
		"Servicing_Pct", "Origination_Flat", "LateCharge_Min", "Account", "Pct",
	}, got.Columns)
}

func TestNormalizeRateSuffixesIsIdempotent(t *testing.T) {
	table := &models.Table{Columns: []string{"Servicing_Pct", "BrokerFlat"}}

	got := NormalizeRateSuffixes(NormalizeRateSuffixes(table))

	assert.Equal(t, []string{"Servicing_Pct", "Broker_Flat"}, got.Columns)
}
