package sync

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siribarren/sermaluc-gestion-servicios/internal/entity"
)

// Spreadsheet serial dates count days from 1899-12-30. The offset from
// 1900-01-01 compensates for the sheet's historical 1900 leap-year bug.
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"January 2, 2006",
	"2 January 2006",
}

// NormalizeStatus classifies a free-text estado cell. The "ACTIVO PERU" test
// must run before the bare "ACTIVO" substring test.
func NormalizeStatus(raw string) string {
	estado := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case estado == "":
		return entity.StatusOther
	case strings.Contains(estado, "ACTIVO PERU") || strings.Contains(estado, "ACTIVO PERÚ"):
		return entity.StatusActivePeru
	case strings.Contains(estado, "ACTIVO"):
		return entity.StatusActive
	case strings.Contains(estado, "CAMBIO CC") || strings.Contains(estado, "CAMBIO CENTRO COSTO"):
		return entity.StatusCostCenterChange
	case strings.Contains(estado, "FINIQUITO") || strings.Contains(estado, "FINIQUITADO"):
		return entity.StatusTerminated
	default:
		return entity.StatusOther
	}
}

// ParseDate tries the known calendar layouts first, then falls back to
// interpreting the cell as a spreadsheet serial number. Returns nil when the
// cell is empty or matches neither form.
func ParseDate(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}

	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	days := int(serial)
	frac := serial - float64(days)
	parsed := sheetEpoch.AddDate(0, 0, days).Add(time.Duration(frac * float64(24*time.Hour)))
	return &parsed
}

// ParseRate parses a tarifa cell. Returns nil when absent or unparsable.
func ParseRate(raw string) *decimal.Decimal {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return nil
	}
	return &rate
}
