package quality

import (
	"math"
)

// SummaryRow valid/invalid counts of one data dimension
type SummaryRow struct {
	Dimension string
	Valid     int
	Invalid   int
	Total     int
}

// NewSummaryRow builds a row where invalid is the complement of valid
func NewSummaryRow(dimension string, valid, total int) SummaryRow {
	return SummaryRow{Dimension: dimension, Valid: valid, Invalid: total - valid, Total: total}
}

// ValidPercentage share of valid rows, one decimal
func (r SummaryRow) ValidPercentage() float64 {
	return Percentage(r.Valid, r.Total)
}

// InvalidPercentage share of invalid rows, one decimal
func (r SummaryRow) InvalidPercentage() float64 {
	return Percentage(r.Invalid, r.Total)
}

// Percentage returns part/total*100 rounded to one decimal, 0 for an empty total
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
