package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(3, 0))
	assert.Equal(t, 33.3, Percentage(1, 3))
	assert.Equal(t, 66.7, Percentage(2, 3))
	assert.Equal(t, 100.0, Percentage(5, 5))
}

func TestSummaryRow(t *testing.T) {
	row := NewSummaryRow("Brands", 7, 8)

	assert.Equal(t, 1, row.Invalid)
	assert.Equal(t, 87.5, row.ValidPercentage())
	assert.Equal(t, 12.5, row.InvalidPercentage())
}
