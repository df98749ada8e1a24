package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devicerisk/inventory"
)

func outcome(total int) inventory.RiskOutcome {
	return inventory.RiskOutcome{Total: total, Level: LevelFor(total)}
}

func TestDenseRanks(t *testing.T) {
	outcomes := []inventory.RiskOutcome{
		outcome(40), outcome(85), outcome(60), outcome(40), outcome(100),
		outcome(85), outcome(15), outcome(30), outcome(50),
	}

	got := DenseRanks(outcomes)

	// medium: 60 -> 1, 50 -> 2, 40 -> 3; high: 100 -> 1, 85 -> 2; low: 30 -> 1, 15 -> 2
	assert.Equal(t, []int{3, 2, 1, 3, 1, 2, 2, 1, 2}, got)
}

func TestDenseRanks_Empty(t *testing.T) {
	assert.Empty(t, DenseRanks(nil))
}

func TestSortByTotal(t *testing.T) {
	scored := []inventory.Assessment{
		{Record: inventory.Record{AssetTagID: "a"}, Risk: &inventory.RiskOutcome{Total: 40}},
		{Record: inventory.Record{AssetTagID: "b"}, Risk: &inventory.RiskOutcome{Total: 90}},
		{Record: inventory.Record{AssetTagID: "c"}, Risk: &inventory.RiskOutcome{Total: 40}},
		{Record: inventory.Record{AssetTagID: "d"}, Risk: &inventory.RiskOutcome{Total: 70}},
	}

	SortByTotal(scored)

	var ids []string
	for _, a := range scored {
		ids = append(ids, a.Record.AssetTagID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}
