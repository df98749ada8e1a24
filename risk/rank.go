package risk

import (
	"sort"

	"devicerisk/inventory"
)

// DenseRanks returns the priority rank of every outcome: a dense rank by
// descending total inside its risk level. Ties share a rank.
func DenseRanks(outcomes []inventory.RiskOutcome) []int {
	totals := make(map[inventory.RiskLevel][]int)
	for _, o := range outcomes {
		totals[o.Level] = append(totals[o.Level], o.Total)
	}

	rankOf := make(map[inventory.RiskLevel]map[int]int, len(totals))
	for level, values := range totals {
		sort.Sort(sort.Reverse(sort.IntSlice(values)))
		ranks := make(map[int]int)
		next := 0
		for _, v := range values {
			if _, seen := ranks[v]; !seen {
				next++
				ranks[v] = next
			}
		}
		rankOf[level] = ranks
	}

	out := make([]int, len(outcomes))
	for i, o := range outcomes {
		out[i] = rankOf[o.Level][o.Total]
	}
	return out
}

// SortByTotal orders assessments by descending total score, keeping input order on ties
func SortByTotal(scored []inventory.Assessment) {
	sort.SliceStable(scored, func(i, j int) bool {
		return total(scored[i]) > total(scored[j])
	})
}

func total(a inventory.Assessment) int {
	if a.Risk == nil {
		return -1
	}
	return a.Risk.Total
}
