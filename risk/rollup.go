package risk

import (
	"math"
	"sort"

	"devicerisk/inventory"
)

// Replacement priorities per level
var replacementPriority = map[inventory.RiskLevel]string{
	inventory.RiskHigh:   "IMMEDIATE (Next 6 months)",
	inventory.RiskMedium: "PLANNED (6-18 months)",
	inventory.RiskLow:    "SCHEDULED (18+ months)",
}

// ReplacementPriority returns the replacement horizon of a level
func ReplacementPriority(level inventory.RiskLevel) string {
	return replacementPriority[level]
}

// DashboardRow one line of the risk summary dashboard
type DashboardRow struct {
	Label       string
	Count       int
	Percentage  float64
	AvgScore    *float64 // nil when the level has no devices
	Replacement string
}

// Dashboard returns one row per risk level in report order plus a TOTAL row
func Dashboard(scored []inventory.Assessment) []DashboardRow {
	n := len(scored)
	sums := make(map[inventory.RiskLevel]int)
	counts := make(map[inventory.RiskLevel]int)
	grand := 0
	for _, a := range scored {
		if a.Risk == nil {
			continue
		}
		sums[a.Risk.Level] += a.Risk.Total
		counts[a.Risk.Level]++
		grand += a.Risk.Total
	}

	rows := make([]DashboardRow, 0, len(inventory.RiskLevels)+1)
	for _, level := range inventory.RiskLevels {
		row := DashboardRow{
			Label:       level.String(),
			Count:       counts[level],
			Percentage:  percentage(counts[level], n),
			Replacement: ReplacementPriority(level),
		}
		if counts[level] > 0 {
			avg := Round1(float64(sums[level]) / float64(counts[level]))
			row.AvgScore = &avg
		}
		rows = append(rows, row)
	}

	total := DashboardRow{Label: "TOTAL", Count: n, Replacement: "Various"}
	if n > 0 {
		total.Percentage = 100
		avg := Round1(float64(grand) / float64(n))
		total.AvgScore = &avg
	}
	return append(rows, total)
}

// GroupRollup risk aggregate of devices sharing a brand or category
type GroupRollup struct {
	Key           string
	DeviceCount   int
	AvgScore      float64
	MaxScore      int
	AvgAge        float64
	HighRiskCount int
}

// ByBrand aggregates scored devices per post-recovery brand
func ByBrand(scored []inventory.Assessment) []GroupRollup {
	return rollup(scored, inventory.Assessment.EffectiveBrand)
}

// ByCategory aggregates scored devices per post-recovery category
func ByCategory(scored []inventory.Assessment) []GroupRollup {
	return rollup(scored, inventory.Assessment.EffectiveCategory)
}

// rollup groups by key; result is sorted by average score descending, then key
func rollup(scored []inventory.Assessment, key func(inventory.Assessment) string) []GroupRollup {
	type acc struct {
		GroupRollup
		sum     int
		ageSum  float64
		ageSeen int
	}
	groups := make(map[string]*acc)
	for _, a := range scored {
		if a.Risk == nil {
			continue
		}
		k := key(a)
		g, ok := groups[k]
		if !ok {
			g = &acc{GroupRollup: GroupRollup{Key: k}}
			groups[k] = g
		}
		g.DeviceCount++
		g.sum += a.Risk.Total
		if a.Risk.Total > g.MaxScore {
			g.MaxScore = a.Risk.Total
		}
		if a.AgeYears != nil {
			g.ageSum += *a.AgeYears
			g.ageSeen++
		}
		if a.Risk.Level == inventory.RiskHigh {
			g.HighRiskCount++
		}
	}

	out := make([]GroupRollup, 0, len(groups))
	for _, g := range groups {
		g.AvgScore = Round1(float64(g.sum) / float64(g.DeviceCount))
		if g.ageSeen > 0 {
			g.AvgAge = Round1(g.ageSum / float64(g.ageSeen))
		}
		out = append(out, g.GroupRollup)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgScore != out[j].AvgScore {
			return out[i].AvgScore > out[j].AvgScore
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// AgeBucket one row of the age distribution
type AgeBucket struct {
	Range      string
	Count      int
	Percentage float64
	Assessment string
}

var ageBuckets = []struct {
	label      string
	min, max   float64 // max is exclusive; 0 means unbounded
	assessment string
}{
	{"0-2 years", 0, 3, "Low Risk"},
	{"3-4 years", 3, 5, "Medium Risk"},
	{"5-6 years", 5, 7, "High Risk"},
	{"7-9 years", 7, 10, "Very High Risk"},
	{"10+ years", 10, 0, "Critical Risk"},
}

// AgeDistribution counts scored devices per age band. Percentages use the scored total.
func AgeDistribution(scored []inventory.Assessment) []AgeBucket {
	out := make([]AgeBucket, len(ageBuckets))
	for i, b := range ageBuckets {
		out[i] = AgeBucket{Range: b.label, Assessment: b.assessment}
	}

	for _, a := range scored {
		if a.AgeYears == nil {
			continue
		}
		age := *a.AgeYears
		for i, b := range ageBuckets {
			if age >= b.min && (b.max == 0 || age < b.max) {
				out[i].Count++
				break
			}
		}
	}

	for i := range out {
		out[i].Percentage = percentage(out[i].Count, len(scored))
	}
	return out
}

// Round1 rounds half away from zero to one decimal
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}
