package quality

import (
	"devicerisk/inventory"
)

// Assess combines the normalized fields, date status and status class into a validity outcome.
// Issues list every failing dimension in fixed order: brand, category, date, status.
func Assess(brand, category string, date inventory.DateStatus, status inventory.Classification) inventory.ValidityOutcome {
	out := inventory.ValidityOutcome{
		FullyValid: brand != "" && category != "" && date == inventory.DateValid,
	}
	out.AnalysisReady = out.FullyValid && status.Class == inventory.StatusActive

	if brand == "" {
		out.Issues = append(out.Issues, inventory.IssueMissingBrand)
	}
	if category == "" {
		out.Issues = append(out.Issues, inventory.IssueMissingCategory)
	}
	if date != inventory.DateValid {
		out.Issues = append(out.Issues, inventory.InvalidDateIssue(date))
	}
	if status.Class != inventory.StatusActive {
		out.Issues = append(out.Issues, inventory.InactiveStatusIssue(status.Label))
	}
	return out
}

// AssessRecord evaluates an assessment from its derived fields and stores the outcome
func AssessRecord(a *inventory.Assessment) inventory.ValidityOutcome {
	a.Validity = Assess(a.NormalizedBrand, a.NormalizedCategory, a.DateStatus, a.Status)
	return a.Validity
}
