package risk

import (
	"strings"

	"devicerisk/inventory"
	"devicerisk/normalization"
)

// Sub-score weights
const (
	AgeHighScore   = 50
	AgeMediumScore = 25
	AgeLowScore    = 5

	BrandUnknownScore = 30
	BrandTier1Score   = 5
	BrandTier2Score   = 15
	BrandOtherScore   = 25

	CategoryUnknownScore      = 20
	CategoryCriticalScore     = 20
	CategoryImportantScore    = 10
	CategoryStandardScore     = 3
	CategoryUnclassifiedScore = 15
)

// Level thresholds on the total score
const (
	HighThreshold   = 70
	MediumThreshold = 35
)

// Scorer computes lifecycle risk for analysis-ready devices
type Scorer struct {
	tier1     []string
	tier2     []string
	critical  []string
	important []string
	standard  []string
}

// NewScorer creates a scorer over the scoring tables of rules
func NewScorer(rules normalization.Rules) *Scorer {
	r := rules.Clone()
	return &Scorer{
		tier1:     r.BrandTier1,
		tier2:     r.BrandTier2,
		critical:  r.CriticalCategories,
		important: r.ImportantCategories,
		standard:  r.StandardCategories,
	}
}

// Score scores an assessment using its post-recovery brand and category.
// Callers pass analysis-ready records only. PriorityRank is left at zero.
func (s *Scorer) Score(a inventory.Assessment) inventory.RiskOutcome {
	return s.ScoreValues(a.EffectiveBrand(), a.EffectiveCategory(), a.AgeYears)
}

// ScoreValues scores raw factor values
func (s *Scorer) ScoreValues(brand, category string, ageYears *float64) inventory.RiskOutcome {
	out := inventory.RiskOutcome{
		Age:      AgeScore(ageYears),
		Brand:    s.BrandScore(brand),
		Category: s.CategoryScore(category),
	}
	out.Total = out.Age.Score + out.Brand.Score + out.Category.Score
	out.Level = LevelFor(out.Total)
	out.Rationale = "Age: " + out.Age.Reason + "; Brand: " + out.Brand.Reason + "; Category: " + out.Category.Reason
	return out
}

// AgeScore age factor, max 50
func AgeScore(ageYears *float64) inventory.SubScore {
	switch {
	case ageYears == nil:
		return inventory.SubScore{Score: 0, Reason: "Unknown Age"}
	case *ageYears >= 5:
		return inventory.SubScore{Score: AgeHighScore, Reason: "High Risk (5+ years old)"}
	case *ageYears >= 3:
		return inventory.SubScore{Score: AgeMediumScore, Reason: "Medium Risk (3-5 years old)"}
	default:
		return inventory.SubScore{Score: AgeLowScore, Reason: "Low Risk (<3 years old)"}
	}
}

// BrandScore brand support factor, max 30
func (s *Scorer) BrandScore(brand string) inventory.SubScore {
	b := strings.ToLower(strings.TrimSpace(brand))
	switch {
	case b == "":
		return inventory.SubScore{Score: BrandUnknownScore, Reason: "High Risk (Unknown Brand)"}
	case normalization.ContainsAny(b, s.tier1):
		return inventory.SubScore{Score: BrandTier1Score, Reason: "Low Risk (Premium Brand)"}
	case normalization.ContainsAny(b, s.tier2):
		return inventory.SubScore{Score: BrandTier2Score, Reason: "Medium Risk (Consumer Brand)"}
	default:
		return inventory.SubScore{Score: BrandOtherScore, Reason: "High Risk (Lesser Known Brand)"}
	}
}

// CategoryScore criticality factor, max 20
func (s *Scorer) CategoryScore(category string) inventory.SubScore {
	c := strings.ToLower(strings.TrimSpace(category))
	switch {
	case c == "":
		return inventory.SubScore{Score: CategoryUnknownScore, Reason: "High Risk (Unknown Category)"}
	case normalization.ContainsAny(c, s.critical):
		return inventory.SubScore{Score: CategoryCriticalScore, Reason: "High Risk (Critical Infrastructure)"}
	case normalization.ContainsAny(c, s.important):
		return inventory.SubScore{Score: CategoryImportantScore, Reason: "Medium Risk (Business Essential)"}
	case normalization.ContainsAny(c, s.standard):
		return inventory.SubScore{Score: CategoryStandardScore, Reason: "Low Risk (Standard Equipment)"}
	default:
		return inventory.SubScore{Score: CategoryUnclassifiedScore, Reason: "Medium Risk (Unclassified Category)"}
	}
}

// LevelFor maps a total score onto a risk level
func LevelFor(total int) inventory.RiskLevel {
	switch {
	case total >= HighThreshold:
		return inventory.RiskHigh
	case total >= MediumThreshold:
		return inventory.RiskMedium
	default:
		return inventory.RiskLow
	}
}
