package inventory

import (
	"strings"
	"time"
)

// StatusClass availability class of a device
type StatusClass int

const (
	StatusUnknown StatusClass = iota
	StatusActive
	StatusInactive
)

// String returns the label prefix used in reports
func (c StatusClass) String() string {
	switch c {
	case StatusActive:
		return "ACTIVE"
	case StatusInactive:
		return "INACTIVE"
	default:
		return "UNKNOWN"
	}
}

// Classification result of status classification.
// Label embeds the raw text, e.g. "ACTIVE (Checked Out)".
type Classification struct {
	Class     StatusClass
	Label     string
	Ambiguous bool // raw text also matched the inactive set
}

// DateStatus outcome of purchase date validation
type DateStatus int

const (
	DateValid DateStatus = iota
	DateMissing
	DateFuture
	DateTooOld
	DateInvalidFormat
)

// String returns the display form written into reports and issue lists
func (s DateStatus) String() string {
	switch s {
	case DateValid:
		return "Valid"
	case DateMissing:
		return "Missing"
	case DateFuture:
		return "Future Date"
	case DateTooOld:
		return "Too Old"
	case DateInvalidFormat:
		return "Invalid Format"
	}
	return "Unknown"
}

// RiskLevel three-level lifecycle risk classification
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String returns the report label
func (l RiskLevel) String() string {
	switch l {
	case RiskHigh:
		return "HIGH RISK"
	case RiskMedium:
		return "MEDIUM RISK"
	default:
		return "LOW RISK"
	}
}

// RiskLevels in report order
var RiskLevels = []RiskLevel{RiskHigh, RiskMedium, RiskLow}

// Issue tags produced when a record is not fully valid
const (
	IssueMissingBrand    = "Missing Brand"
	IssueMissingCategory = "Missing Category"
	issueInvalidDate     = "Invalid Purchase Date"
	issueInactiveStatus  = "Inactive Status"
)

// InvalidDateIssue formats the purchase date issue tag
func InvalidDateIssue(s DateStatus) string {
	return issueInvalidDate + " (" + s.String() + ")"
}

// InactiveStatusIssue formats the status issue tag
func InactiveStatusIssue(label string) string {
	return issueInactiveStatus + " (" + label + ")"
}

// ValidityOutcome per-record pass/fail decision
type ValidityOutcome struct {
	FullyValid    bool // brand, category and date pass
	AnalysisReady bool // FullyValid and Active
	Issues        []string
}

// IssuesText joins issues the way the "Issues Found" column expects
func (v ValidityOutcome) IssuesText() string {
	return strings.Join(v.Issues, " | ")
}

// Recovery outcome of inferring brand/category from free text
type Recovery struct {
	Brand          string
	Category       string
	BrandSource    string // source field the brand came from, empty when not recovered
	CategorySource string
}

// Corrected reports whether both gating fields are filled
func (r Recovery) Corrected() bool {
	return r.Brand != "" && r.Category != ""
}

// RecoveredAny reports whether at least one dimension was filled
func (r Recovery) RecoveredAny() bool {
	return r.BrandSource != "" || r.CategorySource != ""
}

// Outcome classifies what recovery filled: both, brand, category or none
func (r Recovery) Outcome() string {
	switch {
	case r.BrandSource != "" && r.CategorySource != "":
		return "both"
	case r.BrandSource != "":
		return "brand"
	case r.CategorySource != "":
		return "category"
	}
	return "none"
}

// Notes describes the filled dimensions, e.g. "Brand from Description"
func (r Recovery) Notes() string {
	var parts []string
	if r.BrandSource != "" {
		parts = append(parts, "Brand from "+r.BrandSource)
	}
	if r.CategorySource != "" {
		parts = append(parts, "Category from "+r.CategorySource)
	}
	return strings.Join(parts, "; ")
}

// SubScore one risk factor with its reason
type SubScore struct {
	Score  int
	Reason string
}

// RiskOutcome lifecycle risk of an analysis-ready record
type RiskOutcome struct {
	Age          SubScore
	Brand        SubScore
	Category     SubScore
	Total        int
	Level        RiskLevel
	Rationale    string
	PriorityRank int // dense rank inside Level, set after the whole batch is scored
}

// Assessment derived working copy of a Record
type Assessment struct {
	Record             Record
	NormalizedBrand    string
	NormalizedCategory string
	Status             Classification
	PurchaseDate       *time.Time
	DateStatus         DateStatus
	AgeYears           *float64 // set iff DateStatus == DateValid
	Validity           ValidityOutcome

	Recovery  *Recovery // set when recovery was attempted
	Recovered bool      // merged into the enhanced valid set through recovery

	Risk *RiskOutcome
}

// EffectiveBrand returns the recovered brand for merged records, the normalized one otherwise
func (a Assessment) EffectiveBrand() string {
	if a.Recovered && a.Recovery != nil {
		return a.Recovery.Brand
	}
	return a.NormalizedBrand
}

// EffectiveCategory returns the recovered category for merged records, the normalized one otherwise
func (a Assessment) EffectiveCategory() string {
	if a.Recovered && a.Recovery != nil {
		return a.Recovery.Category
	}
	return a.NormalizedCategory
}
