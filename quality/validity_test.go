package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devicerisk/inventory"
)

var (
	active   = inventory.Classification{Class: inventory.StatusActive, Label: "ACTIVE (Available)"}
	inactive = inventory.Classification{Class: inventory.StatusInactive, Label: "INACTIVE (Broken)"}
	unknown  = inventory.Classification{Class: inventory.StatusUnknown, Label: "Unknown"}
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name          string
		brand         string
		category      string
		date          inventory.DateStatus
		status        inventory.Classification
		fullyValid    bool
		analysisReady bool
		issues        []string
	}{
		{
			name: "everything valid", brand: "Dell", category: "Laptop",
			date: inventory.DateValid, status: active,
			fullyValid: true, analysisReady: true,
		},
		{
			name: "fully valid but inactive", brand: "Dell", category: "Laptop",
			date: inventory.DateValid, status: inactive,
			fullyValid: true, analysisReady: false,
			issues: []string{"Inactive Status (INACTIVE (Broken))"},
		},
		{
			name: "missing brand", brand: "", category: "Laptop",
			date: inventory.DateValid, status: active,
			issues: []string{"Missing Brand"},
		},
		{
			name: "all dimensions fail", brand: "", category: "",
			date: inventory.DateTooOld, status: unknown,
			issues: []string{
				"Missing Brand",
				"Missing Category",
				"Invalid Purchase Date (Too Old)",
				"Inactive Status (Unknown)",
			},
		},
		{
			name: "bad date only", brand: "Hp", category: "Printer",
			date: inventory.DateInvalidFormat, status: active,
			issues: []string{"Invalid Purchase Date (Invalid Format)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.brand, tt.category, tt.date, tt.status)
			assert.Equal(t, tt.fullyValid, got.FullyValid)
			assert.Equal(t, tt.analysisReady, got.AnalysisReady)
			assert.Equal(t, tt.issues, got.Issues)
		})
	}
}

func TestAssess_FullyValidPredicate(t *testing.T) {
	dates := []inventory.DateStatus{
		inventory.DateValid, inventory.DateMissing, inventory.DateFuture,
		inventory.DateTooOld, inventory.DateInvalidFormat,
	}
	for _, brand := range []string{"", "Dell"} {
		for _, category := range []string{"", "Laptop"} {
			for _, date := range dates {
				for _, status := range []inventory.Classification{active, inactive, unknown} {
					got := Assess(brand, category, date, status)
					want := brand != "" && category != "" && date == inventory.DateValid
					assert.Equal(t, want, got.FullyValid)
					assert.Equal(t, want && status.Class == inventory.StatusActive, got.AnalysisReady)
					assert.Equal(t, got.AnalysisReady, len(got.Issues) == 0)
				}
			}
		}
	}
}

func TestIssuesText(t *testing.T) {
	got := Assess("", "", inventory.DateMissing, active)
	assert.Equal(t, "Missing Brand | Missing Category | Invalid Purchase Date (Missing)", got.IssuesText())
}

func TestAssessRecord(t *testing.T) {
	a := &inventory.Assessment{
		NormalizedBrand: "Dell",
		DateStatus:      inventory.DateValid,
		Status:          active,
	}

	got := AssessRecord(a)
	assert.False(t, got.FullyValid)
	assert.Equal(t, []string{"Missing Category"}, a.Validity.Issues)
}
