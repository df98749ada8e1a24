package risk

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"devicerisk/inventory"
	"devicerisk/normalization"
)

func age(v float64) *float64 { return &v }

func TestAgeScore(t *testing.T) {
	tests := []struct {
		name   string
		age    *float64
		score  int
		reason string
	}{
		{"unknown", nil, 0, "Unknown Age"},
		{"new", age(0), 5, "Low Risk (<3 years old)"},
		{"just under three", age(2.9), 5, "Low Risk (<3 years old)"},
		{"three", age(3.0), 25, "Medium Risk (3-5 years old)"},
		{"four point nine", age(4.9), 25, "Medium Risk (3-5 years old)"},
		{"five", age(5.0), 50, "High Risk (5+ years old)"},
		{"old", age(12.3), 50, "High Risk (5+ years old)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeScore(tt.age)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestScorer_BrandScore(t *testing.T) {
	s := NewScorer(normalization.DefaultRules())

	tests := []struct {
		brand string
		score int
	}{
		{"", 30},
		{"Dell", 5},
		{"Hp", 5},
		{"Epson", 5},
		{"Acer", 15},
		{"Western Digital", 15},
		{"Acme", 25},
	}

	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			assert.Equal(t, tt.score, s.BrandScore(tt.brand).Score)
		})
	}
}

func TestScorer_CategoryScore(t *testing.T) {
	s := NewScorer(normalization.DefaultRules())

	tests := []struct {
		category string
		score    int
		reason   string
	}{
		{"", 20, "High Risk (Unknown Category)"},
		{"Server", 20, "High Risk (Critical Infrastructure)"},
		{"Network Switch", 20, "High Risk (Critical Infrastructure)"},
		{"Laptop", 10, "Medium Risk (Business Essential)"},
		{"Phone Ip", 10, "Medium Risk (Business Essential)"},
		{"Docking Station", 3, "Low Risk (Standard Equipment)"},
		{"Kiosk", 15, "Medium Risk (Unclassified Category)"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := s.CategoryScore(tt.category)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestScorer_RecoveredLaptop(t *testing.T) {
	s := NewScorer(normalization.DefaultRules())

	a := inventory.Assessment{
		NormalizedCategory: "Laptop",
		AgeYears:           age(3.0),
		Recovery:           &inventory.Recovery{Brand: "Dell", Category: "Laptop", BrandSource: "Description"},
		Recovered:          true,
	}

	got := s.Score(a)
	assert.Equal(t, 25, got.Age.Score)
	assert.Equal(t, 5, got.Brand.Score)
	assert.Equal(t, 10, got.Category.Score)
	assert.Equal(t, 40, got.Total)
	assert.Equal(t, inventory.RiskMedium, got.Level)
	assert.Equal(t,
		"Age: Medium Risk (3-5 years old); Brand: Low Risk (Premium Brand); Category: Medium Risk (Business Essential)",
		got.Rationale)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, inventory.RiskHigh, LevelFor(100))
	assert.Equal(t, inventory.RiskHigh, LevelFor(70))
	assert.Equal(t, inventory.RiskMedium, LevelFor(69))
	assert.Equal(t, inventory.RiskMedium, LevelFor(35))
	assert.Equal(t, inventory.RiskLow, LevelFor(34))
	assert.Equal(t, inventory.RiskLow, LevelFor(0))
}

func TestScorer_Bounds(t *testing.T) {
	faker := gofakeit.New(7)
	s := NewScorer(normalization.DefaultRules())

	brands := []string{"", "Dell", "Acer", "Acme", "Lg", "Wd"}
	categories := []string{"", "Server", "Laptop", "Tablet", "Kiosk"}

	for i := 0; i < 500; i++ {
		var a *float64
		if faker.Bool() {
			a = age(faker.Float64Range(0, 20))
		}
		got := s.ScoreValues(faker.RandomString(brands), faker.RandomString(categories), a)

		assert.GreaterOrEqual(t, got.Total, 0)
		assert.LessOrEqual(t, got.Total, 100)
		assert.Equal(t, got.Age.Score+got.Brand.Score+got.Category.Score, got.Total)
		assert.Equal(t, LevelFor(got.Total), got.Level)
	}
}
