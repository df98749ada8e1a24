package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devicerisk/inventory"
)

func TestStatusClassifier_Classify(t *testing.T) {
	c := NewStatusClassifier(DefaultRules())

	tests := []struct {
		name      string
		raw       string
		wantClass inventory.StatusClass
		wantLabel string
	}{
		{"missing", "", inventory.StatusUnknown, "Unknown"},
		{"blank", "   ", inventory.StatusUnknown, "Unknown"},
		{"checked out", "Checked Out", inventory.StatusActive, "ACTIVE (Checked Out)"},
		{"available with padding", "  available ", inventory.StatusActive, "ACTIVE (available)"},
		{"under repair", "UNDER REPAIR", inventory.StatusActive, "ACTIVE (UNDER REPAIR)"},
		{"broken", "Broken", inventory.StatusInactive, "INACTIVE (Broken)"},
		{"lost missing", "Lost/Missing", inventory.StatusInactive, "INACTIVE (Lost/Missing)"},
		{"disposed", "Disposed", inventory.StatusInactive, "INACTIVE (Disposed)"},
		{"unknown text", "In Transit", inventory.StatusUnknown, "UNKNOWN (In Transit)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.raw)
			assert.Equal(t, tt.wantClass, got.Class)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestStatusClassifier_ActiveWinsTies(t *testing.T) {
	c := NewStatusClassifier(DefaultRules())

	got := c.Classify("Found - previously Lost")

	assert.Equal(t, inventory.StatusActive, got.Class)
	assert.Equal(t, "ACTIVE (Found - previously Lost)", got.Label)
	assert.True(t, got.Ambiguous)
}

func TestStatusClassifier_NotAmbiguous(t *testing.T) {
	c := NewStatusClassifier(DefaultRules())

	assert.False(t, c.Classify("Checked In").Ambiguous)
	assert.False(t, c.Classify("Sold").Ambiguous)
}
