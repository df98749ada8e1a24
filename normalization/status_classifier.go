package normalization

import (
	"strings"

	"devicerisk/inventory"
)

// StatusClassifier maps raw status text onto Active, Inactive or Unknown
type StatusClassifier struct {
	active   []string
	inactive []string
}

// NewStatusClassifier creates a classifier over the status keyword sets of rules
func NewStatusClassifier(rules Rules) *StatusClassifier {
	r := rules.Clone()
	return &StatusClassifier{
		active:   lowerAll(r.ActiveStatuses),
		inactive: lowerAll(r.InactiveStatuses),
	}
}

// Classify matches raw against the active set first, then the inactive set
func (c *StatusClassifier) Classify(raw string) inventory.Classification {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return inventory.Classification{Class: inventory.StatusUnknown, Label: "Unknown"}
	}

	lower := strings.ToLower(trimmed)
	inactiveHit := containsKeyword(lower, c.inactive)

	if containsKeyword(lower, c.active) {
		return inventory.Classification{
			Class:     inventory.StatusActive,
			Label:     label(inventory.StatusActive, trimmed),
			Ambiguous: inactiveHit,
		}
	}
	if inactiveHit {
		return inventory.Classification{
			Class: inventory.StatusInactive,
			Label: label(inventory.StatusInactive, trimmed),
		}
	}
	return inventory.Classification{
		Class: inventory.StatusUnknown,
		Label: label(inventory.StatusUnknown, trimmed),
	}
}

func label(class inventory.StatusClass, raw string) string {
	return class.String() + " (" + raw + ")"
}

// containsKeyword expects text and keywords already lowercased
func containsKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
