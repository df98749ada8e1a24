package normalization

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldKind categorical field handled by the normalizer
type FieldKind int

const (
	FieldBrand FieldKind = iota
	FieldCategory
)

// FieldNormalizer canonicalizes brand and category values into the controlled vocabulary
type FieldNormalizer struct {
	brandAliases    map[string]string
	categoryAliases map[string]string
	title           cases.Caser
}

// NewFieldNormalizer creates a normalizer over the alias tables of rules
func NewFieldNormalizer(rules Rules) *FieldNormalizer {
	r := rules.Clone()
	return &FieldNormalizer{
		brandAliases:    r.BrandAliases,
		categoryAliases: r.CategoryAliases,
		title:           cases.Title(language.Und),
	}
}

// Normalize returns the display form of value ("" when absent)
func (n *FieldNormalizer) Normalize(value string, kind FieldKind) string {
	return n.Title(n.Key(value, kind))
}

// Key returns the lowercase matching form of value after alias replacement
func (n *FieldNormalizer) Key(value string, kind FieldKind) string {
	cleaned := cleanValue(value)
	if cleaned == "" {
		return ""
	}
	if canonical, ok := n.aliases(kind)[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// Title capitalizes each word of an already cleaned value
func (n *FieldNormalizer) Title(value string) string {
	if value == "" {
		return ""
	}
	return n.title.String(value)
}

func (n *FieldNormalizer) aliases(kind FieldKind) map[string]string {
	if kind == FieldCategory {
		return n.categoryAliases
	}
	return n.brandAliases
}

// cleanValue trims, lowercases and turns '-' and '_' into spaces
func cleanValue(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", " ", "_", " ").Replace(v)
	return strings.TrimSpace(v)
}

// ContainsAny reports whether text contains any of keywords, case-insensitively
func ContainsAny(text string, keywords []string) bool {
	t := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(t, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
