package enrichment

import (
	"strings"

	"devicerisk/inventory"
	"devicerisk/normalization"
)

// Recoverer infers missing brand and category values from free-text columns
type Recoverer struct {
	fields           []string
	brandPatterns    []normalization.PatternEntry
	categoryPatterns []normalization.PatternEntry
	normalizer       *normalization.FieldNormalizer
	cache            *MatchCache
}

// RecovererOption configures a Recoverer
type RecovererOption func(*Recoverer)

// WithMatchCache replaces the default match cache
func WithMatchCache(cache *MatchCache) RecovererOption {
	return func(r *Recoverer) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// NewRecoverer creates a recoverer over the recovery tables of rules
func NewRecoverer(rules normalization.Rules, opts ...RecovererOption) *Recoverer {
	rc := rules.Clone()
	r := &Recoverer{
		fields:           rc.RecoveryFields,
		brandPatterns:    rc.BrandPatterns,
		categoryPatterns: rc.CategoryPatterns,
		normalizer:       normalization.NewFieldNormalizer(rc),
		cache:            NewMatchCache(true),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recover fills brand and category when they are empty. Present values are
// returned unchanged; each dimension is handled independently.
func (r *Recoverer) Recover(record inventory.Record, brand, category string) inventory.Recovery {
	out := inventory.Recovery{Brand: brand, Category: category}

	if strings.TrimSpace(brand) == "" {
		out.Brand = ""
		if value, source := r.scan(record, "brand", r.brandPatterns); value != "" {
			out.Brand = r.normalizer.Normalize(value, normalization.FieldBrand)
			out.BrandSource = source
		}
	}
	if strings.TrimSpace(category) == "" {
		out.Category = ""
		if value, source := r.scan(record, "category", r.categoryPatterns); value != "" {
			out.Category = r.normalizer.Normalize(value, normalization.FieldCategory)
			out.CategorySource = source
		}
	}

	return out
}

// CacheStats exposes the match cache statistics
func (r *Recoverer) CacheStats() CacheStats {
	return r.cache.GetStats()
}

// scan walks the recovery fields in order and returns the first pattern hit with its field
func (r *Recoverer) scan(record inventory.Record, kind string, patterns []normalization.PatternEntry) (string, string) {
	for _, field := range r.fields {
		text := strings.TrimSpace(record.Get(field))
		if text == "" {
			continue
		}
		if value := r.match(kind, text, patterns); value != "" {
			return value, field
		}
	}
	return "", ""
}

func (r *Recoverer) match(kind, text string, patterns []normalization.PatternEntry) string {
	lower := strings.ToLower(text)
	key := kind + "\x00" + lower
	if value, ok := r.cache.Get(key); ok {
		return value
	}

	value := ""
	for _, p := range patterns {
		if normalization.ContainsAny(lower, p.Keywords) {
			value = p.Value
			break
		}
	}
	r.cache.Set(key, value)
	return value
}
