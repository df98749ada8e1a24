package report

import (
	"time"
)

// Theme semantic style hint of a partition. The renderer picks the colors.
type Theme string

const (
	ThemePositive Theme = "positive"
	ThemeNeutral  Theme = "neutral"
	ThemeNegative Theme = "negative"
	ThemeCaution  Theme = "caution"
	ThemeSummary  Theme = "summary"
	ThemeAnalysis Theme = "analysis"
)

// Themes all known themes
var Themes = []Theme{ThemePositive, ThemeNeutral, ThemeNegative, ThemeCaution, ThemeSummary, ThemeAnalysis}

// Partition one named output table
type Partition struct {
	Name     string     `json:"name"`
	Theme    Theme      `json:"theme"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Optional bool       `json:"-"` // skipped by Visible when it has no rows
}

// Len returns the number of data rows
func (p *Partition) Len() int {
	return len(p.Rows)
}

// Report all partitions produced by one run, in output order
type Report struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Source      string       `json:"source"`
	Partitions  []*Partition `json:"partitions"`
}

// Add appends a partition
func (r *Report) Add(p *Partition) {
	r.Partitions = append(r.Partitions, p)
}

// Lookup finds a partition by name
func (r *Report) Lookup(name string) (*Partition, bool) {
	for _, p := range r.Partitions {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Visible returns the partitions to persist: empty optional partitions are dropped
func (r *Report) Visible() []*Partition {
	out := make([]*Partition, 0, len(r.Partitions))
	for _, p := range r.Partitions {
		if p.Optional && len(p.Rows) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}
