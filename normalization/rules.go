package normalization

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// PatternEntry target value with the keywords that imply it. Entries are matched in order.
type PatternEntry struct {
	Value    string   `yaml:"value"`
	Keywords []string `yaml:"keywords"`
}

// Rules every alias table, keyword set and scoring table used by the pipeline.
// Components clone the value they are built with, so a Rules value can be shared freely.
type Rules struct {
	BrandAliases    map[string]string
	CategoryAliases map[string]string

	ActiveStatuses   []string
	InactiveStatuses []string

	// Source headers scanned by recovery, in priority order
	RecoveryFields   []string
	BrandPatterns    []PatternEntry
	CategoryPatterns []PatternEntry

	BrandTier1          []string
	BrandTier2          []string
	CriticalCategories  []string
	ImportantCategories []string
	StandardCategories  []string

	MinPurchaseYear int
}

// DefaultRules returns the built-in tables
func DefaultRules() Rules {
	return Rules{
		BrandAliases: map[string]string{
			"epsson":          "epson",
			"tripplite":       "tripp lite",
			"hewlett packard": "hp",
		},
		CategoryAliases: map[string]string{
			"defibulator": "defibrillator",
			"pc desktop":  "desktop",
			"pc laptop":   "laptop",
		},
		ActiveStatuses: []string{
			"available", "check out", "checked out", "check in", "checked in",
			"under repair", "found", "reserved",
		},
		InactiveStatuses: []string{
			"broken", "lost/missing", "lost", "missing", "donate", "donated",
			"dispose", "disposed", "sold",
		},
		RecoveryFields: []string{"Description", "Device Name", "Model", "OS", "CPU"},
		BrandPatterns: []PatternEntry{
			{Value: "apple", Keywords: []string{"apple", "ipad", "iphone", "macbook", "imac"}},
			{Value: "hp", Keywords: []string{"hp", "hewlett packard", "pavilion", "elitebook", "probook"}},
			{Value: "dell", Keywords: []string{"dell", "latitude", "optiplex", "inspiron", "precision"}},
			{Value: "lenovo", Keywords: []string{"lenovo", "thinkpad", "ideapad", "yoga"}},
			{Value: "microsoft", Keywords: []string{"microsoft", "surface", "xbox"}},
			{Value: "samsung", Keywords: []string{"samsung", "galaxy"}},
			{Value: "lg", Keywords: []string{"lg electronics", "lg"}},
			{Value: "canon", Keywords: []string{"canon", "pixma", "imageclass"}},
			{Value: "epson", Keywords: []string{"epson", "workforce", "expression"}},
			{Value: "cisco", Keywords: []string{"cisco", "catalyst", "meraki"}},
			{Value: "acer", Keywords: []string{"acer", "aspire", "predator"}},
			{Value: "asus", Keywords: []string{"asus", "zenbook", "vivobook"}},
			{Value: "logitech", Keywords: []string{"logitech", "mx master", "k400"}},
			{Value: "sony", Keywords: []string{"sony", "vaio", "playstation"}},
		},
		CategoryPatterns: []PatternEntry{
			{Value: "laptop", Keywords: []string{"laptop", "notebook", "macbook", "thinkpad", "elitebook", "latitude"}},
			{Value: "desktop", Keywords: []string{"desktop", "pc", "optiplex", "imac", "all-in-one"}},
			{Value: "tablet", Keywords: []string{"tablet", "ipad", "surface tablet"}},
			{Value: "monitor", Keywords: []string{"monitor", "display", "lcd", "led monitor"}},
			{Value: "printer", Keywords: []string{"printer", "pixma", "laserjet", "inkjet", "imageclass"}},
			{Value: "projector", Keywords: []string{"projector", "beamer"}},
			{Value: "phone ip", Keywords: []string{"ip phone", "voip", "desk phone"}},
			{Value: "phone cell", Keywords: []string{"cell phone", "mobile phone", "smartphone", "iphone", "galaxy"}},
			{Value: "server", Keywords: []string{"server", "rack server", "blade server"}},
			{Value: "network switch", Keywords: []string{"switch", "network switch", "ethernet switch"}},
			{Value: "network router", Keywords: []string{"router", "wireless router"}},
			{Value: "webcam", Keywords: []string{"webcam", "camera", "web camera"}},
			{Value: "speakers", Keywords: []string{"speakers", "speaker system", "audio"}},
			{Value: "ups", Keywords: []string{"ups", "uninterruptible power", "battery backup"}},
		},
		BrandTier1: []string{
			"hp", "dell", "lenovo", "apple", "microsoft", "cisco", "canon",
			"fujitsu", "lg", "samsung", "sony", "xerox", "epson",
		},
		BrandTier2: []string{
			"acer", "asus", "logitech", "netgear", "linksys", "viewsonic",
			"optoma", "western digital", "wd", "seagate", "nikon", "olympus",
		},
		CriticalCategories: []string{
			"server", "network firewall", "network router", "network switch",
			"network wap", "defibrillator", "ups",
		},
		ImportantCategories: []string{
			"desktop", "laptop", "printer", "monitor", "projector", "phone ip", "timeclock",
		},
		StandardCategories: []string{
			"tablet", "phone cell", "phone bluetooth", "webcam", "speakers",
			"camera", "camcorder", "charger", "computer accessory",
			"phone accessory", "docking station",
		},
		MinPurchaseYear: 2010,
	}
}

// Clone returns a deep copy
func (r Rules) Clone() Rules {
	c := r
	c.BrandAliases = maps.Clone(r.BrandAliases)
	c.CategoryAliases = maps.Clone(r.CategoryAliases)
	c.ActiveStatuses = slices.Clone(r.ActiveStatuses)
	c.InactiveStatuses = slices.Clone(r.InactiveStatuses)
	c.RecoveryFields = slices.Clone(r.RecoveryFields)
	c.BrandPatterns = clonePatterns(r.BrandPatterns)
	c.CategoryPatterns = clonePatterns(r.CategoryPatterns)
	c.BrandTier1 = slices.Clone(r.BrandTier1)
	c.BrandTier2 = slices.Clone(r.BrandTier2)
	c.CriticalCategories = slices.Clone(r.CriticalCategories)
	c.ImportantCategories = slices.Clone(r.ImportantCategories)
	c.StandardCategories = slices.Clone(r.StandardCategories)
	return c
}

func clonePatterns(in []PatternEntry) []PatternEntry {
	if in == nil {
		return nil
	}
	out := make([]PatternEntry, len(in))
	for i, p := range in {
		out[i] = PatternEntry{Value: p.Value, Keywords: slices.Clone(p.Keywords)}
	}
	return out
}

// Validate checks that the tables can drive the pipeline
func (r Rules) Validate() error {
	var problems []string

	if r.MinPurchaseYear < 1900 || r.MinPurchaseYear > 9999 {
		problems = append(problems, fmt.Sprintf("min purchase year out of range: %d", r.MinPurchaseYear))
	}
	if len(r.ActiveStatuses) == 0 {
		problems = append(problems, "active status keywords are required")
	}
	if len(r.RecoveryFields) == 0 {
		problems = append(problems, "recovery fields are required")
	}
	for _, f := range r.RecoveryFields {
		if strings.TrimSpace(f) == "" {
			problems = append(problems, "recovery field names cannot be empty")
			break
		}
	}
	for _, table := range []struct {
		name    string
		entries []PatternEntry
	}{
		{"brand_patterns", r.BrandPatterns},
		{"category_patterns", r.CategoryPatterns},
	} {
		for i, p := range table.entries {
			if strings.TrimSpace(p.Value) == "" {
				problems = append(problems, fmt.Sprintf("%s[%d]: value is required", table.name, i))
			}
			if len(p.Keywords) == 0 {
				problems = append(problems, fmt.Sprintf("%s[%d]: at least one keyword is required", table.name, i))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid rules: %s", strings.Join(problems, "; "))
	}
	return nil
}

// rulesFile YAML layout. Every table present in the file replaces the built-in one.
type rulesFile struct {
	BrandAliases    map[string]string `yaml:"brand_aliases"`
	CategoryAliases map[string]string `yaml:"category_aliases"`
	Status          struct {
		Active   []string `yaml:"active"`
		Inactive []string `yaml:"inactive"`
	} `yaml:"status"`
	Recovery struct {
		Fields           []string       `yaml:"fields"`
		BrandPatterns    []PatternEntry `yaml:"brand_patterns"`
		CategoryPatterns []PatternEntry `yaml:"category_patterns"`
	} `yaml:"recovery"`
	Scoring struct {
		BrandTier1          []string `yaml:"brand_tier1"`
		BrandTier2          []string `yaml:"brand_tier2"`
		CriticalCategories  []string `yaml:"critical_categories"`
		ImportantCategories []string `yaml:"important_categories"`
		StandardCategories  []string `yaml:"standard_categories"`
	} `yaml:"scoring"`
	MinPurchaseYear int `yaml:"min_purchase_year"`
}

// ParseRules applies a YAML override document on top of DefaultRules
func ParseRules(data []byte) (Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	r := DefaultRules()
	if f.BrandAliases != nil {
		r.BrandAliases = lowerMap(f.BrandAliases)
	}
	if f.CategoryAliases != nil {
		r.CategoryAliases = lowerMap(f.CategoryAliases)
	}
	if f.Status.Active != nil {
		r.ActiveStatuses = lowerAll(f.Status.Active)
	}
	if f.Status.Inactive != nil {
		r.InactiveStatuses = lowerAll(f.Status.Inactive)
	}
	if f.Recovery.Fields != nil {
		r.RecoveryFields = f.Recovery.Fields
	}
	if f.Recovery.BrandPatterns != nil {
		r.BrandPatterns = lowerPatterns(f.Recovery.BrandPatterns)
	}
	if f.Recovery.CategoryPatterns != nil {
		r.CategoryPatterns = lowerPatterns(f.Recovery.CategoryPatterns)
	}
	if f.Scoring.BrandTier1 != nil {
		r.BrandTier1 = lowerAll(f.Scoring.BrandTier1)
	}
	if f.Scoring.BrandTier2 != nil {
		r.BrandTier2 = lowerAll(f.Scoring.BrandTier2)
	}
	if f.Scoring.CriticalCategories != nil {
		r.CriticalCategories = lowerAll(f.Scoring.CriticalCategories)
	}
	if f.Scoring.ImportantCategories != nil {
		r.ImportantCategories = lowerAll(f.Scoring.ImportantCategories)
	}
	if f.Scoring.StandardCategories != nil {
		r.StandardCategories = lowerAll(f.Scoring.StandardCategories)
	}
	if f.MinPurchaseYear != 0 {
		r.MinPurchaseYear = f.MinPurchaseYear
	}

	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// LoadRulesFile reads a YAML override file; an empty path yields DefaultRules
func LoadRulesFile(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[cleanValue(k)] = cleanValue(v)
	}
	return out
}

func lowerPatterns(in []PatternEntry) []PatternEntry {
	out := make([]PatternEntry, 0, len(in))
	for _, p := range in {
		out = append(out, PatternEntry{
			Value:    cleanValue(p.Value),
			Keywords: lowerAll(p.Keywords),
		})
	}
	return out
}
