package pipeline

import (
	"slices"
	"strconv"
	"time"

	"devicerisk/inventory"
	"devicerisk/quality"
	"devicerisk/report"
	"devicerisk/risk"
)

// Partition names in output order
const (
	PartitionOriginal             = "Original Data"
	PartitionBrandsRecognized     = "All Brands Recognized"
	PartitionBrandsUnrecognized   = "Brands Unrecognized"
	PartitionCategoriesRecognized = "All Categories Recognized"
	PartitionCategoriesUnknown    = "Categories Unrecognized"
	PartitionActive               = "Available Active Devices"
	PartitionInactive             = "Unavailable Inactive Devices"
	PartitionUnknownStatus        = "Unknown Status Devices"
	PartitionValidDates           = "Valid Purchase Dates"
	PartitionInvalidDates         = "Invalid Purchase Dates"
	PartitionFullyValid           = "Fully Valid Data"
	PartitionAllInvalid           = "All Invalid Data"
	PartitionEnhancedValid        = "Enhanced Fully Valid Data"
	PartitionRemainingInvalid     = "Remaining Invalid Data"
	PartitionAnalysisReady        = "Analysis Ready Data"
	PartitionQualitySummary       = "Data Quality Summary"
	PartitionRecoverySummary      = "Recovery Summary"
	PartitionCompleteRisk         = "Complete Risk Analysis"
	PartitionRiskDashboard        = "Risk Summary Dashboard"
	PartitionBrandRisk            = "Brand Risk Analysis"
	PartitionCategoryRisk         = "Category Risk Analysis"
	PartitionAgeDistribution      = "Age Distribution Analysis"
)

// RiskPartitionName returns the per-level device partition name, e.g. "HIGH RISK Devices"
func RiskPartitionName(level inventory.RiskLevel) string {
	return level.String() + " Devices"
}

// Derived column headers
const (
	ColumnNormalizedBrand    = "Normalized Brand"
	ColumnNormalizedCategory = "Normalized Category"
	ColumnStatusNormalized   = "Status Normalized"
	ColumnDateParsed         = "Purchase Date Parsed"
	ColumnDateStatus         = "Purchase Date Status"
	ColumnAgeYears           = "Device Age Years"
	ColumnIssuesFound        = "Issues Found"
	ColumnRecoveryNotes      = "Recovery Notes"
)

var derivedColumns = []string{
	ColumnNormalizedBrand,
	ColumnNormalizedCategory,
	ColumnStatusNormalized,
	ColumnDateParsed,
	ColumnDateStatus,
	ColumnAgeYears,
}

var riskColumns = []string{
	"Age Risk Score", "Age Risk Reason",
	"Brand Risk Score", "Brand Risk Reason",
	"Category Risk Score", "Category Risk Reason",
	"Total Risk Score", "Risk Level", "Priority Rank", "Risk Rationale",
}

const dateLayout = "2006-01-02"

type builder struct {
	table *inventory.Table
	res   *Result
	rep   *report.Report
}

func buildReport(table *inventory.Table, res *Result, generatedAt time.Time) *report.Report {
	b := &builder{
		table: table,
		res:   res,
		rep: &report.Report{
			RunID:       res.RunID,
			GeneratedAt: generatedAt,
			Source:      table.Source,
		},
	}

	b.original()

	all := b.allIndexes()
	b.records(PartitionBrandsRecognized, report.ThemePositive, false, b.filter(all, func(a inventory.Assessment) bool {
		return a.NormalizedBrand != ""
	}))
	b.records(PartitionBrandsUnrecognized, report.ThemeNegative, true, b.filter(all, func(a inventory.Assessment) bool {
		return a.NormalizedBrand == ""
	}))
	b.records(PartitionCategoriesRecognized, report.ThemePositive, false, b.filter(all, func(a inventory.Assessment) bool {
		return a.NormalizedCategory != ""
	}))
	b.records(PartitionCategoriesUnknown, report.ThemeNegative, true, b.filter(all, func(a inventory.Assessment) bool {
		return a.NormalizedCategory == ""
	}))
	b.records(PartitionActive, report.ThemePositive, false, b.byClass(all, inventory.StatusActive))
	b.records(PartitionInactive, report.ThemeNegative, true, b.byClass(all, inventory.StatusInactive))
	b.records(PartitionUnknownStatus, report.ThemeCaution, true, b.byClass(all, inventory.StatusUnknown))
	b.records(PartitionValidDates, report.ThemePositive, false, b.filter(all, func(a inventory.Assessment) bool {
		return a.DateStatus == inventory.DateValid
	}))
	b.records(PartitionInvalidDates, report.ThemeNegative, true, b.filter(all, func(a inventory.Assessment) bool {
		return a.DateStatus != inventory.DateValid
	}))
	b.records(PartitionFullyValid, report.ThemePositive, false, res.FullyValid)
	b.issues(PartitionAllInvalid, res.Invalid)
	b.enhanced()
	b.issues(PartitionRemainingInvalid, res.RemainingInvalid)
	b.records(PartitionAnalysisReady, report.ThemeAnalysis, false, res.AnalysisReady)

	b.qualitySummary()
	b.recoverySummary()

	b.completeRisk()
	b.riskDashboard()
	b.groupRisk(PartitionBrandRisk, ColumnNormalizedBrand, risk.ByBrand(res.Scored))
	b.groupRisk(PartitionCategoryRisk, ColumnNormalizedCategory, risk.ByCategory(res.Scored))
	b.ageDistribution()
	b.riskLevels()

	return b.rep
}

func (b *builder) allIndexes() []int {
	out := make([]int, len(b.res.Assessments))
	for i := range out {
		out[i] = i
	}
	return out
}

func (b *builder) filter(idx []int, keep func(inventory.Assessment) bool) []int {
	var out []int
	for _, i := range idx {
		if keep(b.res.Assessments[i]) {
			out = append(out, i)
		}
	}
	return out
}

func (b *builder) byClass(idx []int, class inventory.StatusClass) []int {
	return b.filter(idx, func(a inventory.Assessment) bool {
		return a.Status.Class == class
	})
}

func (b *builder) original() {
	p := &report.Partition{
		Name:    PartitionOriginal,
		Theme:   report.ThemeNeutral,
		Columns: slices.Clone(b.table.Headers),
	}
	for _, rec := range b.table.Records {
		p.Rows = append(p.Rows, b.sourceCells(rec))
	}
	b.rep.Add(p)
}

func (b *builder) records(name string, theme report.Theme, optional bool, idx []int) {
	p := &report.Partition{
		Name:     name,
		Theme:    theme,
		Columns:  b.columns(),
		Optional: optional,
	}
	for _, i := range idx {
		p.Rows = append(p.Rows, b.cells(b.res.Assessments[i]))
	}
	b.rep.Add(p)
}

// issues writes a negative partition with pre-recovery values and the issue list
func (b *builder) issues(name string, idx []int) {
	p := &report.Partition{
		Name:     name,
		Theme:    report.ThemeNegative,
		Columns:  append(b.columns(), ColumnIssuesFound),
		Optional: true,
	}
	for _, i := range idx {
		a := b.res.Assessments[i]
		a.Recovered = false
		p.Rows = append(p.Rows, append(b.cells(a), a.Validity.IssuesText()))
	}
	b.rep.Add(p)
}

func (b *builder) enhanced() {
	p := &report.Partition{
		Name:    PartitionEnhancedValid,
		Theme:   report.ThemePositive,
		Columns: append(b.columns(), ColumnRecoveryNotes),
	}
	for _, i := range b.res.EnhancedValid {
		a := b.res.Assessments[i]
		notes := ""
		if a.Recovered {
			notes = a.Recovery.Notes()
		}
		p.Rows = append(p.Rows, append(b.cells(a), notes))
	}
	b.rep.Add(p)
}

func (b *builder) qualitySummary() {
	st := b.res.Stats
	rows := []quality.SummaryRow{
		quality.NewSummaryRow("Brands", st.BrandRecognized, st.Total),
		quality.NewSummaryRow("Categories", st.CategoryRecognized, st.Total),
		quality.NewSummaryRow("Purchase Dates", st.DateValid, st.Total),
		quality.NewSummaryRow("Device Status", st.Active, st.Total),
		quality.NewSummaryRow("Fully Valid Data", st.FullyValid, st.Total),
		quality.NewSummaryRow("Enhanced Fully Valid Data", st.EnhancedValid, st.Total),
		quality.NewSummaryRow("Analysis Ready Data", st.AnalysisReady, st.Total),
	}

	p := &report.Partition{
		Name:  PartitionQualitySummary,
		Theme: report.ThemeSummary,
		Columns: []string{
			"Data Dimension", "Valid Count", "Invalid Count", "Total Devices",
			"Valid Percentage", "Invalid Percentage",
		},
	}
	for _, r := range rows {
		p.Rows = append(p.Rows, []string{
			r.Dimension,
			strconv.Itoa(r.Valid),
			strconv.Itoa(r.Invalid),
			strconv.Itoa(r.Total),
			percent(r.ValidPercentage()),
			percent(r.InvalidPercentage()),
		})
	}
	b.rep.Add(p)
}

func (b *builder) recoverySummary() {
	st := b.res.Stats
	p := &report.Partition{
		Name:     PartitionRecoverySummary,
		Theme:    report.ThemeSummary,
		Columns:  []string{"Recovery Outcome", "Device Count", "Percentage"},
		Optional: true,
	}
	if st.RecoveryAttempted > 0 {
		for _, r := range []struct {
			label string
			count int
		}{
			{"Brand and Category Recovered", st.RecoveryOutcomes["both"]},
			{"Brand Recovered", st.RecoveryOutcomes["brand"]},
			{"Category Recovered", st.RecoveryOutcomes["category"]},
			{"Nothing Recovered", st.RecoveryOutcomes["none"]},
			{"Corrected", st.Corrected},
			{"Merged Into Valid Data", st.Merged},
		} {
			p.Rows = append(p.Rows, []string{
				r.label,
				strconv.Itoa(r.count),
				percent(quality.Percentage(r.count, st.RecoveryAttempted)),
			})
		}
	}
	b.rep.Add(p)
}

func (b *builder) completeRisk() {
	p := &report.Partition{
		Name:     PartitionCompleteRisk,
		Theme:    report.ThemeAnalysis,
		Columns:  append(b.columns(), riskColumns...),
		Optional: true,
	}
	for _, a := range b.res.Scored {
		p.Rows = append(p.Rows, b.riskCells(a))
	}
	b.rep.Add(p)
}

func (b *builder) riskDashboard() {
	p := &report.Partition{
		Name:     PartitionRiskDashboard,
		Theme:    report.ThemeSummary,
		Columns:  []string{"Risk Level", "Device Count", "Percentage", "Avg Risk Score", "Replacement Priority"},
		Optional: true,
	}
	if len(b.res.Scored) > 0 {
		for _, row := range risk.Dashboard(b.res.Scored) {
			avg := "N/A"
			if row.AvgScore != nil {
				avg = decimal(*row.AvgScore)
			}
			p.Rows = append(p.Rows, []string{
				row.Label, strconv.Itoa(row.Count), percent(row.Percentage), avg, row.Replacement,
			})
		}
	}
	b.rep.Add(p)
}

func (b *builder) groupRisk(name, keyColumn string, groups []risk.GroupRollup) {
	p := &report.Partition{
		Name:  name,
		Theme: report.ThemeSummary,
		Columns: []string{
			keyColumn, "Device Count", "Avg Risk Score", "Max Risk Score", "Avg Age Years", "High Risk Count",
		},
		Optional: true,
	}
	for _, g := range groups {
		p.Rows = append(p.Rows, []string{
			g.Key,
			strconv.Itoa(g.DeviceCount),
			decimal(g.AvgScore),
			strconv.Itoa(g.MaxScore),
			decimal(g.AvgAge),
			strconv.Itoa(g.HighRiskCount),
		})
	}
	b.rep.Add(p)
}

func (b *builder) ageDistribution() {
	p := &report.Partition{
		Name:     PartitionAgeDistribution,
		Theme:    report.ThemeSummary,
		Columns:  []string{"Age Range", "Device Count", "Percentage", "Risk Assessment"},
		Optional: true,
	}
	if len(b.res.Scored) > 0 {
		for _, bucket := range risk.AgeDistribution(b.res.Scored) {
			p.Rows = append(p.Rows, []string{
				bucket.Range, strconv.Itoa(bucket.Count), percent(bucket.Percentage), bucket.Assessment,
			})
		}
	}
	b.rep.Add(p)
}

var levelThemes = map[inventory.RiskLevel]report.Theme{
	inventory.RiskHigh:   report.ThemeNegative,
	inventory.RiskMedium: report.ThemeCaution,
	inventory.RiskLow:    report.ThemePositive,
}

func (b *builder) riskLevels() {
	for _, level := range inventory.RiskLevels {
		p := &report.Partition{
			Name:     RiskPartitionName(level),
			Theme:    levelThemes[level],
			Columns:  append(b.columns(), riskColumns...),
			Optional: true,
		}
		for _, a := range b.res.Scored {
			if a.Risk.Level == level {
				p.Rows = append(p.Rows, b.riskCells(a))
			}
		}
		b.rep.Add(p)
	}
}

// columns returns the source headers followed by the derived columns
func (b *builder) columns() []string {
	out := make([]string, 0, len(b.table.Headers)+len(derivedColumns))
	out = append(out, b.table.Headers...)
	return append(out, derivedColumns...)
}

func (b *builder) sourceCells(rec inventory.Record) []string {
	out := make([]string, len(b.table.Headers))
	for i, h := range b.table.Headers {
		out[i] = rec.Get(h)
	}
	return out
}

// cells renders source values plus derived values. Merged records show their recovered brand and category.
func (b *builder) cells(a inventory.Assessment) []string {
	row := b.sourceCells(a.Record)

	parsed, age := "", ""
	if a.PurchaseDate != nil {
		parsed = a.PurchaseDate.Format(dateLayout)
	}
	if a.AgeYears != nil {
		age = decimal(*a.AgeYears)
	}
	return append(row,
		a.EffectiveBrand(),
		a.EffectiveCategory(),
		a.Status.Label,
		parsed,
		a.DateStatus.String(),
		age,
	)
}

func (b *builder) riskCells(a inventory.Assessment) []string {
	r := a.Risk
	return append(b.cells(a),
		strconv.Itoa(r.Age.Score), r.Age.Reason,
		strconv.Itoa(r.Brand.Score), r.Brand.Reason,
		strconv.Itoa(r.Category.Score), r.Category.Reason,
		strconv.Itoa(r.Total), r.Level.String(), strconv.Itoa(r.PriorityRank), r.Rationale,
	)
}

func decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func percent(v float64) string {
	return decimal(v) + "%"
}
