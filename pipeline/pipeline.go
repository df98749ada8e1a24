package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"devicerisk/apperrors"
	"devicerisk/enrichment"
	"devicerisk/internal/logging"
	"devicerisk/inventory"
	"devicerisk/normalization"
	"devicerisk/quality"
	"devicerisk/report"
	"devicerisk/risk"
)

// ErrNilTable is returned by Run when no table is given
var ErrNilTable = errors.New("inventory table is nil")

// Option configures a Pipeline
type Option func(*Pipeline)

// WithClock fixes the reference time used for date checks and ages
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithLocation sets the zone purchase dates are parsed in
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) {
		p.loc = loc
	}
}

// WithLogger sets the logger for stage events
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRunID fixes the run id instead of generating one
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		p.newRunID = func() string { return id }
	}
}

// Pipeline the single-pass assessment of an inventory table
type Pipeline struct {
	rules      normalization.Rules
	normalizer *normalization.FieldNormalizer
	classifier *normalization.StatusClassifier
	validator  *quality.DateValidator
	recoverer  *enrichment.Recoverer
	scorer     *risk.Scorer

	now      func() time.Time
	loc      *time.Location
	logger   *slog.Logger
	newRunID func() string
}

// New builds every component from one rules value
func New(rules normalization.Rules, opts ...Option) (*Pipeline, error) {
	if err := rules.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid rules", err)
	}

	p := &Pipeline{
		rules:    rules.Clone(),
		now:      time.Now,
		loc:      time.Local,
		logger:   logging.Discard(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.normalizer = normalization.NewFieldNormalizer(p.rules)
	p.classifier = normalization.NewStatusClassifier(p.rules)
	p.validator = quality.NewDateValidator(p.rules.MinPurchaseYear,
		quality.WithClock(p.now),
		quality.WithLocation(p.loc),
	)
	p.recoverer = enrichment.NewRecoverer(p.rules)
	p.scorer = risk.NewScorer(p.rules)

	return p, nil
}

// Stats counts gathered during a run
type Stats struct {
	Total              int
	BrandRecognized    int
	CategoryRecognized int
	Active             int
	Inactive           int
	UnknownStatus      int
	Ambiguous          int
	DateValid          int
	FullyValid         int
	Invalid            int

	RecoveryAttempted int
	RecoveryOutcomes  map[string]int // both, brand, category, none
	Corrected         int
	Merged            int

	EnhancedValid    int
	RemainingInvalid int
	AnalysisReady    int

	RiskCounts map[inventory.RiskLevel]int
	Duration   time.Duration
}

// Result everything one run produced
type Result struct {
	RunID string

	// One assessment per input record, in input order
	Assessments []inventory.Assessment

	// Index sets into Assessments
	FullyValid       []int
	Invalid          []int
	EnhancedValid    []int
	RemainingInvalid []int
	AnalysisReady    []int

	// Analysis-ready assessments with risk, sorted by total descending
	Scored []inventory.Assessment

	Stats  Stats
	Report *report.Report
}

// Run assesses table. The context is only checked between stages.
func (p *Pipeline) Run(ctx context.Context, table *inventory.Table) (*Result, error) {
	if table == nil {
		return nil, apperrors.NewInputError("cannot run pipeline", ErrNilTable)
	}
	if missing := table.MissingColumns(); len(missing) > 0 {
		return nil, apperrors.NewInputError(
			"missing columns: "+strings.Join(missing, ", "),
			apperrors.ErrMissingColumns,
		)
	}

	started := p.now()
	res := &Result{
		RunID: p.newRunID(),
		Stats: Stats{
			RecoveryOutcomes: make(map[string]int),
			RiskCounts:       make(map[inventory.RiskLevel]int),
		},
	}
	ctx = logging.WithRunID(ctx, res.RunID)
	logging.LogRunStart(ctx, p.logger, table.Source, len(table.Records))

	stages := []struct {
		name string
		fn   func(*inventory.Table, *Result)
	}{
		{"assess", p.assess},
		{"recover", p.recoverInvalid},
		{"merge", p.merge},
		{"score", p.score},
		{"report", p.buildReport},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			logging.LogRunError(ctx, p.logger, err, "Run cancelled", "stage", stage.name)
			return nil, fmt.Errorf("run cancelled before %s: %w", stage.name, err)
		}
		stageStart := time.Now()
		stage.fn(table, res)
		logging.LogStageComplete(ctx, p.logger, stage.name, time.Since(stageStart))
	}

	res.Stats.Duration = p.now().Sub(started)
	logging.LogRunComplete(ctx, p.logger, res.Stats.Duration,
		"records", res.Stats.Total,
		"fully_valid", res.Stats.FullyValid,
		"enhanced_valid", res.Stats.EnhancedValid,
		"analysis_ready", res.Stats.AnalysisReady,
		"ambiguous_status", res.Stats.Ambiguous,
	)
	cache := p.recoverer.CacheStats()
	p.logger.DebugContext(ctx, "Recovery match cache",
		"hits", cache.Hits,
		"misses", cache.Misses,
		"size", cache.Size,
	)
	return res, nil
}

// assess normalizes, classifies and validates every record
func (p *Pipeline) assess(table *inventory.Table, res *Result) {
	res.Assessments = make([]inventory.Assessment, len(table.Records))
	st := &res.Stats
	st.Total = len(table.Records)

	for i, rec := range table.Records {
		a := inventory.Assessment{
			Record:             rec,
			NormalizedBrand:    p.normalizer.Normalize(rec.Brand, normalization.FieldBrand),
			NormalizedCategory: p.normalizer.Normalize(rec.Category, normalization.FieldCategory),
			Status:             p.classifier.Classify(rec.Status),
		}
		a.PurchaseDate, a.DateStatus = p.validator.Validate(rec.PurchaseDate)
		if a.DateStatus == inventory.DateValid {
			age := p.validator.AgeYears(*a.PurchaseDate)
			a.AgeYears = &age
		}
		quality.AssessRecord(&a)

		if a.NormalizedBrand != "" {
			st.BrandRecognized++
		}
		if a.NormalizedCategory != "" {
			st.CategoryRecognized++
		}
		switch a.Status.Class {
		case inventory.StatusActive:
			st.Active++
		case inventory.StatusInactive:
			st.Inactive++
		default:
			st.UnknownStatus++
		}
		if a.Status.Ambiguous {
			st.Ambiguous++
			p.logger.Debug("Ambiguous status", "line", rec.Line, "status", rec.Status)
		}
		if a.DateStatus == inventory.DateValid {
			st.DateValid++
		}
		if a.Validity.FullyValid {
			st.FullyValid++
			res.FullyValid = append(res.FullyValid, i)
		} else {
			st.Invalid++
			res.Invalid = append(res.Invalid, i)
		}

		res.Assessments[i] = a
	}
}

// recoverInvalid fills brand and category on records that are not fully valid
func (p *Pipeline) recoverInvalid(_ *inventory.Table, res *Result) {
	st := &res.Stats
	for _, i := range res.Invalid {
		a := &res.Assessments[i]
		rec := p.recoverer.Recover(a.Record, a.NormalizedBrand, a.NormalizedCategory)
		a.Recovery = &rec

		st.RecoveryAttempted++
		st.RecoveryOutcomes[rec.Outcome()]++
		if rec.Corrected() {
			st.Corrected++
		}
	}
}

// merge decides final membership: corrected records join the valid set only
// when their date is valid and the device is active
func (p *Pipeline) merge(_ *inventory.Table, res *Result) {
	st := &res.Stats
	for i := range res.Assessments {
		a := &res.Assessments[i]

		if !a.Validity.FullyValid && a.Recovery != nil && a.Recovery.Corrected() &&
			a.DateStatus == inventory.DateValid && a.Status.Class == inventory.StatusActive {
			a.Recovered = true
			st.Merged++
		}

		if a.Validity.FullyValid || a.Recovered {
			res.EnhancedValid = append(res.EnhancedValid, i)
			if a.Status.Class == inventory.StatusActive {
				res.AnalysisReady = append(res.AnalysisReady, i)
			}
		} else {
			res.RemainingInvalid = append(res.RemainingInvalid, i)
		}
	}
	st.EnhancedValid = len(res.EnhancedValid)
	st.RemainingInvalid = len(res.RemainingInvalid)
	st.AnalysisReady = len(res.AnalysisReady)
}

// score computes risk for analysis-ready records and ranks them inside their level
func (p *Pipeline) score(_ *inventory.Table, res *Result) {
	outcomes := make([]inventory.RiskOutcome, len(res.AnalysisReady))
	for k, i := range res.AnalysisReady {
		outcomes[k] = p.scorer.Score(res.Assessments[i])
	}

	ranks := risk.DenseRanks(outcomes)
	res.Scored = make([]inventory.Assessment, 0, len(outcomes))
	for k, i := range res.AnalysisReady {
		o := outcomes[k]
		o.PriorityRank = ranks[k]
		res.Assessments[i].Risk = &o
		res.Scored = append(res.Scored, res.Assessments[i])
		res.Stats.RiskCounts[o.Level]++
	}
	risk.SortByTotal(res.Scored)
}

func (p *Pipeline) buildReport(table *inventory.Table, res *Result) {
	res.Report = buildReport(table, res, p.now())
}
