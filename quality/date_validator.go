package quality

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"devicerisk/inventory"
)

// DefaultMinPurchaseYear purchases before this year are rejected as too old
const DefaultMinPurchaseYear = 2010

const daysPerYear = 365.25

// DateValidator parses purchase dates and derives device age against an injected clock
type DateValidator struct {
	minYear int
	now     func() time.Time
	loc     *time.Location
}

// DateOption configures a DateValidator
type DateOption func(*DateValidator)

// WithClock sets the reference time source
func WithClock(now func() time.Time) DateOption {
	return func(v *DateValidator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithLocation sets the zone used for dates without an explicit offset
func WithLocation(loc *time.Location) DateOption {
	return func(v *DateValidator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

// NewDateValidator creates a validator; minYear <= 0 selects DefaultMinPurchaseYear
func NewDateValidator(minYear int, opts ...DateOption) *DateValidator {
	if minYear <= 0 {
		minYear = DefaultMinPurchaseYear
	}
	v := &DateValidator{
		minYear: minYear,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Now returns the reference time of the validator
func (v *DateValidator) Now() time.Time {
	return v.now().In(v.loc)
}

// Validate returns the parsed date and DateValid, or nil and the failure reason
func (v *DateValidator) Validate(raw string) (*time.Time, inventory.DateStatus) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, inventory.DateMissing
	}

	parsed, ok := v.parse(trimmed)
	if !ok {
		return nil, inventory.DateInvalidFormat
	}
	if parsed.After(v.Now()) {
		return nil, inventory.DateFuture
	}
	if parsed.Year() < v.minYear {
		return nil, inventory.DateTooOld
	}
	return &parsed, inventory.DateValid
}

func (v *DateValidator) parse(s string) (t time.Time, ok bool) {
	// the parser is not guaranteed panic free on arbitrary input
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	t, err := dateparse.ParseIn(s, v.loc, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AgeYears returns whole elapsed days / 365.25 rounded to one decimal
func (v *DateValidator) AgeYears(purchased time.Time) float64 {
	return AgeYears(v.Now(), purchased)
}

// AgeYears computes device age at now; negative spans count as zero.
// Days are counted on wall-clock fields so DST shifts never drop a day.
func AgeYears(now, purchased time.Time) float64 {
	days := int64(wallClock(now).Sub(wallClock(purchased)) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return math.Round(float64(days)/daysPerYear*10) / 10
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
