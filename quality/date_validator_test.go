package quality

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicerisk/inventory"
)

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestValidator() *DateValidator {
	return NewDateValidator(DefaultMinPurchaseYear,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
}

func TestDateValidator_Validate(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name       string
		raw        string
		wantStatus inventory.DateStatus
		wantDate   string
	}{
		{"missing", "", inventory.DateMissing, ""},
		{"blank", "  ", inventory.DateMissing, ""},
		{"garbage", "not a date", inventory.DateInvalidFormat, ""},
		{"too old", "2008-01-01", inventory.DateTooOld, ""},
		{"last day before cutoff", "2009-12-31", inventory.DateTooOld, ""},
		{"first day of cutoff year", "2010-01-01", inventory.DateValid, "2010-01-01"},
		{"future", "2030-01-01", inventory.DateFuture, ""},
		{"iso date", "2022-06-15", inventory.DateValid, "2022-06-15"},
		{"us slash date", "06/15/2022", inventory.DateValid, "2022-06-15"},
		{"date time", "2021-03-04 10:00:00", inventory.DateValid, "2021-03-04"},
		{"month name", "oct 7, 2019", inventory.DateValid, "2019-10-07"},
		{"same day as now", "2025-06-15", inventory.DateValid, "2025-06-15"},
		{"day first end of year", "31/12/2020", inventory.DateValid, "2020-12-31"},
		{"day first thirteenth", "13/01/2021", inventory.DateValid, "2021-01-13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, status := v.Validate(tt.raw)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantDate == "" {
				assert.Nil(t, date)
				return
			}
			require.NotNil(t, date)
			assert.Equal(t, tt.wantDate, date.Format("2006-01-02"))
		})
	}
}

func TestDateValidator_CustomMinYear(t *testing.T) {
	v := NewDateValidator(2015,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)

	_, status := v.Validate("2014-05-01")
	assert.Equal(t, inventory.DateTooOld, status)
}

func TestAgeYears(t *testing.T) {
	tests := []struct {
		name      string
		purchased time.Time
		want      float64
	}{
		{"three years", time.Date(2022, time.June, 15, 0, 0, 0, 0, time.UTC), 3.0},
		{"same day", fixedNow, 0},
		{"half year", time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC), 0.5},
		{"future clamps to zero", fixedNow.Add(48 * time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeYears(fixedNow, tt.purchased))
		})
	}
}

func TestDateValidator_AgeMatchesDayFormula(t *testing.T) {
	v := newTestValidator()

	for _, raw := range []string{"2010-01-01", "2016-02-29", "2020-07-04", "2024-11-30"} {
		date, status := v.Validate(raw)
		require.Equal(t, inventory.DateValid, status, raw)

		days := math.Floor(fixedNow.Sub(*date).Hours() / 24)
		want := math.Round(days/365.25*10) / 10

		got := v.AgeYears(*date)
		assert.Equal(t, want, got, raw)
		assert.GreaterOrEqual(t, got, 0.0, raw)
	}
}

func TestDateValidator_AgeAcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2024, time.March, 20, 0, 30, 0, 0, ny)
	v := NewDateValidator(DefaultMinPurchaseYear,
		WithClock(func() time.Time { return now }),
		WithLocation(ny),
	)

	// 19 calendar days, spanning the 2024-03-10 spring-forward
	date, status := v.Validate("2024-03-01")
	require.Equal(t, inventory.DateValid, status)
	assert.Equal(t, 0.1, v.AgeYears(*date))
}
