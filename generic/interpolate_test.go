package generic_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func series(values ...string) generic.Series {
	points := make([]generic.Point, len(values))
	for i, v := range values {
		points[i] = generic.NewPoint(i+1, d(v))
	}
	return generic.NewSeries(points)
}

// =============================================================================
// VALUE AT
// =============================================================================

func TestValueAt_BoundariesExact(t *testing.T) {
	// GIVEN: Values that do not survive a lerp round-trip
	// THEN: The boundary samples come back untouched

	s := series("-15000.123456789", "-14000", "1", "12345.6789012345678")

	assert.True(t, generic.ValueAt(s, s.First().X).Equal(s.First().Y))
	assert.True(t, generic.ValueAt(s, s.Last().X).Equal(s.Last().Y))
	assert.True(t, generic.ValueAt(s, d("-5")).Equal(s.First().Y), "before first clamps")
	assert.True(t, generic.ValueAt(s, d("99")).Equal(s.Last().Y), "after last clamps")
}

func TestValueAt_Interpolates(t *testing.T) {
	s := generic.NewSeriesFromValues([]decimal.Decimal{d("0"), d("100"), d("50")})

	tests := []struct {
		x    string
		want string
	}{
		{"1", "0"},
		{"1.25", "25"},
		{"2", "100"},
		{"2.5", "75"},
		{"3", "50"},
	}
	for _, tt := range tests {
		t.Run(tt.x, func(t *testing.T) {
			got := generic.ValueAt(s, d(tt.x))
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}

func TestValueAt_DegenerateSeries(t *testing.T) {
	assert.True(t, generic.ValueAt(generic.Series{}, d("1")).IsZero())

	one := series("42")
	assert.True(t, generic.ValueAt(one, d("0")).Equal(d("42")))
	assert.True(t, generic.ValueAt(one, d("10")).Equal(d("42")))
}

// =============================================================================
// FRACTION AT CROSSING
// =============================================================================

func TestFractionAtCrossing(t *testing.T) {
	s := generic.NewSeriesFromValues([]decimal.Decimal{d("5"), d("10"), d("30")})

	tests := []struct {
		name      string
		threshold string
		want      string
	}{
		{"first already above", "4", "0"},
		{"first equal", "5", "0"},
		{"inside first step", "7.5", "0.5"},
		{"exactly on sample", "10", "1"},
		{"inside second step", "25", "1.75"},
		{"never crossed", "31", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generic.FractionAtCrossing(s, d(tt.threshold))
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}

func TestFractionAtCrossing_DegenerateSeries(t *testing.T) {
	assert.True(t, generic.FractionAtCrossing(generic.Series{}, d("1")).IsZero())
	assert.True(t, generic.FractionAtCrossing(series("0"), d("1")).IsZero())
}

// =============================================================================
// SERIES
// =============================================================================

func TestSeries_NotShared(t *testing.T) {
	points := []generic.Point{generic.NewPoint(1, d("1")), generic.NewPoint(2, d("2"))}
	s := generic.NewSeries(points)

	points[0].Y = d("999")
	out := s.Points()
	out[1].Y = d("999")

	assert.True(t, s.At(0).Y.Equal(d("1")))
	assert.True(t, s.At(1).Y.Equal(d("2")))
}

func TestSeries_Find(t *testing.T) {
	s := series("1", "2", "3")

	p, ok := s.Find(2)
	require.True(t, ok)
	assert.True(t, p.Y.Equal(d("2")))

	_, ok = s.Find(4)
	assert.False(t, ok)
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestMonthIndexForDay(t *testing.T) {
	assert.Equal(t, 0, generic.MonthIndexForDay(0, 1))
	assert.Equal(t, 0, generic.MonthIndexForDay(0, 30))
	assert.Equal(t, 1, generic.MonthIndexForDay(0, 31))
	assert.Equal(t, 0, generic.MonthIndexForDay(11, 31), "wraps into January")
	assert.Equal(t, 11, generic.MonthIndexForDay(-1, 1))
}

func TestMonthHelpers(t *testing.T) {
	assert.Equal(t, "Jan", generic.MonthName(0))
	assert.Equal(t, "Dec", generic.MonthName(-1))
	assert.Equal(t, 360, generic.HorizonForMonths(12))
	assert.Equal(t, 3, generic.MonthsInHorizon(75))
	assert.Equal(t, 0, generic.MonthsInHorizon(0))
	assert.True(t, generic.DayToWeeks(d("14")).Equal(d("2")))
}

// =============================================================================
// SEASONALITY TABLE
// =============================================================================

func TestSeasonalityTable_NilIsNeutral(t *testing.T) {
	var table *generic.SeasonalityTable
	assert.True(t, table.Multiplier(5).Equal(decimal.NewFromInt(1)))
	assert.NoError(t, table.Validate())
	assert.Nil(t, generic.ResolveSeasonality(generic.NoSeasonality{}, "ne"))
	assert.Nil(t, generic.ResolveSeasonality(nil, "ne"))
}

func TestSeasonalityTable_Validate(t *testing.T) {
	var scores [12]float64
	scores[3] = 1.2
	bad := generic.NewSeasonalityTable("x", scores, 30)

	err := bad.Validate()
	assert.ErrorIs(t, err, generic.ErrInvalidSeasonality)
	var se *generic.SeasonalityError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Month)

	scores[3] = 1
	weeks := generic.NewSeasonalityTable("x", scores, 60)
	assert.ErrorIs(t, weeks.Validate(), generic.ErrInvalidSeasonality)
}
