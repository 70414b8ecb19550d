package projection_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/generic"
	"github.com/warp/roi-engine/projection"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustProfile(t *testing.T, name string) projection.AggressionProfile {
	t.Helper()
	p, err := projection.LookupProfile(name)
	require.NoError(t, err)
	return p
}

// =============================================================================
// BREAK-EVEN
// =============================================================================

func TestBreakEven_DefaultBusiness(t *testing.T) {
	// GIVEN: Moderate tier, one crew: 822.857/day against a 15,000 startup
	// THEN: Cumulative turns non-negative between day 18 and 19

	s := simulate(t, projection.DefaultParameters(), projection.CrewSchedule{}, 360)
	be := projection.BreakEven(s)

	require.True(t, be.Reached)
	wantDay := 18 + (15000-18*(6250.0/7-70))/(6250.0/7-70)
	assert.InDelta(t, wantDay, f(be.Day), 1e-6)
	assert.InDelta(t, wantDay/7, f(be.Weeks), 1e-6)
	assert.True(t, be.DisplayWeeks.Equal(decimal.NewFromInt(3)), "2.60 weeks displays as 3")
	assert.Equal(t, "3.0 weeks", be.String())
}

func TestBreakEven_NotReached(t *testing.T) {
	s := generic.NewSeries([]generic.Point{
		generic.NewPoint(1, dec("-100")),
		generic.NewPoint(2, dec("-50")),
		generic.NewPoint(3, dec("-0.01")),
	})

	be := projection.BreakEven(s)
	assert.False(t, be.Reached)
	assert.Equal(t, "Not reached", be.String())

	zeroSpend := simulate(t, zeroSpendParams(), projection.CrewSchedule{}, 360)
	assert.False(t, projection.BreakEven(zeroSpend).Reached)
}

func TestBreakEven_DayOne(t *testing.T) {
	s := generic.NewSeries([]generic.Point{
		generic.NewPoint(1, dec("10")),
		generic.NewPoint(2, dec("20")),
	})

	be := projection.BreakEven(s)
	require.True(t, be.Reached)
	assert.True(t, be.Day.Equal(decimal.NewFromInt(1)))
}

func TestBreakEven_InterpolatesBetweenSamples(t *testing.T) {
	s := generic.NewSeries([]generic.Point{
		generic.NewPoint(1, dec("-300")),
		generic.NewPoint(2, dec("-100")),
		generic.NewPoint(3, dec("300")),
	})

	be := projection.BreakEven(s)
	require.True(t, be.Reached)
	assert.True(t, be.Day.Equal(dec("2.25")), "got %s", be.Day)
}

func TestBreakEven_EmptySeries(t *testing.T) {
	assert.False(t, projection.BreakEven(generic.Series{}).Reached)
}

func TestRoundToNearestHalf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3.54", "3.5"},
		{"3.56", "4"},
		{"3.55", "3.5"},
		{"3.5", "3.5"},
		{"3.0", "3.5"},
		{"3.01", "3.5"},
		{"0.9", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := projection.RoundToNearestHalf(dec(tt.in))
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

// =============================================================================
// CREW SCALING TRIGGER
// =============================================================================

func TestCrewScalingTrigger_Simulated(t *testing.T) {
	// GIVEN: One crew at full capacity, 2/7 jobs a day
	// WHEN: The aggressive profile wants 10 jobs per crew
	// THEN: The trigger fires on day 35, on the cumulative line

	params := projection.DefaultParameters()
	s := simulate(t, params, projection.CrewSchedule{}, 360)

	trig, err := projection.CrewScalingTrigger(projection.TriggerInput{
		Series:  s,
		Profile: mustProfile(t, projection.ProfileAggressive),
		Params:  params,
	})
	require.NoError(t, err)

	assert.Equal(t, 35, trig.Day)
	assert.True(t, trig.Reached)
	assert.Equal(t, projection.ScalingSimulated, trig.Mode)
	assert.True(t, trig.X.Equal(generic.MonthFraction(35)))
	assert.True(t, trig.Y.Equal(s.At(34).Y))
}

func TestCrewScalingTrigger_StartsAfterLastAddition(t *testing.T) {
	params := projection.DefaultParameters()
	crews := projection.NewCrewSchedule(100)
	s := simulate(t, params, crews, 360)

	trig, err := projection.CrewScalingTrigger(projection.TriggerInput{
		Series:  s,
		Profile: mustProfile(t, projection.ProfileAggressive),
		Crews:   crews,
		Params:  params,
	})
	require.NoError(t, err)

	// A second crew doubles both ads and capacity, so each crew still does
	// 2/7 jobs a day: 35 days after day 100.
	assert.Equal(t, 135, trig.Day)
}

func TestCrewScalingTrigger_NeverReachedClampsToHorizon(t *testing.T) {
	s := simulate(t, zeroSpendParams(), projection.CrewSchedule{}, 180)

	trig, err := projection.CrewScalingTrigger(projection.TriggerInput{
		Series:  s,
		Profile: mustProfile(t, projection.ProfileConservative),
		Params:  zeroSpendParams(),
	})
	require.NoError(t, err)

	assert.Equal(t, 180, trig.Day)
	assert.False(t, trig.Reached)
	assert.True(t, trig.Y.Equal(s.Last().Y))
}

func TestCrewScalingTrigger_ClosedForm(t *testing.T) {
	// required = 4 weeks x 2 jobs = 8; rate = 50/36 x 0.5 = 0.694/day
	// day = ceil(11.52) = 12

	params := projection.DefaultParameters()
	s := simulate(t, params, projection.CrewSchedule{}, 360)

	trig, err := projection.CrewScalingTrigger(projection.TriggerInput{
		Series:  s,
		Profile: mustProfile(t, projection.ProfileAggressive),
		Params:  params,
		Mode:    projection.ScalingClosedForm,
	})
	require.NoError(t, err)

	assert.Equal(t, projection.ScalingClosedForm, trig.Mode)
	assert.Equal(t, 12, trig.Day)
	assert.True(t, trig.Reached)
}

func TestCrewScalingTrigger_ClosedFormFallsBack(t *testing.T) {
	params := projection.DefaultParameters()

	tests := []struct {
		name  string
		crews projection.CrewSchedule
		table *generic.SeasonalityTable
	}{
		{"with seasonality", projection.CrewSchedule{}, flatTable(1)},
		{"with prior crews", projection.NewCrewSchedule(30), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := projection.Simulate(projection.Input{Params: params, Crews: tt.crews, Seasonality: tt.table, HorizonDays: 360})
			require.NoError(t, err)

			trig, err := projection.CrewScalingTrigger(projection.TriggerInput{
				Series:      s,
				Profile:     mustProfile(t, projection.ProfileModerate),
				Crews:       tt.crews,
				Params:      params,
				Seasonality: tt.table,
				Mode:        projection.ScalingClosedForm,
			})
			require.NoError(t, err)
			assert.Equal(t, projection.ScalingSimulated, trig.Mode)
		})
	}
}

func TestCrewScalingTrigger_ClosedFormZeroRate(t *testing.T) {
	trig, err := projection.CrewScalingTrigger(projection.TriggerInput{
		Profile:     mustProfile(t, projection.ProfileAggressive),
		Params:      zeroSpendParams(),
		HorizonDays: 90,
		Mode:        projection.ScalingClosedForm,
	})
	require.NoError(t, err)
	assert.Equal(t, 90, trig.Day)
	assert.False(t, trig.Reached)
	assert.True(t, trig.Y.IsZero(), "no series to place the marker on")
}

func TestCrewScalingTrigger_NoHorizon(t *testing.T) {
	_, err := projection.CrewScalingTrigger(projection.TriggerInput{Params: projection.DefaultParameters()})
	assert.ErrorIs(t, err, generic.ErrInvalidHorizon)
}

func TestParseScalingMode(t *testing.T) {
	for in, want := range map[string]projection.ScalingMode{
		"":            projection.ScalingSimulated,
		"Simulated":   projection.ScalingSimulated,
		"closed_form": projection.ScalingClosedForm,
		"closed-form": projection.ScalingClosedForm,
	} {
		got, err := projection.ParseScalingMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := projection.ParseScalingMode("random")
	assert.ErrorIs(t, err, generic.ErrUnknownScalingMode)
	assert.True(t, generic.IsClientError(err))
}

// =============================================================================
// RUN RATE
// =============================================================================

func TestRunRate_SteadyState(t *testing.T) {
	// After the payout gate each day earns 2/7 x 3850 - 50 - 20 = 1030.
	s := simulate(t, projection.DefaultParameters(), projection.CrewSchedule{}, 360)

	rr := projection.RunRate(s, 360)
	assert.InDelta(t, 30900, f(rr.Monthly), moneyDelta)
	assert.InDelta(t, 370800, f(rr.Yearly), moneyDelta)
}

func TestRunRate_ShortSeries(t *testing.T) {
	values := make([]decimal.Decimal, 11)
	for i := range values {
		values[i] = decimal.NewFromInt(int64(i * 10))
	}
	s := generic.NewSeriesFromValues(values)

	rr := projection.RunRate(s, 0)
	assert.InDelta(t, 300, f(rr.Monthly), 1e-9)
	assert.InDelta(t, 3600, f(rr.Yearly), 1e-9)

	one := projection.RunRate(generic.NewSeriesFromValues(values[:1]), 1)
	assert.True(t, one.Monthly.IsZero())
	assert.True(t, projection.RunRate(generic.Series{}, 360).Yearly.IsZero())
}

func TestRunRate_HorizonWindow(t *testing.T) {
	s := simulate(t, projection.DefaultParameters(), projection.CrewSchedule{}, 360)

	// Days 1..40 are all before the payout gate: 822.857/day.
	rr := projection.RunRate(s, 40)
	assert.InDelta(t, 30*(6250.0/7-70), f(rr.Monthly), moneyDelta)
}

// =============================================================================
// MONTHLY BARS / BACKLOG / BOOKING TARGETS
// =============================================================================

func TestMonthlyBars(t *testing.T) {
	s := simulate(t, projection.DefaultParameters(), projection.CrewSchedule{}, 75)

	bars := projection.MonthlyBars(s)
	require.Len(t, bars, 3)
	assert.Equal(t, 1, bars[0].Month)
	assert.InDelta(t, 30*(6250.0/7-70)-15000, f(bars[0].Profit), moneyDelta)
	assert.True(t, bars[2].Closing.Equal(s.Last().Y), "partial month closes on the last day")

	total := decimal.Zero
	for _, b := range bars {
		total = total.Add(b.Profit)
	}
	assert.True(t, total.Equal(s.Last().Y))
}

func TestBacklog_GrowsWhenBookingsExceedCapacity(t *testing.T) {
	in := projection.Input{Params: projection.DefaultParameters(), HorizonDays: 360}

	backlog, err := projection.Backlog(in)
	require.NoError(t, err)
	require.Equal(t, 12, backlog.Len())

	// 30 x (50/36 x 0.5 - 2/7) = 12.26 jobs a month
	perMonth := 30 * (50.0/36*0.5 - 2.0/7)
	for i, p := range backlog.Points() {
		assert.InDelta(t, perMonth*float64(i+1), f(p.Y), 1e-6)
	}
}

func TestBacklog_FlooredAtZero(t *testing.T) {
	backlog, err := projection.Backlog(projection.Input{Params: zeroSpendParams(), HorizonDays: 90})
	require.NoError(t, err)

	for _, v := range backlog.Values() {
		assert.True(t, v.IsZero())
	}
}

func TestBookingTargets(t *testing.T) {
	in := projection.Input{Params: projection.DefaultParameters(), HorizonDays: 360}
	s, err := projection.Simulate(in)
	require.NoError(t, err)

	backlog, err := projection.Backlog(in)
	require.NoError(t, err)

	targets := projection.BookingTargets(in, s, backlog, projection.DefaultProfiles())
	require.Len(t, targets, 3)

	perMonth := 30 * (50.0/36*0.5 - 2.0/7)

	// 4 weeks x 2 jobs = 8 jobs: already there after month 1.
	assert.Equal(t, "Aggressive (4 wks)", targets[0].Label)
	assert.True(t, targets[0].MonthFraction.IsZero())
	assert.True(t, targets[0].X.Equal(decimal.NewFromInt(1)))
	assert.True(t, targets[0].Reached)

	// 8 weeks x 2 jobs = 16 jobs: between month 1 and 2.
	wantFrac := (16 - perMonth) / perMonth
	assert.InDelta(t, wantFrac, f(targets[1].MonthFraction), 1e-6)
	assert.InDelta(t, wantFrac+1, f(targets[1].X), 1e-6)
	assert.InDelta(t, f(generic.ValueAt(s, targets[1].X)), f(targets[1].Y), 1e-9)
}

// =============================================================================
// RUN
// =============================================================================

func TestRun_Aggregates(t *testing.T) {
	res, err := projection.Run(projection.Request{
		Input:   projection.Input{Params: projection.DefaultParameters(), HorizonDays: 360},
		Profile: mustProfile(t, projection.ProfileAggressive),
	})
	require.NoError(t, err)

	assert.Equal(t, 360, res.Series.Len())
	assert.Len(t, res.Days, 360)
	assert.True(t, res.BreakEven.Reached)
	assert.Equal(t, 35, res.Trigger.Day)
	assert.Equal(t, []int{35}, res.NextCrewDays)
	assert.Len(t, res.MonthlyBars, 12)
	assert.Len(t, res.BookingTargets, 3)
	assert.Equal(t, 12, res.Backlog.Len())
}

func TestRun_NoSuggestionAtMaxCrews(t *testing.T) {
	params := projection.DefaultParameters()
	params.MaxCrews = 2
	crews := projection.NewCrewSchedule(10)

	res, err := projection.Run(projection.Request{
		Input:   projection.Input{Params: params, Crews: crews, HorizonDays: 360},
		Profile: mustProfile(t, projection.ProfileAggressive),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10}, res.NextCrewDays)
}
