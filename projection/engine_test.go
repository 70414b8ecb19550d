package projection_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/generic"
	"github.com/warp/roi-engine/projection"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const moneyDelta = 0.01

func aggressiveParams(t *testing.T) projection.BusinessParameters {
	t.Helper()
	p, err := projection.DefaultParameters().WithTier(projection.TierAggressive)
	require.NoError(t, err)
	return p
}

func zeroSpendParams() projection.BusinessParameters {
	p := projection.DefaultParameters()
	p.AdSpendTiers[projection.TierModerate] = decimal.Zero
	return p
}

func simulate(t *testing.T, params projection.BusinessParameters, crews projection.CrewSchedule, horizon int) generic.Series {
	t.Helper()
	s, err := projection.Simulate(projection.Input{
		Params:      params,
		Crews:       crews,
		HorizonDays: horizon,
	})
	require.NoError(t, err)
	return s
}

func flatTable(score float64) *generic.SeasonalityTable {
	var scores [12]float64
	for i := range scores {
		scores[i] = score
	}
	return generic.NewSeasonalityTable("flat", scores, 40)
}

func f(d decimal.Decimal) float64 { return d.InexactFloat64() }

// =============================================================================
// SHAPE
// =============================================================================

func TestSimulate_ExactlyHorizonSamples(t *testing.T) {
	s := simulate(t, projection.DefaultParameters(), projection.CrewSchedule{}, 360)

	require.Equal(t, 360, s.Len())
	for i, p := range s.Points() {
		assert.Equal(t, i+1, p.Day)
		assert.True(t, p.X.Equal(generic.MonthFraction(i+1)))
	}
}

func TestSimulate_RejectsNonPositiveHorizon(t *testing.T) {
	for _, h := range []int{0, -30} {
		_, err := projection.Simulate(projection.Input{Params: projection.DefaultParameters(), HorizonDays: h})
		assert.ErrorIs(t, err, generic.ErrInvalidHorizon)
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	a := simulate(t, aggressiveParams(t), projection.NewCrewSchedule(60), 180)
	b := simulate(t, aggressiveParams(t), projection.NewCrewSchedule(60), 180)

	for i := 0; i < a.Len(); i++ {
		assert.True(t, a.At(i).Y.Equal(b.At(i).Y), "day %d", i+1)
	}
}

func TestSimulate_ConcurrentCallsIndependent(t *testing.T) {
	// GIVEN: The same parameters projected from several goroutines
	// THEN: Every result matches the sequential one

	want := simulate(t, projection.DefaultParameters(), projection.CrewSchedule{}, 360)

	var wg sync.WaitGroup
	results := make([]generic.Series, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := projection.Simulate(projection.Input{Params: projection.DefaultParameters(), HorizonDays: 360})
			if err == nil {
				results[i] = s
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, 360, r.Len())
		assert.True(t, r.Last().Y.Equal(want.Last().Y))
	}
}

// =============================================================================
// CONCRETE SCENARIO
// =============================================================================

func TestSimulate_ConcreteScenario_DayOne(t *testing.T) {
	// GIVEN: $6,250 jobs costing $2,400, $75/day ads, one crew, 42-day payout,
	//        $15,000 startup, 2 jobs/week, no seasonality
	// WHEN: Simulating
	// THEN: Day 1 = deposit(day 1) - ads - overhead - startup

	params := aggressiveParams(t)
	assert.True(t, params.NetRevenuePerJob().Equal(decimal.NewFromInt(3850)))
	assert.True(t, params.DepositPerJob().Equal(decimal.NewFromInt(3125)))

	days, err := projection.Trace(projection.Input{Params: params, HorizonDays: 60})
	require.NoError(t, err)

	day1 := days[0]
	capacity := 2.0 * (30.0 / 7.0) / 30.0
	bookings := 75.0 / 36.0 * 0.5
	jobs := capacity
	if bookings < jobs {
		jobs = bookings
	}
	assert.InDelta(t, capacity, f(day1.Capacity), 1e-9)
	assert.InDelta(t, jobs, f(day1.JobsDone), 1e-9)
	assert.InDelta(t, jobs*3125-75-20-15000, f(day1.Cumulative), moneyDelta)
	assert.InDelta(t, -14202.14, f(day1.Cumulative), moneyDelta)
}

func TestSimulate_ConcreteScenario_FinalPaymentFromDay43(t *testing.T) {
	days, err := projection.Trace(projection.Input{Params: aggressiveParams(t), HorizonDays: 60})
	require.NoError(t, err)

	for _, d := range days[:42] {
		assert.True(t, d.FinalPaymentRevenue.IsZero(), "day %d", d.Day)
	}
	day43 := days[42]
	require.Equal(t, 43, day43.Day)
	assert.True(t, day43.FinalPaymentRevenue.IsPositive())
	assert.InDelta(t, (2.0/7.0)*725, f(day43.FinalPaymentRevenue), moneyDelta)

	// The cumulative step grows by exactly that term.
	step42 := days[41].Cumulative.Sub(days[40].Cumulative)
	step43 := days[42].Cumulative.Sub(days[41].Cumulative)
	assert.InDelta(t, f(day43.FinalPaymentRevenue), f(step43.Sub(step42)), moneyDelta)
}

// =============================================================================
// ZERO SPEND
// =============================================================================

func TestSimulate_ZeroSpend_DecaysByOverhead(t *testing.T) {
	// GIVEN: A tier that spends nothing
	// THEN: No leads, no jobs; cash drops by overhead every day (and startup on day 1)

	params := zeroSpendParams()
	s := simulate(t, params, projection.NewCrewSchedule(10, 20), 120)

	assert.True(t, s.First().Y.Equal(decimal.NewFromInt(-15020)))
	for i := 1; i < s.Len(); i++ {
		step := s.At(i).Y.Sub(s.At(i - 1).Y)
		assert.True(t, step.Equal(decimal.NewFromInt(-20)), "day %d step %s", i+1, step)
	}
}

func TestSimulate_ZeroSpend_JobsAreZero(t *testing.T) {
	days, err := projection.Trace(projection.Input{Params: zeroSpendParams(), HorizonDays: 5})
	require.NoError(t, err)

	for _, d := range days {
		assert.True(t, d.Leads.IsZero())
		assert.True(t, d.JobsDone.IsZero())
	}
}

// =============================================================================
// CREWS
// =============================================================================

func TestSimulate_CrewAdditionAtDay90(t *testing.T) {
	// GIVEN: Identical inputs except a crew added on day 90
	// THEN: Days 1-90 identical, strictly higher from day 91 on

	params := aggressiveParams(t)
	base := simulate(t, params, projection.CrewSchedule{}, 360)
	more := simulate(t, params, projection.NewCrewSchedule(90), 360)

	for d := 1; d <= 90; d++ {
		assert.True(t, base.At(d-1).Y.Equal(more.At(d-1).Y), "day %d should match", d)
	}
	for d := 91; d <= 360; d++ {
		assert.True(t, more.At(d-1).Y.GreaterThan(base.At(d-1).Y), "day %d should diverge", d)
	}
}

func TestSimulate_CrewsCappedAtMax(t *testing.T) {
	params := aggressiveParams(t)
	params.MaxCrews = 2

	capped := simulate(t, params, projection.NewCrewSchedule(10, 20, 30), 90)
	two := simulate(t, params, projection.NewCrewSchedule(10), 90)

	assert.True(t, capped.Last().Y.Equal(two.Last().Y))
}

func TestCrewSchedule_MonotonicAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		days := make([]int, rng.Intn(10))
		for i := range days {
			days[i] = rng.Intn(400) - 20
		}
		maxCrews := 1 + rng.Intn(5)
		schedule := projection.NewCrewSchedule(days...)

		prev := schedule.CrewsOn(1, maxCrews)
		assert.Equal(t, 1, prev)
		for d := 2; d <= 360; d++ {
			c := schedule.CrewsOn(d, maxCrews)
			assert.GreaterOrEqual(t, c, prev)
			assert.LessOrEqual(t, c, maxCrews)
			prev = c
		}
	}
}

func TestCrewSchedule_CapBelowOneKeepsStartingCrew(t *testing.T) {
	// GIVEN: Parameters with MaxCrews unset and a schedule full of additions
	// WHEN: Simulating past every addition
	// THEN: The engine still caps the count, at the single starting crew

	p := projection.DefaultParameters()
	p.MaxCrews = 0
	schedule := projection.NewCrewSchedule(1, 2, 3, 4, 5, 1<<62)

	for _, maxCrews := range []int{0, -3} {
		assert.Equal(t, 1, schedule.CrewsOn(10, maxCrews), "maxCrews %d", maxCrews)
	}

	days, err := projection.Trace(projection.Input{Params: p, Crews: schedule, HorizonDays: 10})
	require.NoError(t, err)
	for _, d := range days {
		assert.Equal(t, 1, d.Crews, "day %d", d.Day)
	}
}

func TestInput_FinalCrews(t *testing.T) {
	p := projection.DefaultParameters()

	capped := projection.Input{Params: p, Crews: projection.NewCrewSchedule(10, 20, 30, 40, 50), HorizonDays: 360}
	assert.Equal(t, 4, capped.FinalCrews())

	later := projection.Input{Params: p, Crews: projection.NewCrewSchedule(90, 500), HorizonDays: 360}
	assert.Equal(t, 2, later.FinalCrews(), "additions past the horizon never take effect")
}

func TestCrewSchedule_Idempotent(t *testing.T) {
	s := projection.NewCrewSchedule(30, 30, 0, -1, 10)
	assert.Equal(t, []int{10, 30}, s.Days())

	again := s.Add(30)
	assert.Equal(t, s.Days(), again.Days())

	added := s.Add(20)
	assert.Equal(t, []int{10, 20, 30}, added.Days())
	assert.Equal(t, []int{10, 30}, s.Days(), "receiver unchanged")
	assert.Equal(t, 30, added.LastAddition())
	assert.True(t, added.Contains(20))
	assert.False(t, added.Contains(21))
}

func TestCrewSchedule_ActiveFromNextDay(t *testing.T) {
	s := projection.NewCrewSchedule(5)
	assert.Equal(t, 1, s.CrewsOn(5, 4))
	assert.Equal(t, 2, s.CrewsOn(6, 4))
}

// =============================================================================
// SEASONALITY
// =============================================================================

func TestSimulate_NilSeasonalityEqualsAllOnes(t *testing.T) {
	params := aggressiveParams(t)
	none, err := projection.Simulate(projection.Input{Params: params, HorizonDays: 360})
	require.NoError(t, err)
	ones, err := projection.Simulate(projection.Input{Params: params, Seasonality: flatTable(1), HorizonDays: 360})
	require.NoError(t, err)

	for i := 0; i < none.Len(); i++ {
		assert.True(t, none.At(i).Y.Equal(ones.At(i).Y))
	}
}

func TestSimulate_AdSpendRamp(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"below floor spends nothing", 0.2, 0},
		{"at floor spends nothing", 0.3, 0},
		{"mid ramp spends a quarter", 0.4, 75 * 0.25},
		{"at full spends everything", 0.5, 75},
		{"good season spends everything", 0.9, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := projection.Trace(projection.Input{
				Params:      aggressiveParams(t),
				Seasonality: flatTable(tt.score),
				HorizonDays: 1,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, f(days[0].AdSpend), 1e-9)
		})
	}
}

func TestSimulate_SeasonalMonthIndexFollowsStartMonth(t *testing.T) {
	// GIVEN: Only March (index 2) is workable and the horizon starts in February
	// THEN: Days 31-60 fall in March and are the only ones with jobs

	var scores [12]float64
	scores[2] = 1
	table := generic.NewSeasonalityTable("march-only", scores, 4)

	days, err := projection.Trace(projection.Input{
		Params:          aggressiveParams(t),
		Seasonality:     table,
		HorizonDays:     90,
		StartMonthIndex: 1,
	})
	require.NoError(t, err)

	for _, d := range days {
		if d.Day >= 31 && d.Day <= 60 {
			assert.Equal(t, 2, d.MonthIndex)
			assert.True(t, d.JobsDone.IsPositive(), "day %d", d.Day)
		} else {
			assert.True(t, d.JobsDone.IsZero(), "day %d", d.Day)
		}
	}
}
