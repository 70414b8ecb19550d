/*
engine.go - Day-by-day cash-flow simulation

PURPOSE:
  Steps a fixed horizon one day at a time and accumulates the business's
  cash position. The resulting series is what every chart and derived
  metric is computed from.

PER-DAY STEPS (day d = 1..horizon):
  1. crews       = schedule.CrewsOn(d, maxCrews)
  2. multiplier  = seasonality[(start + (d-1)/30) mod 12], or 1
  3. capacity    = crews * baseJobsPerWeek * (30/7) / 30
  4. adSpend     = tierAmount * crews, ramped by the multiplier:
                     m < 0.3        -> 0
                     0.3 <= m < 0.5 -> raw * ((m-0.3)/0.2) * 0.5
                     otherwise      -> raw
  5. leads       = adSpend / costPerLead
     bookings    = leads * closeRate
     jobs        = min(capacity, bookings)
  6. deposit     = jobs * gross * depositFraction
  7. final       = jobs * (net - depositPerJob)    only when d > payoutDelay
  8. profit      = (deposit + final) * m - adSpend * m - overhead
                   (- startupCost on day 1)
  9. cumulative += profit; sample (d/30, cumulative)

PAYOUT DELAY:
  The delay is a single calendar gate: from day payoutDelay+1 on, each
  day's completed jobs are paid in full that same day. Jobs completed
  before the gate never receive their final payment. Break-even and
  run-rate figures are calibrated against this model, so it is kept as is.

FUNNEL REPLAY:
  Steps 1-5 are exposed separately (funnel) because the crew-scaling
  trigger and the backlog replay them without accumulating cash.

SEE ALSO:
  - scaling.go: Replays steps 1-5 to find the next crew day
  - generic/seasonality.go: Multiplier lookup
*/
package projection

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
)

var (
	decimalZero   = decimal.Zero
	decimalOne    = decimal.NewFromInt(1)
	decimalSeven  = decimal.NewFromInt(7)
	decimalThirty = decimal.NewFromInt(30)

	// Seasonal ad-spend ramp.
	rampFloor = decimal.RequireFromString("0.3")
	rampFull  = decimal.RequireFromString("0.5")
	rampWidth = decimal.RequireFromString("0.2")
	rampCap   = decimal.RequireFromString("0.5")
)

// =============================================================================
// INPUT / OUTPUT
// =============================================================================

// Input is everything a simulation depends on.
type Input struct {
	Params BusinessParameters
	Crews  CrewSchedule

	// nil means no seasonal data: multiplier 1 every day.
	Seasonality *generic.SeasonalityTable

	HorizonDays int

	// Calendar month (January = 0) the horizon starts in. Normalised mod 12.
	StartMonthIndex int
}

// FinalCrews is the crew count once every scheduled addition has taken
// effect, capped at MaxCrews.
func (in Input) FinalCrews() int {
	return in.Crews.CrewsOn(in.HorizonDays+1, in.Params.MaxCrews)
}

// DayResult is the full breakdown of one simulated day.
type DayResult struct {
	Day        int
	MonthIndex int
	Crews      int

	Multiplier decimal.Decimal
	Capacity   decimal.Decimal
	AdSpend    decimal.Decimal
	Leads      decimal.Decimal
	Bookings   decimal.Decimal
	JobsDone   decimal.Decimal

	DepositRevenue      decimal.Decimal
	FinalPaymentRevenue decimal.Decimal
	Profit              decimal.Decimal
	Cumulative          decimal.Decimal
}

// =============================================================================
// SIMULATION
// =============================================================================

// Simulate returns the cumulative cash-flow series: exactly HorizonDays
// samples at x = day/30.
func Simulate(in Input) (generic.Series, error) {
	days, err := Trace(in)
	if err != nil {
		return generic.Series{}, err
	}
	return SeriesFromTrace(days), nil
}

// Trace runs the simulation and returns every day's breakdown.
func Trace(in Input) ([]DayResult, error) {
	if in.HorizonDays <= 0 {
		return nil, fmt.Errorf("%w: got %d", generic.ErrInvalidHorizon, in.HorizonDays)
	}

	sim := newSimulator(in)
	days := make([]DayResult, 0, in.HorizonDays)
	cumulative := decimalZero

	for d := 1; d <= in.HorizonDays; d++ {
		r := sim.funnel(d)
		sim.settle(&r)
		cumulative = cumulative.Add(r.Profit)
		r.Cumulative = cumulative
		days = append(days, r)
	}
	return days, nil
}

// SeriesFromTrace projects a trace onto its cumulative series.
func SeriesFromTrace(days []DayResult) generic.Series {
	points := make([]generic.Point, len(days))
	for i, r := range days {
		points[i] = generic.NewPoint(r.Day, r.Cumulative)
	}
	return generic.NewSeries(points)
}

// =============================================================================
// SIMULATOR - Per-input constants, per-day steps
// =============================================================================

type simulator struct {
	in Input

	capacityPerCrew decimal.Decimal
	adSpendPerCrew  decimal.Decimal
	depositPerJob   decimal.Decimal
	finalPerJob     decimal.Decimal
}

func newSimulator(in Input) *simulator {
	p := in.Params
	weeklyToMonthly := decimalThirty.Div(decimalSeven)
	return &simulator{
		in:              in,
		capacityPerCrew: p.BaseJobsPerWeekPerCrew.Mul(weeklyToMonthly).Div(decimalThirty),
		adSpendPerCrew:  p.DailyAdSpend(),
		depositPerJob:   p.DepositPerJob(),
		finalPerJob:     p.FinalPaymentPerJob(),
	}
}

// funnel computes steps 1-5: crews, seasonality, capacity, ads, jobs.
func (s *simulator) funnel(day int) DayResult {
	p := s.in.Params
	crews := s.in.Crews.CrewsOn(day, p.MaxCrews)
	monthIndex := generic.MonthIndexForDay(s.in.StartMonthIndex, day)
	multiplier := s.in.Seasonality.Multiplier(monthIndex)

	crewsDec := decimal.NewFromInt(int64(crews))
	capacity := crewsDec.Mul(s.capacityPerCrew)
	adSpend := rampAdSpend(s.adSpendPerCrew.Mul(crewsDec), multiplier)

	leads := decimalZero
	if p.CostPerLead.IsPositive() {
		leads = adSpend.Div(p.CostPerLead)
	}
	bookings := leads.Mul(p.CloseRate)

	return DayResult{
		Day:        day,
		MonthIndex: monthIndex,
		Crews:      crews,
		Multiplier: multiplier,
		Capacity:   capacity,
		AdSpend:    adSpend,
		Leads:      leads,
		Bookings:   bookings,
		JobsDone:   decimal.Min(capacity, bookings),
	}
}

// settle computes steps 6-8: revenue recognition and the day's profit.
func (s *simulator) settle(r *DayResult) {
	p := s.in.Params

	r.DepositRevenue = r.JobsDone.Mul(s.depositPerJob)
	r.FinalPaymentRevenue = decimalZero
	if r.Day > p.PayoutDelayDays {
		r.FinalPaymentRevenue = r.JobsDone.Mul(s.finalPerJob)
	}

	revenue := r.DepositRevenue.Add(r.FinalPaymentRevenue).Mul(r.Multiplier)
	profit := revenue.Sub(r.AdSpend.Mul(r.Multiplier)).Sub(p.FixedDailyOverhead)
	if r.Day == 1 {
		profit = profit.Sub(p.StartupCost)
	}
	r.Profit = profit
}

// rampAdSpend scales raw spend down in poor seasons: nothing below 0.3,
// a linear ramp up to half of raw spend between 0.3 and 0.5, full above.
func rampAdSpend(raw, multiplier decimal.Decimal) decimal.Decimal {
	switch {
	case multiplier.LessThan(rampFloor):
		return decimalZero
	case multiplier.LessThan(rampFull):
		return raw.Mul(multiplier.Sub(rampFloor).Div(rampWidth)).Mul(rampCap)
	default:
		return raw
	}
}
