/*
scaling.go - When should the business add a crew?

PURPOSE:
  Suggests the day on which another crew should be hired, and the chart
  point where the "add crew" marker goes. Accepting the suggestion is the
  caller's decision: the schedule is never mutated here (see
  Result.NextCrewDays for the proposed schedule).

STRATEGIES:
  Simulated (canonical):
    Replay the engine's funnel (crews, seasonality, capacity, ads, jobs)
    from the day after the last crew addition, accumulating
    jobsDone / crews into a per-crew counter. The first day the counter
    reaches the profile's job threshold is the trigger day. Never reached
    -> the last day of the horizon.

  Closed form (degraded):
    required = weeksBookedOut * baseJobsPerWeekPerCrew
    rate     = (tierAmount / costPerLead) * closeRate    per day
    day      = ceil(required / rate), clamped to [1, horizon]
    Only meaningful with flat demand and a single crew, so a request for
    it with a seasonality table or prior additions is served by the
    simulated strategy instead. Trigger.Mode reports what actually ran.

SEE ALSO:
  - engine.go: funnel, the replayed per-day steps
  - profiles.go: AggressionProfile, ScalingMode
*/
package projection

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
)

var thresholdSlack = decimal.New(1, -9)

// TriggerInput is what the crew-scaling trigger looks at. Series is the
// already simulated cumulative series for the same parameters; it is only
// used to place the marker.
type TriggerInput struct {
	Series      generic.Series
	Profile     AggressionProfile
	Crews       CrewSchedule
	Params      BusinessParameters
	Seasonality *generic.SeasonalityTable

	// Defaults to the series length when zero.
	HorizonDays     int
	StartMonthIndex int

	Mode ScalingMode
}

// Trigger is the suggested crew-addition day and its chart coordinate.
type Trigger struct {
	Day int
	X   decimal.Decimal
	Y   decimal.Decimal

	Mode ScalingMode

	// False when the threshold was not met inside the horizon and Day is
	// the clamped last day.
	Reached bool
}

// CrewScalingTrigger computes the next crew-addition suggestion.
func CrewScalingTrigger(in TriggerInput) (Trigger, error) {
	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = in.Series.Len()
	}
	if horizon <= 0 {
		return Trigger{}, fmt.Errorf("%w: crew trigger needs a horizon or a series", generic.ErrInvalidHorizon)
	}

	mode := in.Mode
	if mode == "" {
		mode = ScalingSimulated
	}
	if mode == ScalingClosedForm && (in.Seasonality != nil || in.Crews.Len() > 0) {
		mode = ScalingSimulated
	}

	var day int
	var reached bool
	switch mode {
	case ScalingClosedForm:
		day, reached = closedFormTriggerDay(in.Params, in.Profile, horizon)
	case ScalingSimulated:
		day, reached = simulatedTriggerDay(in, horizon)
	default:
		return Trigger{}, fmt.Errorf("%w: %q", generic.ErrUnknownScalingMode, string(mode))
	}

	x := generic.MonthFraction(day)
	return Trigger{
		Day:     day,
		X:       x,
		Y:       generic.ValueAt(in.Series, x),
		Mode:    mode,
		Reached: reached,
	}, nil
}

func simulatedTriggerDay(in TriggerInput, horizon int) (int, bool) {
	sim := newSimulator(Input{
		Params:          in.Params,
		Crews:           in.Crews,
		Seasonality:     in.Seasonality,
		HorizonDays:     horizon,
		StartMonthIndex: in.StartMonthIndex,
	})

	// Daily capacity is a repeating decimal (base/7); without the slack a
	// threshold hit exactly on paper would land one day late.
	threshold := in.Profile.JobThreshold.Sub(thresholdSlack)
	perCrew := decimalZero
	for d := in.Crews.LastAddition() + 1; d <= horizon; d++ {
		r := sim.funnel(d)
		perCrew = perCrew.Add(r.JobsDone.Div(decimal.NewFromInt(int64(r.Crews))))
		if perCrew.GreaterThanOrEqual(threshold) {
			return d, true
		}
	}
	return horizon, false
}

func closedFormTriggerDay(p BusinessParameters, profile AggressionProfile, horizon int) (int, bool) {
	required := profile.WeeksBookedOut.Mul(p.BaseJobsPerWeekPerCrew)
	rate := decimalZero
	if p.CostPerLead.IsPositive() {
		rate = p.DailyAdSpend().Div(p.CostPerLead).Mul(p.CloseRate)
	}
	if !rate.IsPositive() {
		return horizon, false
	}

	raw := required.Div(rate).Ceil().IntPart()
	switch {
	case raw < 1:
		return 1, true
	case raw > int64(horizon):
		return horizon, false
	default:
		return int(raw), true
	}
}
