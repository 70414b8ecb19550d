package projection

import (
	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// RUN - Everything a projection view needs, in one call
// =============================================================================

// Request bundles a simulation input with the scaling posture used for the
// crew suggestion and the profiles drawn as booking-target markers.
type Request struct {
	Input

	Profile AggressionProfile
	Mode    ScalingMode

	// Defaults to DefaultProfiles() when nil.
	TargetProfiles []AggressionProfile
}

// Result is a full projection: the daily trace and every derived figure.
type Result struct {
	Input Input

	Days   []DayResult
	Series generic.Series

	BreakEven BreakEvenResult
	RunRate   RunRateResult
	Trigger   Trigger

	// The schedule with the suggested crew added, or the current schedule
	// when no further crew can or should be added. Accepting it is up to
	// the caller.
	NextCrewDays []int

	MonthlyBars    []MonthlyBar
	Backlog        generic.Series
	BookingTargets []BookingTarget
}

// Run simulates once and derives break-even, run-rate, the crew trigger,
// monthly bars and booking targets from the same series.
func Run(req Request) (*Result, error) {
	days, err := Trace(req.Input)
	if err != nil {
		return nil, err
	}
	series := SeriesFromTrace(days)

	trigger, err := CrewScalingTrigger(TriggerInput{
		Series:          series,
		Profile:         req.Profile,
		Crews:           req.Crews,
		Params:          req.Params,
		Seasonality:     req.Seasonality,
		HorizonDays:     req.HorizonDays,
		StartMonthIndex: req.StartMonthIndex,
		Mode:            req.Mode,
	})
	if err != nil {
		return nil, err
	}

	profiles := req.TargetProfiles
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	backlog, err := Backlog(req.Input)
	if err != nil {
		return nil, err
	}

	return &Result{
		Input:          req.Input,
		Days:           days,
		Series:         series,
		BreakEven:      BreakEven(series),
		RunRate:        RunRate(series, req.HorizonDays),
		Trigger:        trigger,
		NextCrewDays:   nextCrewDays(req.Crews, trigger, req.Params.MaxCrews, req.HorizonDays),
		MonthlyBars:    MonthlyBars(series),
		Backlog:        backlog,
		BookingTargets: BookingTargets(req.Input, series, backlog, profiles),
	}, nil
}

func nextCrewDays(crews CrewSchedule, trigger Trigger, maxCrews, horizon int) []int {
	if !trigger.Reached || crews.CrewsOn(horizon+1, maxCrews) >= maxCrews {
		return crews.Days()
	}
	return crews.Add(trigger.Day).Days()
}
