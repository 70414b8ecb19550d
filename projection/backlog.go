/*
backlog.go - Monthly views over a simulation

PURPOSE:
  The chart shows more than the daily cumulative line: a monthly profit
  bar per 30-day bucket, and markers where the order backlog reaches a
  given number of weeks of work. Both are derived here.

BACKLOG:
  Each month adds the bookings it generated minus the jobs its crews
  could do. The running total is floored at zero at every month end: a
  crew cannot bank idle days against future bookings.

BOOKING TARGETS:
  One marker per aggression profile. The profile's weeks-booked-out depth
  becomes a job count (weeks x baseJobsPerWeek x crews), the backlog series
  is searched for the fractional month where it first reaches that count,
  and the marker is placed on the cumulative line one month later (months
  are 1-based on the chart).
*/
package projection

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// MONTHLY BARS
// =============================================================================

// MonthlyBar is one 30-day bucket of the cumulative series.
type MonthlyBar struct {
	// 1-based.
	Month int

	// Profit earned inside the bucket (closing minus previous closing).
	Profit decimal.Decimal

	// Cumulative cash at the bucket's last day.
	Closing decimal.Decimal
}

// MonthlyBars splits a daily cumulative series into 30-day buckets. A
// trailing partial month still produces a bar.
func MonthlyBars(s generic.Series) []MonthlyBar {
	months := generic.MonthsInHorizon(s.Len())
	bars := make([]MonthlyBar, 0, months)
	previous := decimalZero
	for m := 1; m <= months; m++ {
		last := m * generic.DaysPerMonth
		if last > s.Len() {
			last = s.Len()
		}
		closing := s.At(last - 1).Y
		bars = append(bars, MonthlyBar{Month: m, Profit: closing.Sub(previous), Closing: closing})
		previous = closing
	}
	return bars
}

// =============================================================================
// BACKLOG
// =============================================================================

// Backlog replays the funnel and returns the month-end backlog of booked
// but unworked jobs, one sample per month at x = 1, 2, 3, ...
func Backlog(in Input) (generic.Series, error) {
	if in.HorizonDays <= 0 {
		return generic.Series{}, fmt.Errorf("%w: got %d", generic.ErrInvalidHorizon, in.HorizonDays)
	}

	sim := newSimulator(in)
	values := make([]decimal.Decimal, 0, generic.MonthsInHorizon(in.HorizonDays))
	backlog := decimalZero
	for d := 1; d <= in.HorizonDays; d++ {
		r := sim.funnel(d)
		backlog = backlog.Add(r.Bookings).Sub(r.Capacity)
		if d%generic.DaysPerMonth == 0 || d == in.HorizonDays {
			if backlog.IsNegative() {
				backlog = decimalZero
			}
			values = append(values, backlog)
		}
	}
	return generic.NewSeriesFromValues(values), nil
}

// =============================================================================
// BOOKING TARGETS
// =============================================================================

// BookingTarget marks where the backlog reaches a profile's booked-out depth.
type BookingTarget struct {
	Profile string
	Label   string

	// Jobs of backlog needed.
	Threshold decimal.Decimal

	// 0-based fractional month where the backlog first reaches Threshold.
	MonthFraction decimal.Decimal

	// Chart point on the cumulative series.
	X decimal.Decimal
	Y decimal.Decimal

	// False when the backlog never got there and the marker sits at the end.
	Reached bool
}

// BookingTargets places one marker per profile. series and backlog are the
// cumulative and Backlog series of the same input.
func BookingTargets(in Input, series, backlog generic.Series, profiles []AggressionProfile) []BookingTarget {
	crews := decimal.NewFromInt(int64(in.Crews.CrewsOn(1, in.Params.MaxCrews)))
	jobsPerWeek := in.Params.BaseJobsPerWeekPerCrew.Mul(crews)

	targets := make([]BookingTarget, 0, len(profiles))
	for _, p := range profiles {
		threshold := p.WeeksBookedOut.Mul(jobsPerWeek)
		frac := generic.FractionAtCrossing(backlog, threshold)
		x := frac.Add(decimalOne)
		targets = append(targets, BookingTarget{
			Profile:       p.Name,
			Label:         p.Label(),
			Threshold:     threshold,
			MonthFraction: frac,
			X:             x,
			Y:             generic.ValueAt(series, x),
			Reached:       reaches(backlog, threshold),
		})
	}
	return targets
}

func reaches(s generic.Series, threshold decimal.Decimal) bool {
	for _, v := range s.Values() {
		if v.GreaterThanOrEqual(threshold) {
			return true
		}
	}
	return false
}
