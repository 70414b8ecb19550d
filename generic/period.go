package generic

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONTH CALENDAR - The model's fixed 30-day month
// =============================================================================

// The simulation runs on a business calendar, not a civil one: every month
// is 30 days and a year is 12 of them (360 days).
const (
	DaysPerMonth   = 30
	MonthsPerYear  = 12
	DaysPerYear    = DaysPerMonth * MonthsPerYear
	DaysPerWeek    = 7
	DefaultHorizon = DaysPerYear
)

var (
	decimalDaysPerMonth = decimal.NewFromInt(DaysPerMonth)
	decimalDaysPerWeek  = decimal.NewFromInt(DaysPerWeek)
)

// MonthFraction places a 1-based day on the month axis (day/30).
func MonthFraction(day int) decimal.Decimal {
	return decimal.NewFromInt(int64(day)).Div(decimalDaysPerMonth)
}

// DayToWeeks converts a (possibly fractional) day count into weeks.
func DayToWeeks(day decimal.Decimal) decimal.Decimal {
	return day.Div(decimalDaysPerWeek)
}

// MonthIndexForDay returns the 0..11 calendar month that a 1-based day falls
// in, given the month index the horizon starts in.
func MonthIndexForDay(startMonthIndex, day int) int {
	return NormalizeMonthIndex(startMonthIndex + (day-1)/DaysPerMonth)
}

// NormalizeMonthIndex maps any integer onto 0..11.
func NormalizeMonthIndex(i int) int {
	i %= MonthsPerYear
	if i < 0 {
		i += MonthsPerYear
	}
	return i
}

// MonthIndexOf returns the month index (January = 0) for a civil month.
func MonthIndexOf(m time.Month) int {
	return int(m) - 1
}

// HorizonForMonths converts a time frame in months into simulated days.
func HorizonForMonths(months int) int {
	return months * DaysPerMonth
}

// MonthsInHorizon returns how many (possibly partial) months a horizon spans.
func MonthsInHorizon(horizonDays int) int {
	if horizonDays <= 0 {
		return 0
	}
	return (horizonDays + DaysPerMonth - 1) / DaysPerMonth
}

// MonthName returns the short English name for a month index.
func MonthName(index int) string {
	return time.Month(NormalizeMonthIndex(index) + 1).String()[:3]
}
