package projection

import (
	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
)

// RunRateResult is the steady-state earning pace at the end of a horizon.
type RunRateResult struct {
	Monthly decimal.Decimal
	Yearly  decimal.Decimal
}

// RunRate measures how fast cumulative cash is growing at the end of the
// first horizonDays samples.
//
//	n > 30  -> monthly = y[n] - y[n-30]
//	n >= 2  -> monthly = (y[n] - y[1]) / (n-1) * 30
//	else    -> 0
//
// Yearly is always 12 x monthly. A non-positive horizonDays uses the whole
// series.
func RunRate(s generic.Series, horizonDays int) RunRateResult {
	n := s.Len()
	if horizonDays > 0 && horizonDays < n {
		n = horizonDays
	}

	monthly := decimalZero
	switch {
	case n > generic.DaysPerMonth:
		monthly = s.At(n - 1).Y.Sub(s.At(n - 1 - generic.DaysPerMonth).Y)
	case n >= 2:
		perDay := s.At(n - 1).Y.Sub(s.At(0).Y).Div(decimal.NewFromInt(int64(n - 1)))
		monthly = perDay.Mul(decimalThirty)
	}

	return RunRateResult{
		Monthly: monthly,
		Yearly:  monthly.Mul(decimal.NewFromInt(generic.MonthsPerYear)),
	}
}
