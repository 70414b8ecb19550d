/*
interpolate.go - Piecewise-linear sampling over a Series

PURPOSE:
  Charts and derived metrics need values BETWEEN simulated samples: the
  cumulative cash at month 2.4, or the fractional position where a backlog
  first reaches a threshold. Both are answered by linear interpolation
  between the two bracketing samples.

OPERATIONS:
  ValueAt(series, x):
    x <= first.X      -> first.Y
    x >= last.X       -> last.Y
    otherwise         -> linear blend of the bracketing samples

  FractionAtCrossing(series, threshold):
    first.Y >= thr    -> 0
    first i with Y >= thr
                      -> (i-1) + (thr - Y[i-1]) / (Y[i] - Y[i-1])
    never crossed     -> last index (no extrapolation)

EDGE CASES:
  Empty series return zero; single-sample series return their only value
  (ValueAt) or index 0 (FractionAtCrossing). Neither function can index
  out of range.

SEE ALSO:
  - types.go: Series
  - projection/backlog.go: Booking targets built on both functions
*/
package generic

import "github.com/shopspring/decimal"

// ValueAt returns the series value at chart coordinate x.
// Boundary samples are returned exactly, never recomputed.
func ValueAt(s Series, x decimal.Decimal) decimal.Decimal {
	n := s.Len()
	if n == 0 {
		return decimalZero
	}
	first, last := s.First(), s.Last()
	if x.LessThanOrEqual(first.X) {
		return first.Y
	}
	if x.GreaterThanOrEqual(last.X) {
		return last.Y
	}

	for i := 1; i < n; i++ {
		curr := s.At(i)
		if x.GreaterThan(curr.X) {
			continue
		}
		if x.Equal(curr.X) {
			return curr.Y
		}
		prev := s.At(i - 1)
		span := curr.X.Sub(prev.X)
		if span.IsZero() {
			return curr.Y
		}
		t := x.Sub(prev.X).Div(span)
		return prev.Y.Add(curr.Y.Sub(prev.Y).Mul(t))
	}
	return last.Y
}

// FractionAtCrossing returns the fractional 0-based index at which the
// series first reaches threshold.
func FractionAtCrossing(s Series, threshold decimal.Decimal) decimal.Decimal {
	n := s.Len()
	if n == 0 || s.First().Y.GreaterThanOrEqual(threshold) {
		return decimalZero
	}

	for i := 1; i < n; i++ {
		curr := s.At(i).Y
		if curr.LessThan(threshold) {
			continue
		}
		prev := s.At(i - 1).Y
		// prev < threshold <= curr, so the step is strictly positive.
		frac := threshold.Sub(prev).Div(curr.Sub(prev))
		return decimal.NewFromInt(int64(i - 1)).Add(frac)
	}
	return decimal.NewFromInt(int64(n - 1))
}
