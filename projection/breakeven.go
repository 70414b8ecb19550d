package projection

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
)

var roundHalfCutoff = decimal.RequireFromString("0.55")

// =============================================================================
// BREAK-EVEN - First non-negative cumulative cash
// =============================================================================

// BreakEvenResult is where the cumulative series first turns non-negative.
// Reached=false is the explicit "not within the horizon" answer; the other
// fields are zero in that case.
type BreakEvenResult struct {
	Reached bool

	// Fractional day, interpolated between the last negative sample and
	// the first non-negative one.
	Day decimal.Decimal

	// Day / 7.
	Weeks decimal.Decimal

	// Weeks rounded with RoundToNearestHalf.
	DisplayWeeks decimal.Decimal
}

// String renders the display value, e.g. "6.5 weeks" or "Not reached".
func (b BreakEvenResult) String() string {
	if !b.Reached {
		return "Not reached"
	}
	return fmt.Sprintf("%s weeks", b.DisplayWeeks.StringFixed(1))
}

// BreakEven finds the first sample with y >= 0.
func BreakEven(s generic.Series) BreakEvenResult {
	for i := 0; i < s.Len(); i++ {
		curr := s.At(i)
		if curr.Y.IsNegative() {
			continue
		}

		day := decimal.NewFromInt(int64(curr.Day))
		if i > 0 && curr.Day != 1 {
			prev := s.At(i - 1)
			// prev.Y < 0 <= curr.Y: the fraction of the step spent below zero.
			frac := prev.Y.Neg().Div(curr.Y.Sub(prev.Y))
			day = decimal.NewFromInt(int64(prev.Day)).Add(frac)
		}

		weeks := generic.DayToWeeks(day)
		return BreakEvenResult{
			Reached:      true,
			Day:          day,
			Weeks:        weeks,
			DisplayWeeks: RoundToNearestHalf(weeks),
		}
	}
	return BreakEvenResult{}
}

// RoundToNearestHalf applies the display rounding for week counts: a
// fractional part up to 0.55 shows as floor+0.5, anything above rounds up
// to the next whole week.
//
//	3.54 -> 3.5
//	3.56 -> 4.0
func RoundToNearestHalf(weeks decimal.Decimal) decimal.Decimal {
	floor := weeks.Floor()
	if weeks.Sub(floor).LessThanOrEqual(roundHalfCutoff) {
		return floor.Add(decimal.RequireFromString("0.5"))
	}
	return weeks.Ceil()
}
