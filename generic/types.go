/*
Package generic provides the domain-agnostic core of the projection engine.

PURPOSE:
  This package contains the numeric building blocks every projection is
  made of: day-indexed series, piecewise-linear interpolation over them,
  the month calendar used by the simulation, and the seasonality
  capability. Nothing here knows about crews, ads or jobs - that lives in
  the projection package.

KEY CONCEPTS IN THIS FILE (types.go):
  - Point: One simulated day, placed on a month-fraction axis (x = day/30)
  - Series: An immutable, time-ascending sequence of Points
  - Decimal helpers: Shared constants and conversions

DESIGN PRINCIPLES:
  1. Immutability: A Series is never modified after construction
  2. Precision: Uses decimal.Decimal to avoid floating-point drift in money
  3. Ownership: Every constructor copies its input; callers own the result

USAGE:
  series := generic.NewSeries([]generic.Point{
      generic.NewPoint(1, decimal.NewFromInt(-15000)),
      generic.NewPoint(2, decimal.NewFromInt(-14200)),
  })
  y := generic.ValueAt(series, generic.MonthFraction(2))

SEE ALSO:
  - interpolate.go: ValueAt and FractionAtCrossing
  - period.go: Day/month conversions
  - seasonality.go: SeasonalityTable and SeasonalityProvider
*/
package generic

import (
	"github.com/shopspring/decimal"
)

var (
	decimalZero = decimal.Zero
	decimalOne  = decimal.NewFromInt(1)
)

// =============================================================================
// POINT - One sample of a series
// =============================================================================

// Point is a single (x, y) sample. Day is the 1-based index the sample was
// produced for; X is the chart coordinate (a month fraction for simulated
// series) and Y the value at that coordinate.
type Point struct {
	Day int
	X   decimal.Decimal
	Y   decimal.Decimal
}

// NewPoint places a simulated day on the month-fraction axis.
func NewPoint(day int, y decimal.Decimal) Point {
	return Point{Day: day, X: MonthFraction(day), Y: y}
}

// =============================================================================
// SERIES - Immutable, time-ascending samples
// =============================================================================

// Series is an ordered, x-ascending sequence of points.
//
// INVARIANTS:
//   - Immutable: no method mutates the underlying samples
//   - Not shared: constructors and Points() copy
type Series struct {
	points []Point
}

// NewSeries copies points into a new Series.
func NewSeries(points []Point) Series {
	cp := make([]Point, len(points))
	copy(cp, points)
	return Series{points: cp}
}

// NewSeriesFromValues builds a series whose x axis is the 1-based sample
// position (x = 1, 2, 3, ...). Used for monthly series such as the backlog.
func NewSeriesFromValues(values []decimal.Decimal) Series {
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Day: i + 1, X: decimal.NewFromInt(int64(i + 1)), Y: v}
	}
	return Series{points: points}
}

func (s Series) Len() int { return len(s.points) }
func (s Series) IsEmpty() bool { return len(s.points) == 0 }
func (s Series) At(i int) Point { return s.points[i] }
func (s Series) First() Point { return s.points[0] }
func (s Series) Last() Point { return s.points[len(s.points)-1] }

// Points returns a copy of the samples.
func (s Series) Points() []Point {
	cp := make([]Point, len(s.points))
	copy(cp, s.points)
	return cp
}

// Values returns a copy of the y values.
func (s Series) Values() []decimal.Decimal {
	values := make([]decimal.Decimal, len(s.points))
	for i, p := range s.points {
		values[i] = p.Y
	}
	return values
}

// Find returns the sample produced for the given day.
func (s Series) Find(day int) (Point, bool) {
	// Simulated series are dense and 1-based, so try the direct index first.
	if day >= 1 && day <= len(s.points) && s.points[day-1].Day == day {
		return s.points[day-1], true
	}
	for _, p := range s.points {
		if p.Day == day {
			return p, true
		}
	}
	return Point{}, false
}
