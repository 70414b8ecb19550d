package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SEASONALITY - Monthly workability multipliers
// =============================================================================

// SeasonalityTable holds twelve monthly workability scores in [0,1]
// (index 0 = January) and the number of workable weeks they add up to.
//
// A nil *SeasonalityTable is valid everywhere and means "no seasonal data":
// every day gets a multiplier of 1.
type SeasonalityTable struct {
	Region        string
	Name          string
	Multipliers   [MonthsPerYear]decimal.Decimal
	WorkableWeeks int
}

// NewSeasonalityTable builds a table from float scores, as stored in data files.
func NewSeasonalityTable(region string, scores [MonthsPerYear]float64, workableWeeks int) *SeasonalityTable {
	t := &SeasonalityTable{Region: region, WorkableWeeks: workableWeeks}
	for i, s := range scores {
		t.Multipliers[i] = decimal.NewFromFloat(s)
	}
	return t
}

// Multiplier returns the score for a month index. Safe on a nil table.
func (t *SeasonalityTable) Multiplier(monthIndex int) decimal.Decimal {
	if t == nil {
		return decimalOne
	}
	return t.Multipliers[NormalizeMonthIndex(monthIndex)]
}

// Validate checks that every score is within [0,1].
func (t *SeasonalityTable) Validate() error {
	if t == nil {
		return nil
	}
	for i, m := range t.Multipliers {
		if m.IsNegative() || m.GreaterThan(decimalOne) {
			return &SeasonalityError{Region: t.Region, Month: i, Value: m}
		}
	}
	if t.WorkableWeeks < 0 || t.WorkableWeeks > 52 {
		return fmt.Errorf("%w: region %q workable weeks %d outside 0..52",
			ErrInvalidSeasonality, t.Region, t.WorkableWeeks)
	}
	return nil
}

// Clone returns an independent copy. Multipliers is an array, so a value
// copy is already deep.
func (t *SeasonalityTable) Clone() *SeasonalityTable {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// =============================================================================
// SEASONALITY PROVIDER - Keyed lookup, no compile-time dataset
// =============================================================================

// SeasonalityProvider supplies seasonal tables by region key.
//
// The engine never imports a dataset directly. Implementations:
//   - seasonality.StaticProvider: YAML / embedded default regions
//   - store/sqlite.Store: regions persisted in the database
//   - NoSeasonality: always absent
type SeasonalityProvider interface {
	// Lookup returns the table for a region key. ok=false means the region
	// has no data and the caller should simulate without seasonality.
	Lookup(region string) (table *SeasonalityTable, ok bool)

	// Regions lists every region key the provider knows, sorted.
	Regions() []string
}

// ZipResolver maps a postal code to a region key.
type ZipResolver interface {
	RegionForZip(zip string) (region string, ok bool)
}

// NoSeasonality is a provider with no data at all.
type NoSeasonality struct{}

func (NoSeasonality) Lookup(string) (*SeasonalityTable, bool) { return nil, false }
func (NoSeasonality) Regions() []string { return nil }

// ResolveSeasonality looks up region on p, tolerating a nil provider and
// an empty key. Absent data yields a nil table.
func ResolveSeasonality(p SeasonalityProvider, region string) *SeasonalityTable {
	if p == nil || region == "" {
		return nil
	}
	t, ok := p.Lookup(region)
	if !ok {
		return nil
	}
	return t
}
