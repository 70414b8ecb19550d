package factory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
	"github.com/warp/roi-engine/projection"
)

// =============================================================================
// PRESETS - White-label business configurations
// =============================================================================

// Preset is a named starting point for a scenario. Every field of a
// ScenarioJSON overrides what the preset sets.
type Preset struct {
	Key   string
	Title string

	// nil keeps the reference job economics of projection.DefaultParameters.
	Economics *JobEconomics

	Tier projection.AdSpendTier
}

// Parameters returns the business parameters the preset stands for.
func (p Preset) Parameters() projection.BusinessParameters {
	params := projection.DefaultParameters()
	if p.Economics != nil {
		params = p.Economics.Apply(params)
	}
	if p.Tier != "" {
		params.SelectedTier = p.Tier
	}
	return params
}

const (
	PresetAceCoatings = "ace-coatings"
	PresetReference   = "reference"
)

// AceCoatingsEconomics is the garage-floor coating business the calculator
// was first built for: 1,800 sqft at $3.75, 21 crew hours at $48.
func AceCoatingsEconomics() JobEconomics {
	return JobEconomics{
		JobSizeSqft:     decimal.NewFromInt(1800),
		PricePerSqft:    decimal.RequireFromString("3.75"),
		LaborHours:      decimal.NewFromInt(21),
		LaborRate:       decimal.NewFromInt(48),
		MaterialsCost:   decimal.NewFromInt(1526),
		MarketingCost:   decimal.NewFromInt(180),
		BaseJobsPerWeek: decimal.RequireFromString("2.5"),
		EquipmentCost:   decimal.NewFromInt(4800),
		LicenseFee:      decimal.NewFromInt(10000),
	}
}

// BuiltinPresets returns the presets shipped with the engine, keyed by Key.
func BuiltinPresets() map[string]Preset {
	ace := AceCoatingsEconomics()
	return map[string]Preset{
		PresetAceCoatings: {
			Key:       PresetAceCoatings,
			Title:     "Ace Coatings ROI Calculator",
			Economics: &ace,
			Tier:      projection.TierModerate,
		},
		PresetReference: {
			Key:   PresetReference,
			Title: "Reference Crew Business",
			Tier:  projection.TierModerate,
		},
	}
}

// PresetKeys returns the keys of presets, sorted.
func PresetKeys(presets map[string]Preset) []string {
	keys := make([]string, 0, len(presets))
	for k := range presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lookupPreset(presets map[string]Preset, key string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", generic.ErrUnknownPreset, key)
	}
	return p, nil
}
