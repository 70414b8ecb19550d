package seasonality

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/warp/roi-engine/generic"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultRegionsYAML []byte

// =============================================================================
// FILE FORMAT
// =============================================================================

// File is the on-disk layout of a seasonality dataset.
type File struct {
	Regions []Region `yaml:"regions"`
}

// Region is one region definition.
type Region struct {
	Key         string    `yaml:"key" json:"key"`
	Name        string    `yaml:"name" json:"name"`
	ZipPrefixes []string  `yaml:"zip_prefixes" json:"zip_prefixes,omitempty"`
	Multipliers []float64 `yaml:"multipliers" json:"multipliers"`

	// Derived from the multipliers when zero.
	WorkableWeeks int `yaml:"workable_weeks" json:"workable_weeks"`
}

// Table converts the definition into a validated SeasonalityTable.
func (r Region) Table() (*generic.SeasonalityTable, error) {
	if len(r.Multipliers) != generic.MonthsPerYear {
		return nil, fmt.Errorf("%w: region %q has %d multipliers, want %d",
			generic.ErrInvalidSeasonality, r.Key, len(r.Multipliers), generic.MonthsPerYear)
	}

	var scores [generic.MonthsPerYear]float64
	copy(scores[:], r.Multipliers)

	weeks := r.WorkableWeeks
	if weeks == 0 {
		weeks = DeriveWorkableWeeks(scores)
	}

	t := generic.NewSeasonalityTable(normalizeKey(r.Key), scores, weeks)
	t.Name = r.Name
	if t.Name == "" {
		t.Name = r.Key
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// DeriveWorkableWeeks spreads 52 weeks over the year in proportion to the
// monthly scores.
func DeriveWorkableWeeks(scores [generic.MonthsPerYear]float64) int {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(sum * 52 / generic.MonthsPerYear))
}

// =============================================================================
// LOADING
// =============================================================================

// Parse decodes a YAML dataset into a provider.
func Parse(data []byte) (*StaticProvider, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seasonality: %w", err)
	}
	return NewStaticProvider(f.Regions)
}

// Load reads a YAML dataset from disk.
func Load(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seasonality file: %w", err)
	}
	return Parse(data)
}

var (
	defaultOnce     sync.Once
	defaultProvider *StaticProvider
	defaultErr      error
)

// Default returns the provider for the embedded dataset.
func Default() (*StaticProvider, error) {
	defaultOnce.Do(func() {
		defaultProvider, defaultErr = Parse(defaultRegionsYAML)
	})
	return defaultProvider, defaultErr
}

// LoadOrDefault loads path, or the embedded dataset when path is empty.
func LoadOrDefault(path string) (*StaticProvider, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}
