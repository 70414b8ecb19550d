/*
Package factory provides JSON to Go scenario conversion.

PURPOSE:
  Converts JSON scenario definitions into validated projection inputs.
  The calculator UI, the HTTP API, saved scenarios and the CLI all speak
  the same ScenarioJSON, so a projection can be reproduced from the JSON
  alone.

JSON SCHEMA:
  {
    "name": "Ace, two crews",
    "preset": "ace-coatings",
    "tier": "Aggressive",
    "crew_days": [90],
    "months": 12,
    "region": "northeast",
    "zip": "02139",
    "start_month": 3,
    "profile": "moderate",
    "scaling_mode": "simulated",
    "economics": {
      "job_size_sqft": 1800, "price_per_sqft": 3.75,
      "labor_hours": 21, "labor_rate": 48,
      "materials_cost": 1526, "marketing_cost": 180,
      "base_jobs_per_week": 2.5,
      "equipment_cost": 4800, "license_fee": 10000
    },
    "business": {
      "fixed_daily_overhead": 20, "max_crews": 4,
      "ad_spend_tiers": {"Aggressive": 75, "Moderate": 50, "Conservative": 30}
    }
  }

RESOLUTION ORDER:
  preset -> economics -> business overrides -> tier -> profile payout delay
  (unless business.payout_delay_days is set) -> Validate.
  Region wins over zip. An unknown region is an error; a zip outside
  every region simply has no seasonality. A missing start_month means the
  current calendar month.

SEE ALSO:
  - presets.go: Built-in white-label presets
  - economics.go: JobEconomics
  - projection/params.go: BusinessParameters
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
	"github.com/warp/roi-engine/projection"
)

// MaxHorizonDays bounds a single projection to ten business years.
const MaxHorizonDays = 10 * generic.DaysPerYear

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the JSON representation of a scenario.
type ScenarioJSON struct {
	Name        string         `json:"name,omitempty"`
	Preset      string         `json:"preset,omitempty"`
	Tier        string         `json:"tier,omitempty"`
	CrewDays    []int          `json:"crew_days,omitempty"`
	Months      int            `json:"months,omitempty"`
	HorizonDays int            `json:"horizon_days,omitempty"` // wins over months
	Region      string         `json:"region,omitempty"`
	Zip         string         `json:"zip,omitempty"`
	StartMonth  *int           `json:"start_month,omitempty"` // 0 = January
	Profile     string         `json:"profile,omitempty"`
	ScalingMode string         `json:"scaling_mode,omitempty"` // simulated, closed_form
	Economics   *EconomicsJSON `json:"economics,omitempty"`
	Business    *BusinessJSON  `json:"business,omitempty"`
}

// EconomicsJSON represents JobEconomics.
type EconomicsJSON struct {
	JobSizeSqft     float64 `json:"job_size_sqft"`
	PricePerSqft    float64 `json:"price_per_sqft"`
	LaborHours      float64 `json:"labor_hours"`
	LaborRate       float64 `json:"labor_rate"`
	MaterialsCost   float64 `json:"materials_cost"`
	MarketingCost   float64 `json:"marketing_cost"`
	BaseJobsPerWeek float64 `json:"base_jobs_per_week,omitempty"`
	EquipmentCost   float64 `json:"equipment_cost"`
	LicenseFee      float64 `json:"license_fee"`
}

// BusinessJSON overrides individual business parameters. Absent fields
// keep the preset's value.
type BusinessJSON struct {
	BaseJobsPerWeek    *float64           `json:"base_jobs_per_week,omitempty"`
	GrossRevenuePerJob *float64           `json:"gross_revenue_per_job,omitempty"`
	AverageCostPerJob  *float64           `json:"average_cost_per_job,omitempty"`
	DepositFraction    *float64           `json:"deposit_fraction,omitempty"`
	FixedDailyOverhead *float64           `json:"fixed_daily_overhead,omitempty"`
	StartupCost        *float64           `json:"startup_cost,omitempty"`
	CostPerLead        *float64           `json:"cost_per_lead,omitempty"`
	CloseRate          *float64           `json:"close_rate,omitempty"`
	AdSpendTiers       map[string]float64 `json:"ad_spend_tiers,omitempty"`
	MaxCrews           *int               `json:"max_crews,omitempty"`
	PayoutDelayDays    *int               `json:"payout_delay_days,omitempty"`
}

// =============================================================================
// SCENARIO
// =============================================================================

// Scenario is a fully resolved, validated projection input.
type Scenario struct {
	Name   string
	Preset string

	Params      projection.BusinessParameters
	Crews       projection.CrewSchedule
	Profile     projection.AggressionProfile
	Mode        projection.ScalingMode
	HorizonDays int

	// Empty when the projection runs without seasonality.
	Region          string
	Seasonality     *generic.SeasonalityTable
	StartMonthIndex int
}

// Input is the simulation input for the scenario.
func (s *Scenario) Input() projection.Input {
	return projection.Input{
		Params:          s.Params,
		Crews:           s.Crews,
		Seasonality:     s.Seasonality,
		HorizonDays:     s.HorizonDays,
		StartMonthIndex: s.StartMonthIndex,
	}
}

// Request is the full projection request for the scenario.
func (s *Scenario) Request() projection.Request {
	return projection.Request{
		Input:   s.Input(),
		Profile: s.Profile,
		Mode:    s.Mode,
	}
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// ScenarioFactory converts JSON scenarios to projection inputs.
type ScenarioFactory struct {
	presets       map[string]Preset
	regions       generic.SeasonalityProvider
	zips          generic.ZipResolver
	defaultPreset string
	horizonDays   int
	now           func() time.Time
}

// Option configures a ScenarioFactory.
type Option func(*ScenarioFactory)

// WithRegions sets the seasonality source. Without it every scenario runs
// without seasonality and region keys are rejected.
func WithRegions(p generic.SeasonalityProvider) Option {
	return func(f *ScenarioFactory) { f.regions = p }
}

// WithZipResolver enables zip-code region lookup.
func WithZipResolver(z generic.ZipResolver) Option {
	return func(f *ScenarioFactory) { f.zips = z }
}

// WithDefaultPreset sets the preset used when a scenario names none.
func WithDefaultPreset(key string) Option {
	return func(f *ScenarioFactory) { f.defaultPreset = key }
}

// WithDefaultHorizon sets the horizon used when a scenario gives neither
// months nor horizon_days.
func WithDefaultHorizon(days int) Option {
	return func(f *ScenarioFactory) { f.horizonDays = days }
}

// WithPresets replaces the built-in presets.
func WithPresets(presets map[string]Preset) Option {
	return func(f *ScenarioFactory) { f.presets = presets }
}

// WithClock fixes "now", which decides the default start month.
func WithClock(now func() time.Time) Option {
	return func(f *ScenarioFactory) { f.now = now }
}

// NewScenarioFactory creates a factory with the built-in presets.
func NewScenarioFactory(opts ...Option) *ScenarioFactory {
	f := &ScenarioFactory{
		presets:       BuiltinPresets(),
		regions:       generic.NoSeasonality{},
		defaultPreset: PresetAceCoatings,
		horizonDays:   generic.DefaultHorizon,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Presets returns the factory's presets.
func (f *ScenarioFactory) Presets() map[string]Preset {
	out := make(map[string]Preset, len(f.presets))
	for k, v := range f.presets {
		out[k] = v
	}
	return out
}

// ParseScenario parses a JSON string into a Scenario.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (*Scenario, error) {
	var sj ScenarioJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON resolves a ScenarioJSON into a validated Scenario.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (*Scenario, error) {
	presetKey := sj.Preset
	if presetKey == "" {
		presetKey = f.defaultPreset
	}
	preset, err := lookupPreset(f.presets, presetKey)
	if err != nil {
		return nil, err
	}

	params := preset.Parameters()
	if sj.Economics != nil {
		params = parseEconomics(*sj.Economics).Apply(params)
	}
	if sj.Business != nil {
		params = applyBusiness(params, *sj.Business)
	}
	if sj.Tier != "" {
		tier, err := parseTier(params, sj.Tier)
		if err != nil {
			return nil, err
		}
		params.SelectedTier = tier
	}

	profileName := sj.Profile
	if profileName == "" {
		profileName = projection.ProfileModerate
	}
	profile, err := projection.LookupProfile(profileName)
	if err != nil {
		return nil, err
	}
	if sj.Business == nil || sj.Business.PayoutDelayDays == nil {
		params = params.WithProfile(profile)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	mode, err := projection.ParseScalingMode(sj.ScalingMode)
	if err != nil {
		return nil, err
	}

	horizon, err := f.resolveHorizon(sj)
	if err != nil {
		return nil, err
	}

	region, table, err := f.resolveRegion(sj.Region, sj.Zip)
	if err != nil {
		return nil, err
	}

	start := generic.MonthIndexOf(f.now().Month())
	if sj.StartMonth != nil {
		start = generic.NormalizeMonthIndex(*sj.StartMonth)
	}

	return &Scenario{
		Name:            sj.Name,
		Preset:          preset.Key,
		Params:          params,
		Crews:           projection.NewCrewSchedule(sj.CrewDays...),
		Profile:         profile,
		Mode:            mode,
		HorizonDays:     horizon,
		Region:          region,
		Seasonality:     table,
		StartMonthIndex: start,
	}, nil
}

// ToJSON converts a Scenario back to an explicit ScenarioJSON: every
// business parameter is spelled out, so the result does not depend on the
// preset's current values.
func (f *ScenarioFactory) ToJSON(s *Scenario) ScenarioJSON {
	p := s.Params
	start := s.StartMonthIndex
	tiers := make(map[string]float64, len(p.AdSpendTiers))
	for tier, amount := range p.AdSpendTiers {
		tiers[string(tier)] = amount.InexactFloat64()
	}
	maxCrews, payout := p.MaxCrews, p.PayoutDelayDays

	return ScenarioJSON{
		Name:        s.Name,
		Preset:      s.Preset,
		Tier:        string(p.SelectedTier),
		CrewDays:    s.Crews.Days(),
		HorizonDays: s.HorizonDays,
		Region:      s.Region,
		StartMonth:  &start,
		Profile:     s.Profile.Name,
		ScalingMode: string(s.Mode),
		Business: &BusinessJSON{
			BaseJobsPerWeek:    floatPtr(p.BaseJobsPerWeekPerCrew),
			GrossRevenuePerJob: floatPtr(p.GrossRevenuePerJob),
			AverageCostPerJob:  floatPtr(p.AverageCostPerJob),
			DepositFraction:    floatPtr(p.DepositFraction),
			FixedDailyOverhead: floatPtr(p.FixedDailyOverhead),
			StartupCost:        floatPtr(p.StartupCost),
			CostPerLead:        floatPtr(p.CostPerLead),
			CloseRate:          floatPtr(p.CloseRate),
			AdSpendTiers:       tiers,
			MaxCrews:           &maxCrews,
			PayoutDelayDays:    &payout,
		},
	}
}

func (f *ScenarioFactory) resolveHorizon(sj ScenarioJSON) (int, error) {
	horizon := f.horizonDays
	switch {
	case sj.HorizonDays != 0:
		horizon = sj.HorizonDays
	case sj.Months != 0:
		horizon = generic.HorizonForMonths(sj.Months)
	}
	if horizon <= 0 || horizon > MaxHorizonDays {
		return 0, fmt.Errorf("%w: %d days (allowed 1..%d)", generic.ErrInvalidHorizon, horizon, MaxHorizonDays)
	}
	return horizon, nil
}

func (f *ScenarioFactory) resolveRegion(region, zip string) (string, *generic.SeasonalityTable, error) {
	if region != "" {
		table, ok := f.regions.Lookup(region)
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", generic.ErrUnknownRegion, region)
		}
		return table.Region, table, nil
	}
	if zip == "" || f.zips == nil {
		return "", nil, nil
	}
	key, ok := f.zips.RegionForZip(zip)
	if !ok {
		return "", nil, nil
	}
	table, ok := f.regions.Lookup(key)
	if !ok {
		return "", nil, nil
	}
	return key, table, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseEconomics(ej EconomicsJSON) JobEconomics {
	return JobEconomics{
		JobSizeSqft:     decimal.NewFromFloat(ej.JobSizeSqft),
		PricePerSqft:    decimal.NewFromFloat(ej.PricePerSqft),
		LaborHours:      decimal.NewFromFloat(ej.LaborHours),
		LaborRate:       decimal.NewFromFloat(ej.LaborRate),
		MaterialsCost:   decimal.NewFromFloat(ej.MaterialsCost),
		MarketingCost:   decimal.NewFromFloat(ej.MarketingCost),
		BaseJobsPerWeek: decimal.NewFromFloat(ej.BaseJobsPerWeek),
		EquipmentCost:   decimal.NewFromFloat(ej.EquipmentCost),
		LicenseFee:      decimal.NewFromFloat(ej.LicenseFee),
	}
}

func applyBusiness(p projection.BusinessParameters, bj BusinessJSON) projection.BusinessParameters {
	cp := p.Clone()
	setDecimal(&cp.BaseJobsPerWeekPerCrew, bj.BaseJobsPerWeek)
	setDecimal(&cp.GrossRevenuePerJob, bj.GrossRevenuePerJob)
	setDecimal(&cp.AverageCostPerJob, bj.AverageCostPerJob)
	setDecimal(&cp.DepositFraction, bj.DepositFraction)
	setDecimal(&cp.FixedDailyOverhead, bj.FixedDailyOverhead)
	setDecimal(&cp.StartupCost, bj.StartupCost)
	setDecimal(&cp.CostPerLead, bj.CostPerLead)
	setDecimal(&cp.CloseRate, bj.CloseRate)
	if len(bj.AdSpendTiers) > 0 {
		cp.AdSpendTiers = make(map[projection.AdSpendTier]decimal.Decimal, len(bj.AdSpendTiers))
		for name, amount := range bj.AdSpendTiers {
			cp.AdSpendTiers[projection.AdSpendTier(name)] = decimal.NewFromFloat(amount)
		}
	}
	if bj.MaxCrews != nil {
		cp.MaxCrews = *bj.MaxCrews
	}
	if bj.PayoutDelayDays != nil {
		cp.PayoutDelayDays = *bj.PayoutDelayDays
	}
	return cp
}

// parseTier matches a tier name case-insensitively against the configured tiers.
func parseTier(p projection.BusinessParameters, name string) (projection.AdSpendTier, error) {
	for _, tier := range p.Tiers() {
		if strings.EqualFold(string(tier), strings.TrimSpace(name)) {
			return tier, nil
		}
	}
	return "", fmt.Errorf("%w: %q", generic.ErrUnknownTier, name)
}

func setDecimal(dst *decimal.Decimal, v *float64) {
	if v != nil {
		*dst = decimal.NewFromFloat(*v)
	}
}

func floatPtr(d decimal.Decimal) *float64 {
	v := d.InexactFloat64()
	return &v
}
