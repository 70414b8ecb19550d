/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Money and job
  quantities are decimals inside the engine and float64 on the wire: the
  calculator front end only ever charts and formats them.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Projection:
    ProjectionRequest (wraps factory.ScenarioJSON), ProjectionResponse,
    PointDTO, BreakEvenDTO, RunRateDTO, TriggerDTO, MonthlyBarDTO,
    BookingTargetDTO, DayDTO

  Reference data:
    RegionDTO, PresetDTO

  Saved scenarios:
    SaveScenarioRequest, SavedScenarioDTO, ExampleScenarioDTO

  Leads:
    LeadRequest, LeadResponse, LeadDTO

VALIDATION:
  Validation is done by the factory and generic.Lead, not in DTOs. DTOs
  are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/scenario.go: ScenarioJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/generic"
	"github.com/warp/roi-engine/projection"
)

// =============================================================================
// PROJECTIONS
// =============================================================================

// ProjectionRequest is a scenario plus response options.
type ProjectionRequest struct {
	factory.ScenarioJSON

	// Adds the per-day funnel trace to the response.
	IncludeDays bool `json:"include_days,omitempty"`
}

// ProjectionResponse is a full projection.
type ProjectionResponse struct {
	// The scenario as resolved: preset values and defaults spelled out.
	Scenario factory.ScenarioJSON `json:"scenario"`

	Region        string `json:"region,omitempty"`
	WorkableWeeks int    `json:"workable_weeks,omitempty"`

	Series         []PointDTO         `json:"series"`
	BreakEven      BreakEvenDTO       `json:"break_even"`
	RunRate        RunRateDTO         `json:"run_rate"`
	Trigger        TriggerDTO         `json:"crew_trigger"`
	NextCrewDays   []int              `json:"next_crew_days"`
	MonthlyBars    []MonthlyBarDTO    `json:"monthly_bars"`
	Backlog        []PointDTO         `json:"backlog"`
	BookingTargets []BookingTargetDTO `json:"booking_targets"`
	Days           []DayDTO           `json:"days,omitempty"`
}

// PointDTO is one chart sample.
type PointDTO struct {
	Day int     `json:"day"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// BreakEvenDTO is the break-even answer. Day and weeks are omitted when
// the series never turns non-negative.
type BreakEvenDTO struct {
	Reached      bool     `json:"reached"`
	Day          *float64 `json:"day,omitempty"`
	Weeks        *float64 `json:"weeks,omitempty"`
	DisplayWeeks *float64 `json:"display_weeks,omitempty"`
	Label        string   `json:"label"`
}

// RunRateDTO is the steady-state profit rate.
type RunRateDTO struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// TriggerDTO is the next-crew suggestion.
type TriggerDTO struct {
	Reached bool    `json:"reached"`
	Day     int     `json:"day"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Mode    string  `json:"mode"`
}

// MonthlyBarDTO is one 30-day bucket.
type MonthlyBarDTO struct {
	Month   int     `json:"month"`
	Profit  float64 `json:"profit"`
	Closing float64 `json:"closing"`
}

// BookingTargetDTO is a weeks-booked-out marker.
type BookingTargetDTO struct {
	Profile       string  `json:"profile"`
	Label         string  `json:"label"`
	Threshold     float64 `json:"threshold"`
	MonthFraction float64 `json:"month_fraction"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Reached       bool    `json:"reached"`
}

// DayDTO is one day of the funnel trace.
type DayDTO struct {
	Day                 int     `json:"day"`
	MonthIndex          int     `json:"month_index"`
	Crews               int     `json:"crews"`
	Multiplier          float64 `json:"multiplier"`
	Capacity            float64 `json:"capacity"`
	AdSpend             float64 `json:"ad_spend"`
	Leads               float64 `json:"leads"`
	Bookings            float64 `json:"bookings"`
	JobsDone            float64 `json:"jobs_done"`
	DepositRevenue      float64 `json:"deposit_revenue"`
	FinalPaymentRevenue float64 `json:"final_payment_revenue"`
	Profit              float64 `json:"profit"`
	Cumulative          float64 `json:"cumulative"`
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// RegionDTO is a seasonality region.
type RegionDTO struct {
	Key           string    `json:"key"`
	Name          string    `json:"name"`
	WorkableWeeks int       `json:"workable_weeks"`
	Multipliers   []float64 `json:"multipliers"`
}

// PresetDTO is a white-label preset with its derived per-job figures.
type PresetDTO struct {
	Key             string  `json:"key"`
	Title           string  `json:"title"`
	Tier            string  `json:"tier"`
	GrossPerJob     float64 `json:"gross_per_job"`
	CostPerJob      float64 `json:"cost_per_job"`
	StartupCost     float64 `json:"startup_cost"`
	BaseJobsPerWeek float64 `json:"base_jobs_per_week"`

	// Highest daily budget first.
	Tiers []TierDTO `json:"tiers"`
}

// TierDTO is one selectable ad-spend tier.
type TierDTO struct {
	Name        string  `json:"name"`
	DailyAmount float64 `json:"daily_amount"`
}

// =============================================================================
// SAVED SCENARIOS
// =============================================================================

// SaveScenarioRequest stores a scenario. An empty ID creates a new one.
type SaveScenarioRequest struct {
	ID       string               `json:"id,omitempty"`
	Name     string               `json:"name"`
	Scenario factory.ScenarioJSON `json:"scenario"`
}

// SavedScenarioDTO is a stored scenario definition.
type SavedScenarioDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Version   int                  `json:"version"`
	Scenario  factory.ScenarioJSON `json:"scenario"`
	CreatedAt string               `json:"created_at,omitempty"`
	UpdatedAt string               `json:"updated_at,omitempty"`
}

// ExampleScenarioDTO is a built-in example.
type ExampleScenarioDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Scenario    factory.ScenarioJSON `json:"scenario"`
}

// =============================================================================
// LEADS
// =============================================================================

// LeadRequest is the "email me my projections" form.
type LeadRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	BookAppointment bool   `json:"book_appointment"`
	ProjectionsHTML string `json:"projections_html"`
}

// LeadResponse echoes the projections back for the confirmation view.
type LeadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	HTML    string `json:"html"`
}

// LeadDTO is a stored lead.
type LeadDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	BookAppointment bool   `json:"book_appointment"`
	CreatedAt       string `json:"created_at"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toFloatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}

func toPointDTOs(s generic.Series) []PointDTO {
	dtos := make([]PointDTO, 0, s.Len())
	for _, p := range s.Points() {
		dtos = append(dtos, PointDTO{Day: p.Day, X: toFloat(p.X), Y: toFloat(p.Y)})
	}
	return dtos
}

func toProjectionResponse(sj factory.ScenarioJSON, sc *factory.Scenario, res *projection.Result, includeDays bool) ProjectionResponse {
	resp := ProjectionResponse{
		Scenario:     sj,
		Region:       sc.Region,
		Series:       toPointDTOs(res.Series),
		RunRate:      RunRateDTO{Monthly: toFloat(res.RunRate.Monthly), Yearly: toFloat(res.RunRate.Yearly)},
		NextCrewDays: res.NextCrewDays,
		Backlog:      toPointDTOs(res.Backlog),
		BreakEven: BreakEvenDTO{
			Reached: res.BreakEven.Reached,
			Label:   res.BreakEven.String(),
		},
		Trigger: TriggerDTO{
			Reached: res.Trigger.Reached,
			Day:     res.Trigger.Day,
			X:       toFloat(res.Trigger.X),
			Y:       toFloat(res.Trigger.Y),
			Mode:    string(res.Trigger.Mode),
		},
	}
	if sc.Seasonality != nil {
		resp.WorkableWeeks = sc.Seasonality.WorkableWeeks
	}
	if resp.NextCrewDays == nil {
		resp.NextCrewDays = []int{}
	}
	if res.BreakEven.Reached {
		resp.BreakEven.Day = toFloatPtr(res.BreakEven.Day)
		resp.BreakEven.Weeks = toFloatPtr(res.BreakEven.Weeks)
		resp.BreakEven.DisplayWeeks = toFloatPtr(res.BreakEven.DisplayWeeks)
	}

	resp.MonthlyBars = make([]MonthlyBarDTO, len(res.MonthlyBars))
	for i, b := range res.MonthlyBars {
		resp.MonthlyBars[i] = MonthlyBarDTO{Month: b.Month, Profit: toFloat(b.Profit), Closing: toFloat(b.Closing)}
	}

	resp.BookingTargets = make([]BookingTargetDTO, len(res.BookingTargets))
	for i, t := range res.BookingTargets {
		resp.BookingTargets[i] = BookingTargetDTO{
			Profile:       t.Profile,
			Label:         t.Label,
			Threshold:     toFloat(t.Threshold),
			MonthFraction: toFloat(t.MonthFraction),
			X:             toFloat(t.X),
			Y:             toFloat(t.Y),
			Reached:       t.Reached,
		}
	}

	if includeDays {
		resp.Days = make([]DayDTO, len(res.Days))
		for i, d := range res.Days {
			resp.Days[i] = DayDTO{
				Day:                 d.Day,
				MonthIndex:          d.MonthIndex,
				Crews:               d.Crews,
				Multiplier:          toFloat(d.Multiplier),
				Capacity:            toFloat(d.Capacity),
				AdSpend:             toFloat(d.AdSpend),
				Leads:               toFloat(d.Leads),
				Bookings:            toFloat(d.Bookings),
				JobsDone:            toFloat(d.JobsDone),
				DepositRevenue:      toFloat(d.DepositRevenue),
				FinalPaymentRevenue: toFloat(d.FinalPaymentRevenue),
				Profit:              toFloat(d.Profit),
				Cumulative:          toFloat(d.Cumulative),
			}
		}
	}
	return resp
}

func toRegionDTO(t *generic.SeasonalityTable) RegionDTO {
	multipliers := make([]float64, len(t.Multipliers))
	for i, m := range t.Multipliers {
		multipliers[i] = toFloat(m)
	}
	return RegionDTO{Key: t.Region, Name: t.Name, WorkableWeeks: t.WorkableWeeks, Multipliers: multipliers}
}

func toPresetDTO(p factory.Preset) PresetDTO {
	params := p.Parameters()
	tiers := make([]TierDTO, 0, len(params.AdSpendTiers))
	for _, t := range params.Tiers() {
		tiers = append(tiers, TierDTO{Name: string(t), DailyAmount: toFloat(params.AdSpendTiers[t])})
	}
	return PresetDTO{
		Key:             p.Key,
		Title:           p.Title,
		Tier:            string(params.SelectedTier),
		GrossPerJob:     toFloat(params.GrossRevenuePerJob),
		CostPerJob:      toFloat(params.AverageCostPerJob),
		StartupCost:     toFloat(params.StartupCost),
		BaseJobsPerWeek: toFloat(params.BaseJobsPerWeekPerCrew),
		Tiers:           tiers,
	}
}

func toLeadDTO(l generic.Lead) LeadDTO {
	return LeadDTO{
		ID:              l.ID,
		Name:            l.Name,
		Email:           l.Email,
		Phone:           l.Phone,
		BookAppointment: l.BookAppointment,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
}
