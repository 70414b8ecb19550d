/*
examples.go - Built-in example scenarios

PURPOSE:
  Ready-made scenarios for demos and for trying the calculator without
  filling in a form. Each one exercises a different part of the engine.

AVAILABLE EXAMPLES:
  single-crew:        One crew, Ace Coatings economics, a year out
  second-crew-day-90: A second crew added at the close of day 90
  northeast-winter:   Northeast seasonality starting in November
  aggressive-growth:  Aggressive tier and profile with two crew additions
  closed-form:        Reference economics with the closed-form trigger

USAGE VIA API:
  GET  /api/scenarios/examples
  POST /api/scenarios/examples/load   (saves all of them as scenarios)

ADDING NEW EXAMPLES:
  Append to exampleScenarios. IDs are stable: loading twice updates the
  saved copies instead of duplicating them.

SEE ALSO:
  - handlers.go: ListExampleScenarios, LoadExampleScenarios
  - factory/scenario.go: ScenarioJSON
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/generic"
	"github.com/warp/roi-engine/metrics"
	"github.com/warp/roi-engine/projection"
)

const examplePrefix = "example-"

var exampleScenarios = []ExampleScenarioDTO{
	{
		ID:          "single-crew",
		Name:        "Single crew",
		Description: "One crew on Ace Coatings economics, twelve months, moderate scaling",
		Scenario: factory.ScenarioJSON{
			Preset:  factory.PresetAceCoatings,
			Months:  12,
			Profile: projection.ProfileModerate,
		},
	},
	{
		ID:          "second-crew-day-90",
		Name:        "Second crew at day 90",
		Description: "Same business with a second crew working from day 91",
		Scenario: factory.ScenarioJSON{
			Preset:   factory.PresetAceCoatings,
			Months:   12,
			CrewDays: []int{90},
			Profile:  projection.ProfileModerate,
		},
	},
	{
		ID:          "northeast-winter",
		Name:        "Northeast winter start",
		Description: "Opening in November in the northeast: the first months barely work",
		Scenario: factory.ScenarioJSON{
			Preset:     factory.PresetAceCoatings,
			Months:     12,
			Region:     "northeast",
			StartMonth: intPtr(10),
			Profile:    projection.ProfileConservative,
		},
	},
	{
		ID:          "aggressive-growth",
		Name:        "Aggressive growth",
		Description: "Aggressive ad spend and profile with crews added at day 60 and 120",
		Scenario: factory.ScenarioJSON{
			Preset:   factory.PresetAceCoatings,
			Tier:     string(projection.TierAggressive),
			Months:   18,
			CrewDays: []int{60, 120},
			Profile:  projection.ProfileAggressive,
		},
	},
	{
		ID:          "closed-form",
		Name:        "Closed-form trigger",
		Description: "Reference economics with the analytic crew trigger",
		Scenario: factory.ScenarioJSON{
			Preset:      factory.PresetReference,
			Months:      6,
			Profile:     projection.ProfileAggressive,
			ScalingMode: string(projection.ScalingClosedForm),
		},
	},
}

// ListExampleScenarios returns the built-in examples.
// GET /api/scenarios/examples
func (h *Handler) ListExampleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, exampleScenarios)
}

// LoadExampleScenarios saves every example as a scenario.
// POST /api/scenarios/examples/load
func (h *Handler) LoadExampleScenarios(w http.ResponseWriter, r *http.Request) {
	saved, err := h.loadExamples(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load examples", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) loadExamples(ctx context.Context) ([]SavedScenarioDTO, error) {
	out := make([]SavedScenarioDTO, 0, len(exampleScenarios))
	for _, ex := range exampleScenarios {
		sj := ex.Scenario
		sj.Name = ex.Name
		if _, err := h.Factory.FromJSON(sj); err != nil {
			return nil, fmt.Errorf("example %s: %w", ex.ID, err)
		}
		data, err := json.Marshal(sj)
		if err != nil {
			return nil, err
		}
		rec := generic.ScenarioRecord{ID: examplePrefix + ex.ID, Name: ex.Name, ConfigJSON: string(data)}
		if err := h.Scenarios.SaveScenario(ctx, rec); err != nil {
			metrics.IncScenarioOperation("save", metrics.ResultError)
			return nil, err
		}
		metrics.IncScenarioOperation("save", metrics.ResultSuccess)
		stored, err := h.Scenarios.GetScenario(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		dto, err := toSavedScenarioDTO(*stored)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func intPtr(v int) *int {
	return &v
}
