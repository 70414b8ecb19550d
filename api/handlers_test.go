/*
handlers_test.go - HTTP tests for the API handlers

Runs the chi router end to end with the in-memory store and the embedded
seasonality dataset.
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roi-engine/api"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/generic"
	"github.com/warp/roi-engine/generic/store"
	"github.com/warp/roi-engine/seasonality"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, _ := newTestServerWithStore(t)
	return srv
}

func newTestServerWithStore(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()

	regions, err := seasonality.Default()
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC) }
	f := factory.NewScenarioFactory(
		factory.WithRegions(regions),
		factory.WithZipResolver(regions),
		factory.WithClock(clock),
	)

	log := logrus.New()
	log.SetOutput(io.Discard)

	mem := store.NewMemory()
	h := api.NewHandler(mem, mem, regions, regions, f, log)
	srv := httptest.NewServer(api.NewRouter(h, api.RouterOptions{}))
	t.Cleanup(srv.Close)
	return srv, mem
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// PROJECTIONS
// =============================================================================

func TestCreateProjection(t *testing.T) {
	// GIVEN: A three-month reference scenario
	// WHEN: Posting it
	// THEN: One sample per day and every derived figure is present

	srv := newTestServer(t)
	resp := do(t, srv, http.MethodPost, "/api/projections", map[string]any{
		"preset":       "reference",
		"months":       3,
		"profile":      "moderate",
		"include_days": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[api.ProjectionResponse](t, resp)
	assert.Len(t, out.Series, 90)
	assert.Len(t, out.Days, 90)
	assert.Len(t, out.MonthlyBars, 3)
	assert.Len(t, out.BookingTargets, 3)
	assert.Equal(t, "simulated", out.Trigger.Mode)
	assert.Equal(t, 90, out.Scenario.HorizonDays)
	require.NotNil(t, out.Scenario.StartMonth)
	assert.Equal(t, 3, *out.Scenario.StartMonth, "defaults to the clock's month")
	assert.NotEmpty(t, out.BreakEven.Label)
	assert.Equal(t, 1, out.Series[0].Day)
	assert.InDelta(t, out.Series[89].Y, out.Days[89].Cumulative, 1e-6)
}

func TestCreateProjection_RegionFromZip(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, srv, http.MethodPost, "/api/projections", map[string]any{
		"zip":    "02139",
		"months": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[api.ProjectionResponse](t, resp)
	assert.Equal(t, "northeast", out.Region)
	assert.Equal(t, 37, out.WorkableWeeks)
}

func TestCreateProjection_ClientErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"unknown tier", map[string]any{"tier": "Reckless"}},
		{"unknown region", map[string]any{"region": "atlantis"}},
		{"unknown preset", map[string]any{"preset": "nope"}},
		{"horizon too long", map[string]any{"horizon_days": 100000}},
		{"unknown field", map[string]any{"crews": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, http.MethodPost, "/api/projections", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			errResp := decode[api.ErrorResponse](t, resp)
			assert.NotEmpty(t, errResp.Error)
			assert.NotNil(t, errResp.Details)
		})
	}
}

func TestExportProjection(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/projections/export?format=pdf", map[string]any{
		"name":   "Ace Q2",
		"months": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ace-q2.pdf")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	xlsx := do(t, srv, http.MethodPost, "/api/projections/export?format=xlsx", map[string]any{"months": 1})
	require.Equal(t, http.StatusOK, xlsx.StatusCode)
	assert.Contains(t, xlsx.Header.Get("Content-Type"), "spreadsheetml")

	bad := do(t, srv, http.MethodPost, "/api/projections/export?format=csv", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

func TestRegions(t *testing.T) {
	srv := newTestServer(t)

	list := decode[[]api.RegionDTO](t, do(t, srv, http.MethodGet, "/api/regions", nil))
	assert.Len(t, list, 7)
	for _, r := range list {
		assert.Len(t, r.Multipliers, 12, r.Key)
	}

	byKey := do(t, srv, http.MethodGet, "/api/regions/northeast", nil)
	require.Equal(t, http.StatusOK, byKey.StatusCode)
	assert.Equal(t, 37, decode[api.RegionDTO](t, byKey).WorkableWeeks)

	byZip := do(t, srv, http.MethodGet, "/api/regions/94110", nil)
	require.Equal(t, http.StatusOK, byZip.StatusCode)
	assert.Equal(t, "pacific", decode[api.RegionDTO](t, byZip).Key)

	missing := do(t, srv, http.MethodGet, "/api/regions/atlantis", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestListPresets(t *testing.T) {
	srv := newTestServer(t)

	presets := decode[[]api.PresetDTO](t, do(t, srv, http.MethodGet, "/api/presets", nil))
	require.Len(t, presets, 2)
	assert.Equal(t, "ace-coatings", presets[0].Key)
	assert.InDelta(t, 6750.0, presets[0].GrossPerJob, 1e-9)
	assert.InDelta(t, 14800.0, presets[0].StartupCost, 1e-9)

	require.Len(t, presets[0].Tiers, 3)
	assert.Equal(t, []api.TierDTO{
		{Name: "Aggressive", DailyAmount: 75},
		{Name: "Moderate", DailyAmount: 50},
		{Name: "Conservative", DailyAmount: 30},
	}, presets[0].Tiers)
}

// =============================================================================
// SAVED SCENARIOS
// =============================================================================

func TestScenarioLifecycle(t *testing.T) {
	// GIVEN: A saved scenario
	// WHEN: Listing, re-running and deleting it
	// THEN: Each step sees the stored definition, and it is gone afterwards

	srv := newTestServer(t)

	created := do(t, srv, http.MethodPost, "/api/scenarios", map[string]any{
		"name":     "Two crews",
		"scenario": map[string]any{"months": 6, "crew_days": []int{90}},
	})
	require.Equal(t, http.StatusCreated, created.StatusCode)
	saved := decode[api.SavedScenarioDTO](t, created)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 1, saved.Version)
	assert.Equal(t, []int{90}, saved.Scenario.CrewDays)
	assert.Nil(t, saved.Scenario.StartMonth, "stored as submitted")

	list := decode[[]api.SavedScenarioDTO](t, do(t, srv, http.MethodGet, "/api/scenarios", nil))
	assert.Len(t, list, 1)

	projected := do(t, srv, http.MethodPost, "/api/scenarios/"+saved.ID+"/project", nil)
	require.Equal(t, http.StatusOK, projected.StatusCode)
	out := decode[api.ProjectionResponse](t, projected)
	assert.Len(t, out.Series, 180)
	assert.Equal(t, "Two crews", out.Scenario.Name)

	deleted := do(t, srv, http.MethodDelete, "/api/scenarios/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, deleted.StatusCode)

	gone := do(t, srv, http.MethodGet, "/api/scenarios/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)

	again := do(t, srv, http.MethodDelete, "/api/scenarios/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestProjectScenario_StaleDefinition(t *testing.T) {
	// GIVEN: A stored definition naming a preset this server does not know
	// WHEN: Re-running it
	// THEN: 422, not a server error

	srv, mem := newTestServerWithStore(t)
	require.NoError(t, mem.SaveScenario(context.Background(), generic.ScenarioRecord{
		ID:         "stale",
		Name:       "Stale",
		ConfigJSON: `{"preset":"retired-preset","months":3}`,
	}))

	resp := do(t, srv, http.MethodPost, "/api/scenarios/stale/project", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	missing := do(t, srv, http.MethodPost, "/api/scenarios/nope/project", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCreateScenario_Invalid(t *testing.T) {
	srv := newTestServer(t)

	noName := do(t, srv, http.MethodPost, "/api/scenarios", map[string]any{"scenario": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, noName.StatusCode)

	badTier := do(t, srv, http.MethodPost, "/api/scenarios", map[string]any{
		"name":     "x",
		"scenario": map[string]any{"tier": "Reckless"},
	})
	assert.Equal(t, http.StatusBadRequest, badTier.StatusCode)

	list := decode[[]api.SavedScenarioDTO](t, do(t, srv, http.MethodGet, "/api/scenarios", nil))
	assert.Empty(t, list)
}

func TestExampleScenarios(t *testing.T) {
	srv := newTestServer(t)

	examples := decode[[]api.ExampleScenarioDTO](t, do(t, srv, http.MethodGet, "/api/scenarios/examples", nil))
	require.NotEmpty(t, examples)

	loaded := do(t, srv, http.MethodPost, "/api/scenarios/examples/load", nil)
	require.Equal(t, http.StatusOK, loaded.StatusCode)
	saved := decode[[]api.SavedScenarioDTO](t, loaded)
	assert.Len(t, saved, len(examples))

	// Loading twice updates rather than duplicates.
	do(t, srv, http.MethodPost, "/api/scenarios/examples/load", nil)
	list := decode[[]api.SavedScenarioDTO](t, do(t, srv, http.MethodGet, "/api/scenarios", nil))
	assert.Len(t, list, len(examples))

	for _, s := range saved {
		resp := do(t, srv, http.MethodPost, "/api/scenarios/"+s.ID+"/project", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, s.ID)
	}
}

// =============================================================================
// LEADS
// =============================================================================

func TestLeads(t *testing.T) {
	srv := newTestServer(t)

	missing := do(t, srv, http.MethodPost, "/api/leads", map[string]any{"name": "Pat"})
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)

	created := do(t, srv, http.MethodPost, "/api/leads", map[string]any{
		"name":             "Pat",
		"email":            "pat@example.com",
		"book_appointment": true,
		"projections_html": "<p>3.0 weeks</p>",
	})
	require.Equal(t, http.StatusCreated, created.StatusCode)
	lr := decode[api.LeadResponse](t, created)
	assert.True(t, lr.Success)
	assert.Equal(t, "<p>3.0 weeks</p>", lr.HTML)

	leads := decode[[]api.LeadDTO](t, do(t, srv, http.MethodGet, "/api/leads?limit=10", nil))
	require.Len(t, leads, 1)
	assert.Equal(t, "pat@example.com", leads[0].Email)
	assert.True(t, leads[0].BookAppointment)

	bad := do(t, srv, http.MethodGet, "/api/leads?limit=many", nil)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

// =============================================================================
// OPERATIONAL ENDPOINTS
// =============================================================================

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	health := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, health.StatusCode)

	m := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, m.StatusCode)
	body, err := io.ReadAll(m.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
