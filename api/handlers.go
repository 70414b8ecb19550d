/*
handlers.go - HTTP API handlers for the projection calculator

PURPOSE:
  Exposes the projection engine via REST API. Handles HTTP request and
  response, JSON serialization, and delegates to the factory and engine.

ENDPOINTS:
  Projections:
    POST   /api/projections                 Run a projection from ScenarioJSON
    POST   /api/projections/export?format=  Same, rendered as pdf or xlsx

  Reference data:
    GET    /api/regions                     List seasonality regions
    GET    /api/regions/{key}               One region, by key or zip code
    GET    /api/presets                     White-label presets

  Saved scenarios:
    GET    /api/scenarios                   List saved scenarios
    POST   /api/scenarios                   Save (create or update)
    GET    /api/scenarios/{id}              Get one
    DELETE /api/scenarios/{id}              Delete
    POST   /api/scenarios/{id}/project      Re-run a saved scenario

  Leads:
    GET    /api/leads?limit=                Newest first
    POST   /api/leads                       "Email me my projections"

ARCHITECTURE:
  Handler holds its dependencies as interfaces, so tests run against the
  in-memory store and production against SQLite:
  - Scenarios, Leads: persistence of caller input
  - Regions: seasonality lookup
  - Zips: optional zip-code to region resolution
  - Factory: ScenarioJSON to projection input

REQUEST FLOW:
  1. Parse HTTP request
  2. Resolve the scenario (factory validates everything)
  3. projection.Run
  4. Serialize response, record metrics

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, including unknown region/preset/tier named in a body
  - 404: Resource in the path not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - examples.go: Built-in example scenarios
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/generic"
	"github.com/warp/roi-engine/metrics"
	"github.com/warp/roi-engine/projection"
	"github.com/warp/roi-engine/report"
)

// maxBodyBytes bounds request bodies; projections HTML in leads is the largest.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Scenarios generic.ScenarioStore
	Leads     generic.LeadStore
	Regions   generic.SeasonalityProvider
	Zips      generic.ZipResolver
	Factory   *factory.ScenarioFactory
	Log       logrus.FieldLogger

	now func() time.Time
}

// NewHandler creates a handler. zips may be nil.
func NewHandler(
	scenarios generic.ScenarioStore,
	leads generic.LeadStore,
	regions generic.SeasonalityProvider,
	zips generic.ZipResolver,
	f *factory.ScenarioFactory,
	log logrus.FieldLogger,
) *Handler {
	if regions == nil {
		regions = generic.NoSeasonality{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Scenarios: scenarios,
		Leads:     leads,
		Regions:   regions,
		Zips:      zips,
		Factory:   f,
		Log:       log,
		now:       time.Now,
	}
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// CreateProjection runs a projection.
// POST /api/projections
func (h *Handler) CreateProjection(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc, res, err := h.project(req.ScenarioJSON)
	if err != nil {
		writeError(w, bodyErrorStatus(err), "Projection failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectionResponse(h.Factory.ToJSON(sc), sc, res, req.IncludeDays))
}

// ExportProjection runs a projection and returns it as a document.
// POST /api/projections/export?format=pdf|xlsx
func (h *Handler) ExportProjection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rawFormat := r.URL.Query().Get("format")
	if rawFormat == "" {
		rawFormat = string(report.FormatPDF)
	}
	format, err := report.ParseFormat(rawFormat)
	if err != nil {
		metrics.ObserveExport(rawFormat, metrics.ResultError, time.Since(start))
		writeError(w, http.StatusBadRequest, "Invalid export format", err)
		return
	}

	var req ProjectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(start))
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc, res, err := h.project(req.ScenarioJSON)
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(start))
		writeError(w, bodyErrorStatus(err), "Projection failed", err)
		return
	}

	data, err := report.Build(format, h.reportMeta(sc), res)
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(start))
		writeError(w, http.StatusInternalServerError, "Failed to render export", err)
		return
	}
	metrics.ObserveExport(string(format), metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(sc.Name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Log.WithError(err).Warn("export write failed")
	}
}

// project resolves and runs a scenario, recording metrics either way.
func (h *Handler) project(sj factory.ScenarioJSON) (*factory.Scenario, *projection.Result, error) {
	start := time.Now()

	sc, err := h.Factory.FromJSON(sj)
	if err != nil {
		metrics.ObserveProjection(metrics.ResultError, time.Since(start))
		return nil, nil, err
	}
	res, err := projection.Run(sc.Request())
	if err != nil {
		metrics.ObserveProjection(metrics.ResultError, time.Since(start))
		return nil, nil, err
	}

	metrics.ObserveProjection(metrics.ResultSuccess, time.Since(start))
	metrics.IncBreakEven(res.BreakEven.Reached)
	h.Log.WithFields(logrus.Fields{
		"preset":     sc.Preset,
		"region":     sc.Region,
		"horizon":    sc.HorizonDays,
		"crews":      sc.Input().FinalCrews(),
		"break_even": res.BreakEven.String(),
		"duration":   time.Since(start).String(),
	}).Debug("projection computed")
	return sc, res, nil
}

func (h *Handler) reportMeta(sc *factory.Scenario) report.Meta {
	title := sc.Name
	if title == "" {
		if p, ok := h.Factory.Presets()[sc.Preset]; ok {
			title = p.Title
		}
	}
	return report.Meta{
		Title:       title,
		Region:      sc.Region,
		Profile:     sc.Profile.Name,
		GeneratedAt: h.now(),
	}
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListRegions returns every seasonality region.
// GET /api/regions
func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	keys := h.Regions.Regions()
	dtos := make([]RegionDTO, 0, len(keys))
	for _, key := range keys {
		t, ok := h.Regions.Lookup(key)
		if !ok {
			continue
		}
		dtos = append(dtos, toRegionDTO(t))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRegion returns one region. The key may also be a US zip code.
// GET /api/regions/{key}
func (h *Handler) GetRegion(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if t, ok := h.Regions.Lookup(key); ok {
		writeJSON(w, http.StatusOK, toRegionDTO(t))
		return
	}
	if h.Zips != nil && isDigits(key) {
		if region, ok := h.Zips.RegionForZip(key); ok {
			if t, ok := h.Regions.Lookup(region); ok {
				writeJSON(w, http.StatusOK, toRegionDTO(t))
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, "Region not found", fmt.Errorf("%w: %q", generic.ErrUnknownRegion, key))
}

// ListPresets returns the white-label presets.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := h.Factory.Presets()
	dtos := make([]PresetDTO, 0, len(presets))
	for _, key := range factory.PresetKeys(presets) {
		dtos = append(dtos, toPresetDTO(presets[key]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SAVED SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns every saved scenario.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	records, err := h.Scenarios.ListScenarios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scenarios", err)
		return
	}

	dtos := make([]SavedScenarioDTO, 0, len(records))
	for _, rec := range records {
		dto, err := toSavedScenarioDTO(rec)
		if err != nil {
			h.Log.WithError(err).WithField("scenario_id", rec.ID).Warn("skipping unreadable scenario")
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateScenario validates and saves a scenario definition.
// POST /api/scenarios
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var req SaveScenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = req.Scenario.Name
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Scenario name is required", nil)
		return
	}
	req.Scenario.Name = req.Name

	// Stored as submitted: a scenario without start_month keeps following
	// the calendar when it is re-run.
	if _, err := h.Factory.FromJSON(req.Scenario); err != nil {
		metrics.IncScenarioOperation("save", metrics.ResultError)
		writeError(w, bodyErrorStatus(err), "Invalid scenario", err)
		return
	}
	data, err := json.Marshal(req.Scenario)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode scenario", err)
		return
	}

	id := req.ID
	if id == "" {
		id = fmt.Sprintf("scn-%d", h.now().UnixNano())
	}
	ctx := r.Context()
	if err := h.Scenarios.SaveScenario(ctx, generic.ScenarioRecord{ID: id, Name: req.Name, ConfigJSON: string(data)}); err != nil {
		metrics.IncScenarioOperation("save", metrics.ResultError)
		writeError(w, http.StatusInternalServerError, "Failed to save scenario", err)
		return
	}
	metrics.IncScenarioOperation("save", metrics.ResultSuccess)

	dto, err := h.getSavedScenario(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// GetScenario returns one saved scenario.
// GET /api/scenarios/{id}
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	dto, err := h.getSavedScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, pathErrorStatus(err), "Failed to get scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// DeleteScenario removes a saved scenario.
// DELETE /api/scenarios/{id}
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.Scenarios.DeleteScenario(r.Context(), chi.URLParam(r, "id")); err != nil {
		metrics.IncScenarioOperation("delete", metrics.ResultError)
		writeError(w, pathErrorStatus(err), "Failed to delete scenario", err)
		return
	}
	metrics.IncScenarioOperation("delete", metrics.ResultSuccess)
	w.WriteHeader(http.StatusNoContent)
}

// ProjectScenario re-runs a saved scenario.
// POST /api/scenarios/{id}/project
func (h *Handler) ProjectScenario(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Scenarios.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		metrics.IncScenarioOperation("project", metrics.ResultError)
		writeError(w, pathErrorStatus(err), "Failed to get scenario", err)
		return
	}

	var sj factory.ScenarioJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &sj); err != nil {
		metrics.IncScenarioOperation("project", metrics.ResultError)
		writeError(w, http.StatusInternalServerError, "Stored scenario is unreadable", err)
		return
	}

	sc, res, err := h.project(sj)
	if err != nil {
		metrics.IncScenarioOperation("project", metrics.ResultError)
		writeError(w, storedErrorStatus(err), "Saved scenario no longer resolves", err)
		return
	}
	metrics.IncScenarioOperation("project", metrics.ResultSuccess)

	includeDays := r.URL.Query().Get("include_days") == "true"
	writeJSON(w, http.StatusOK, toProjectionResponse(h.Factory.ToJSON(sc), sc, res, includeDays))
}

func (h *Handler) getSavedScenario(ctx context.Context, id string) (SavedScenarioDTO, error) {
	rec, err := h.Scenarios.GetScenario(ctx, id)
	if err != nil {
		return SavedScenarioDTO{}, err
	}
	return toSavedScenarioDTO(*rec)
}

func toSavedScenarioDTO(rec generic.ScenarioRecord) (SavedScenarioDTO, error) {
	var sj factory.ScenarioJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &sj); err != nil {
		return SavedScenarioDTO{}, fmt.Errorf("scenario %q: %w", rec.ID, err)
	}
	dto := SavedScenarioDTO{
		ID:       rec.ID,
		Name:     rec.Name,
		Version:  rec.Version,
		Scenario: sj,
	}
	if !rec.CreatedAt.IsZero() {
		dto.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return dto, nil
}

// =============================================================================
// LEAD HANDLERS
// =============================================================================

// CreateLead stores an "email me my projections" submission and echoes the
// projections back. Sending the email is someone else's job.
// POST /api/leads
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req LeadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	lead := generic.Lead{
		ID:              fmt.Sprintf("lead-%d", h.now().UnixNano()),
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		BookAppointment: req.BookAppointment,
		ProjectionsHTML: req.ProjectionsHTML,
		CreatedAt:       h.now(),
	}
	if err := lead.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lead", err)
		return
	}
	if err := h.Leads.SaveLead(r.Context(), lead); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save lead", err)
		return
	}
	metrics.IncLead(lead.BookAppointment)
	h.Log.WithFields(logrus.Fields{
		"lead_id":          lead.ID,
		"book_appointment": lead.BookAppointment,
	}).Info("lead captured")

	writeJSON(w, http.StatusCreated, LeadResponse{Success: true, ID: lead.ID, HTML: lead.ProjectionsHTML})
}

// ListLeads returns captured leads, newest first.
// GET /api/leads?limit=50
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	leads, err := h.Leads.ListLeads(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leads", err)
		return
	}
	dtos := make([]LeadDTO, len(leads))
	for i, l := range leads {
		dtos[i] = toLeadDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("empty request body")
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// bodyErrorStatus maps errors about a request body: a lookup that fails
// there is the caller's mistake, not a missing resource.
func bodyErrorStatus(err error) int {
	if generic.IsClientError(err) || generic.IsNotFound(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// pathErrorStatus maps errors about the resource named in the URL.
func pathErrorStatus(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case generic.IsClientError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// storedErrorStatus maps errors from re-running a saved definition. It was
// valid when saved, so a client or lookup error means a preset or region
// has since changed.
func storedErrorStatus(err error) int {
	if generic.IsClientError(err) || generic.IsNotFound(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
