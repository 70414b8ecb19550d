/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request, echoed in the request log
  2. RealIP:        Client address behind a proxy
  3. RequestLogger: One logrus entry per request
  4. Recoverer:     Panic recovery (500 instead of crash)
  5. CORS:          The calculator widget is embedded on other origins

ROUTE GROUPS:
  /api/projections/*    Run and export projections
  /api/regions/*        Seasonality regions (by key or zip)
  /api/presets          White-label presets
  /api/scenarios/*      Saved scenarios and built-in examples
  /api/leads            Lead capture
  /metrics              Prometheus scrape endpoint
  /healthz              Liveness

SECURITY NOTE:
  No authentication middleware. Every endpoint is public, which is what
  an embeddable calculator needs; lead listing should sit behind a proxy
  in production.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Request logging
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/roi-engine/metrics"
)

// RouterOptions carries the deployment-specific router settings.
type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/projections", func(r chi.Router) {
			r.Post("/", h.CreateProjection)
			r.Post("/export", h.ExportProjection)
		})

		r.Route("/regions", func(r chi.Router) {
			r.Get("/", h.ListRegions)
			r.Get("/{key}", h.GetRegion)
		})

		r.Get("/presets", h.ListPresets)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/", h.CreateScenario)
			r.Get("/examples", h.ListExampleScenarios)
			r.Post("/examples/load", h.LoadExampleScenarios)
			r.Get("/{id}", h.GetScenario)
			r.Delete("/{id}", h.DeleteScenario)
			r.Post("/{id}/project", h.ProjectScenario)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.ListLeads)
			r.Post("/", h.CreateLead)
		})
	})

	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
