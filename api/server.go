/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/sales/*      Canonical event stream
  /api/reports/*    Monthly/yearly/destination/pacing reports
  /api/stock/*      Point-in-time snapshots
  /api/goals/*      Monthly goal rows
  /api/platforms    Destination master list
  /api/years        Years with activity
  /api/scenarios/*  Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. origins is the
// CORS allowlist for the frontend.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/sales", func(r chi.Router) {
			r.Get("/unified", h.ListUnifiedSales)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/monthly", h.MonthlyReport)
			r.Get("/yearly", h.YearlyReport)
			r.Get("/destinations", h.DestinationReport)
			r.Get("/pacing", h.PacingReport)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/snapshot", h.StockSnapshot)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/{year}/{month}", h.GetGoal)
			r.Put("/{year}/{month}", h.PutGoal)
		})

		r.Get("/platforms", h.ListPlatforms)
		r.Get("/years", h.ListYears)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "resale-engine",
			"docs":    "/api/reports/monthly?year=2024",
		})
	})

	return r
}
