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
  /api/org/*        Organization surface (attendance, events, history)
  /api/admin/*      Admin surface (audit, review, approval)
  /api/events/*     Volunteer registration
  /api/volunteers/* Balance views
  /api/scenarios/*  Demo scenarios (dev only)

IDENTITY:
  No authentication middleware here; the fronting auth layer injects the
  caller identity headers. Handlers reject requests missing them.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Org-ID", "X-Admin-ID", "X-Volunteer-ID"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Organization routes
		r.Route("/org", func(r chi.Router) {
			r.Post("/events", h.CreateEvent)
			r.Get("/events", h.ListOrgEvents)
			r.Post("/events/{eventID}/attendance", h.SubmitAttendance)
			r.Get("/events/{eventID}/attendance", h.GetAttendanceSummary)
			r.Get("/points-history", h.GetOrgPointsHistory)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Get("/points/distributions", h.ListDistributions)
			r.Put("/points/distributions/{registrationID}/review", h.ReviewDistribution)
			r.Get("/points/by-organization", h.PointsByOrganization)
			r.Get("/points/integrity", h.CheckIntegrity)
			r.Get("/stats", h.GetStats)
			r.Put("/events/{eventID}/status", h.SetEventStatus)
		})

		// Volunteer routes
		r.Post("/events/{eventID}/register", h.RegisterForEvent)
		r.Get("/volunteers/{volunteerID}/balance", h.GetVolunteerBalance)
		r.Get("/leaderboard", h.GetLeaderboard)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
