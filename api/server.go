/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/contracts/*  Contract CRUD and lifecycle operations
  /api/fees/*       Fee templates per vehicle type
  /api/alerts       Background scan results

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", h.ListContracts)
			r.Post("/", h.CreateContract)
			r.Get("/{id}", h.GetContract)
			r.Put("/{id}", h.UpdateContract)
			r.Post("/{id}/payments", h.RecordPayment)
			r.Post("/{id}/notice", h.RecordNotice)
			r.Get("/{id}/evaluation", h.GetEvaluation)
			r.Get("/{id}/validation", h.GetValidation)
			r.Get("/{id}/record", h.GetRecord)
		})

		r.Route("/fees", func(r chi.Router) {
			r.Get("/", h.ListVehicleTypes)
			r.Get("/{vehicleType}", h.GetFees)
		})

		r.Get("/alerts", h.ListAlerts)
	})

	return r
}
