/*
server.go - HTTP router and middleware configuration

PURPOSE:

	Configures the HTTP router (chi), middleware stack, and route
	definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
 1. Logger:     Request logging
 2. Recoverer:  Panic recovery (500 instead of crash)
 3. RequestID:  Unique ID per request for tracing
 4. CORS:       Cross-origin requests for the sheet frontend

ROUTE GROUPS:

	/api/sheets/evaluate   Stateless batch evaluation
	/api/entries/*         Raw session rows
	/api/sheet/*           Evaluated session + CSV export
	/api/rules             Window boundary configuration
	/api/holidays/{year}   Generated holiday calendar
	/api/reset             Clear the session

SECURITY NOTE:

	No authentication middleware. The server fronts a single operator's
	session on a trusted network.

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
		// Stateless evaluation
		r.Post("/sheets/evaluate", h.EvaluateSheet)

		// Session entry routes
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.CreateEntry)
			r.Put("/{id}", h.UpdateEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})

		// Evaluated sheet routes
		r.Route("/sheet", func(r chi.Router) {
			r.Get("/", h.GetSheet)
			r.Get("/export", h.ExportSheet)
		})

		// Rule configuration
		r.Route("/rules", func(r chi.Router) {
			r.Get("/", h.GetRules)
			r.Put("/", h.UpdateRules)
		})

		// Holiday calendar
		r.Get("/holidays/{year}", h.ListHolidays)

		// Session reset
		r.Post("/reset", h.ResetSession)
	})

	return r
}
