/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/auth/*        Signup and login
  /api/timesheets/*  Employee timesheet editing
  /api/admin/*       Review, approval and reporting

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

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})

		r.Route("/timesheets", func(r chi.Router) {
			r.Get("/periods", h.ListPeriods)
			r.Get("/week", h.GetWeek)
			r.Post("/save", h.SaveWeek)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/submitted-weeks", h.ListSubmittedWeeks)
			r.Get("/stats", h.GetStats)
			r.Post("/approve", h.ApproveWeek)
			r.Post("/reject", h.RejectWeek)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/filtered", h.GetFilteredReport)
				r.Get("/stats", h.GetReportStats)
				r.Get("/download", h.DownloadReport)
			})
		})
	})

	return r
}
