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
  /api/users/*           User management
  /api/leave_types/*     Accrual rule management
  /api/leave_balances/*  Ledger rows, summary, reset
  /api/leave_requests/*  Request lifecycle, preview, projection

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
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		r.Route("/leave_types", func(r chi.Router) {
			r.Get("/", h.ListLeaveTypes)
			r.Post("/", h.CreateLeaveType)
			r.Get("/{id}", h.GetLeaveType)
			r.Put("/{id}", h.UpdateLeaveType)
			r.Delete("/{id}", h.DeleteLeaveType)
		})

		r.Route("/leave_balances", func(r chi.Router) {
			r.Get("/", h.ListBalances)
			r.Get("/summary", h.GetBalanceSummary)
			r.Post("/", h.UpsertBalance)
			r.Get("/{id}", h.GetBalance)
			r.Put("/{id}", h.UpdateBalance)
			r.Delete("/{id}", h.DeleteBalance)
			r.Post("/{id}/reset", h.ResetBalance)
		})

		r.Route("/leave_requests", func(r chi.Router) {
			r.Get("/", h.ListLeaveRequests)
			r.Post("/", h.CreateLeaveRequest)
			r.Post("/calculate_hours", h.CalculateHours)
			r.Get("/{id}", h.GetLeaveRequest)
			r.Put("/{id}", h.UpdateLeaveRequest)
			r.Delete("/{id}", h.DeleteLeaveRequest)
			r.Post("/{id}/submit", h.SubmitLeaveRequest)
			r.Post("/{id}/approve", h.ApproveLeaveRequest)
			r.Post("/{id}/cancel", h.CancelLeaveRequest)
			r.Get("/{id}/projected_balance", h.ProjectedBalance)
		})
	})

	return r
}
