package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zapponejosh/church-calendar/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/calendar/today
//	GET    /api/v1/calendar/date/{date}
//	GET    /api/v1/calendar/range?start=&end=
//	GET    /api/v1/calendar/export?start=&end=&format=   (issued API key)
//	GET    /api/v1/years/{year}/holy-days
//	GET    /api/v1/years/{year}/feasts
//	POST   /api/v1/admin/keys                            (admin key)
//	GET    /api/v1/admin/keys                            (admin key)
//	DELETE /api/v1/admin/keys/{keyID}                    (admin key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		ChainMiddleware(
			RecoveryMiddleware(logger),
			RequestIDMiddleware(),
			LoggingMiddleware(logger),
			CORSMiddleware(),
		),
		middleware.CleanPath,
		middleware.StripSlashes,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/today", handlers.GetToday)
			r.Get("/date/{date}", handlers.GetDate)
			r.Get("/range", handlers.GetRange)

			r.With(AuthMiddleware(handlers.db, logger)).Get("/export", handlers.Export)
		})

		r.Route("/years/{year}", func(r chi.Router) {
			r.Get("/holy-days", handlers.GetHolyDays)
			r.Get("/feasts", handlers.GetFeasts)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminOnlyMiddleware(cfg, logger))
			r.Post("/keys", handlers.CreateAPIKey)
			r.Get("/keys", handlers.ListAPIKeys)
			r.Delete("/keys/{keyID}", handlers.RevokeAPIKey)
		})
	})

	return r
}
