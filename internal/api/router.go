package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Episcore/internal/store"
)

// NewRouter serves the score API. s may be nil when persistence is disabled.
func NewRouter(st *State, s store.Store, run RunFunc, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	scores := NewScoresHandler(st, s)
	runs := NewRunsHandler(st, s, run, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/scores", scores.List)
		r.Get("/failures", scores.Failures)
		r.Get("/summary", scores.Summary)
		r.Get("/runs", runs.List)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Post("/runs", runs.Create)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
