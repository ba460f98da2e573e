package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/scaligator/internal/adapters/inbound/alerts"
	"github.com/skillcoder/scaligator/internal/infra/appstate"
)

// Routes holds what the router serves.
type Routes struct {
	AppState appstater
	Metrics  http.Handler
	Recorder requestRecorder
}

// NewRouter wires the probe, metrics and alert webhook endpoints.
func NewRouter(logger *slog.Logger, routes Routes) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	// http_requests_total covers the probe and scrape endpoints only.
	router.Group(func(r chi.Router) {
		r.Use(countRequests(routes.Recorder))

		r.Get("/health", appstate.HandleHealth())
		r.Get("/ready", appstate.HandleReady(logger, routes.AppState))
		r.Method(http.MethodGet, "/metrics", routes.Metrics)
	})

	router.Post("/alerts", alerts.Handle(logger))

	router.Get("/-/healthz", appstate.HandleHealthz(logger, routes.AppState))
	router.Get("/-/readyz", appstate.HandleReadyz(logger, routes.AppState))
	router.Get("/-/status", appstate.HandleStatus(logger, routes.AppState))

	return router
}
