// Package handler exposes the dashboard API over HTTP. Routes follow the
// contract consumed by the net-worth dashboard frontend.
package handler

import (
	"net/http"

	"github.com/finsight/networth-go/internal/infra/observability"
	"github.com/finsight/networth-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(dashSvc *service.DashboardService, projSvc *service.ProjectionService, metrics *observability.Metrics, logger *zap.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Accounts
		r.Get("/accounts", listAccountsHandler(dashSvc, logger))
		r.Post("/accounts", createAccountHandler(dashSvc, logger))
		r.Patch("/accounts/{accountId}", updateAccountHandler(dashSvc, logger))
		r.Post("/accounts/{accountId}/close", closeAccountHandler(dashSvc, logger))
		r.Post("/accounts/reorder", reorderAccountsHandler(dashSvc, logger))

		// Monthly entries and derived metrics
		r.Get("/accounts/{accountId}/entries", getEntriesHandler(dashSvc, logger))
		r.Put("/accounts/{accountId}/entries/{month}", upsertEntryHandler(dashSvc, logger))
		r.Get("/accounts/{accountId}/value-change", valueChangeHandler(dashSvc, logger))

		// Chart data
		r.Get("/charts", chartDataHandler(dashSvc, logger))

		// Projections
		r.Get("/projections/scenarios", listScenariosHandler(projSvc, logger))
		r.Post("/projections/scenarios", createScenarioHandler(projSvc, logger))
		r.Put("/projections/scenarios/{scenarioId}", updateScenarioHandler(projSvc, logger))
		r.Delete("/projections/scenarios/{scenarioId}", deleteScenarioHandler(projSvc, logger))
		r.Post("/projections/calculate", calculateProjectionHandler(projSvc, logger))
	})

	return r
}
