package handler

import (
	"encoding/json"
	"net/http"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GET /v1/projections/scenarios
func listScenariosHandler(svc *service.ProjectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenarios, err := svc.ListScenarios(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, scenarios)
	}
}

// POST /v1/projections/scenarios
func createScenarioHandler(svc *service.ProjectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sc domain.ProjectionScenario
		if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateScenario(r.Context(), &sc)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// PUT /v1/projections/scenarios/{scenarioId}
func updateScenarioHandler(svc *service.ProjectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sc domain.ProjectionScenario
		if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		sc.ID = chi.URLParam(r, "scenarioId")

		updated, err := svc.UpdateScenario(r.Context(), &sc)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DELETE /v1/projections/scenarios/{scenarioId}
func deleteScenarioHandler(svc *service.ProjectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenarioID := chi.URLParam(r, "scenarioId")

		if err := svc.DeleteScenario(r.Context(), scenarioID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /v1/projections/calculate
func calculateProjectionHandler(svc *service.ProjectionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params domain.ProjectionParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := svc.Calculate(r.Context(), params)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
