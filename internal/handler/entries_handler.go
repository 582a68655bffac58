package handler

import (
	"encoding/json"
	"net/http"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GET /v1/accounts/{accountId}/entries
func getEntriesHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountId")

		entries, err := svc.GetEntries(r.Context(), accountID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// PUT /v1/accounts/{accountId}/entries/{month}
//
// The create_only query flag turns the upsert into a strict insert so
// clients can detect accidental double submission of a month.
func upsertEntryHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountId")

		month, err := domain.ParseMonth(chi.URLParam(r, "month"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must use the YYYY-MM format")
			return
		}

		var fields domain.EntryFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		createOnly := r.URL.Query().Get("create_only") == "true"

		entries, err := svc.UpsertEntry(r.Context(), accountID, month, fields, createOnly)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// GET /v1/accounts/{accountId}/value-change?period=1M
func valueChangeHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountId")
		period := domain.Period(r.URL.Query().Get("period"))
		if period == "" {
			period = domain.PeriodAll
		}

		change, err := svc.GetValueChange(r.Context(), accountID, period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, change)
	}
}
