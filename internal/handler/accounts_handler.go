package handler

import (
	"encoding/json"
	"net/http"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GET /v1/accounts?include_closed=true
func listAccountsHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeClosed := r.URL.Query().Get("include_closed") == "true"

		accounts, err := svc.ListAccounts(r.Context(), includeClosed)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

// POST /v1/accounts
func createAccountHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var acct domain.Account
		if err := json.NewDecoder(r.Body).Decode(&acct); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateAccount(r.Context(), &acct)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// PATCH /v1/accounts/{accountId}
func updateAccountHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var acct domain.Account
		if err := json.NewDecoder(r.Body).Decode(&acct); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		acct.ID = chi.URLParam(r, "accountId")

		updated, err := svc.UpdateAccount(r.Context(), &acct)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// POST /v1/accounts/{accountId}/close
func closeAccountHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountId")

		if err := svc.CloseAccount(r.Context(), accountID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
	}
}

// POST /v1/accounts/reorder
func reorderAccountsHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AccountIDs []string `json:"account_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.ReorderAccounts(r.Context(), req.AccountIDs); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
	}
}
