package handler

import (
	"net/http"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/service"

	"go.uber.org/zap"
)

// GET /v1/charts?period=1Y&currency=GBP&types=Savings,Stock&categories=Cash&accounts=id1,id2&owner=joint
func chartDataHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		query := domain.ChartQuery{
			Period:     domain.Period(q.Get("period")),
			Owner:      q.Get("owner"),
			AccountIDs: splitParam(q.Get("accounts")),
			Currency:   domain.Currency(q.Get("currency")),
		}
		for _, t := range splitParam(q.Get("types")) {
			query.Types = append(query.Types, domain.AccountType(t))
		}
		for _, c := range splitParam(q.Get("categories")) {
			query.Categories = append(query.Categories, domain.Category(c))
		}

		data, err := svc.GetChartData(r.Context(), query)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}
