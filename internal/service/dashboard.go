// Package service provides the business logic layer (use cases).
// DashboardService orchestrates storage and rate lookups around the pure
// derivation engine; ProjectionService handles scenario management and
// forward simulations.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/engine"
	"github.com/finsight/networth-go/internal/fx"
	"github.com/finsight/networth-go/internal/infra/observability"
	"github.com/finsight/networth-go/internal/infra/resilience"
	"github.com/finsight/networth-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var dashTracer = otel.Tracer("service/dashboard")

// DashboardService serves accounts, entries, derived metrics, and chart
// data. Derivations are recomputed on every read; nothing derived is ever
// persisted, so edits to past months can never leave stale growth figures.
type DashboardService struct {
	store    port.Store
	fx       *fx.Converter
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewDashboardService creates the dashboard service with all dependencies
// injected. maxConcurrency caps the per-account fan-out when assembling
// chart data.
func NewDashboardService(store port.Store, converter *fx.Converter, maxConcurrency int, metrics *observability.Metrics, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		store:    store,
		fx:       converter,
		bulkhead: resilience.NewBulkhead(maxConcurrency),
		metrics:  metrics,
		logger:   logger,
	}
}

// ============================================================
// Accounts
// ============================================================

func (s *DashboardService) ListAccounts(ctx context.Context, includeClosed bool) ([]domain.Account, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.ListAccounts")
	defer span.End()

	return s.store.ListAccounts(ctx, includeClosed)
}

func (s *DashboardService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.GetAccount")
	defer span.End()

	return s.store.GetAccount(ctx, accountID)
}

// CreateAccount validates and stores a new account. Category defaults from
// the account type when omitted.
func (s *DashboardService) CreateAccount(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.CreateAccount")
	defer span.End()

	if err := validateAccount(acct); err != nil {
		return nil, err
	}
	if acct.Category == "" {
		acct.Category = acct.Type.DefaultCategory()
	}
	return s.store.CreateAccount(ctx, acct)
}

// UpdateAccount validates and persists changes to an existing account.
func (s *DashboardService) UpdateAccount(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.UpdateAccount")
	defer span.End()

	if acct.ID == "" {
		return nil, &domain.ErrValidation{Field: "id", Message: "required"}
	}
	if err := validateAccount(acct); err != nil {
		return nil, err
	}
	if acct.Category == "" {
		acct.Category = acct.Type.DefaultCategory()
	}
	return s.store.UpdateAccount(ctx, acct)
}

// CloseAccount soft-closes an account; its history stays available to every
// derivation.
func (s *DashboardService) CloseAccount(ctx context.Context, accountID string) error {
	ctx, span := dashTracer.Start(ctx, "DashboardService.CloseAccount")
	defer span.End()

	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return err
	}
	return s.store.CloseAccount(ctx, accountID)
}

// ReorderAccounts rewrites display order to match the given ID sequence.
func (s *DashboardService) ReorderAccounts(ctx context.Context, orderedIDs []string) error {
	ctx, span := dashTracer.Start(ctx, "DashboardService.ReorderAccounts")
	defer span.End()

	if len(orderedIDs) == 0 {
		return &domain.ErrValidation{Field: "account_ids", Message: "required"}
	}
	return s.store.ReorderAccounts(ctx, orderedIDs)
}

func validateAccount(acct *domain.Account) error {
	if acct.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if !acct.Type.Valid() {
		return &domain.ErrValidation{Field: "type", Message: "unknown account type '" + string(acct.Type) + "'"}
	}
	if !acct.Currency.Valid() {
		return &domain.ErrValidation{Field: "currency", Message: "unsupported currency '" + string(acct.Currency) + "'"}
	}
	if acct.Category != "" && !acct.Category.Valid() {
		return &domain.ErrValidation{Field: "category", Message: "unknown category '" + string(acct.Category) + "'"}
	}
	return nil
}

// ============================================================
// Entries and derivations
// ============================================================

// GetEntries returns an account's entries with derived cash flow and growth,
// sorted ascending by month.
func (s *DashboardService) GetEntries(ctx context.Context, accountID string) ([]domain.DerivedEntry, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.GetEntries")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	entries, err := s.store.GetMonthlyEntries(ctx, accountID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrDerivation("entries")
	return engine.DeriveEntries(engine.SortEntriesAsc(entries)), nil
}

// UpsertEntry validates and stores one month's snapshot, then returns the
// whole account history rederived so the caller sees fresh growth figures
// for every month.
func (s *DashboardService) UpsertEntry(ctx context.Context, accountID string, month domain.Month, fields domain.EntryFields, createOnly bool) ([]domain.DerivedEntry, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.UpsertEntry")
	defer span.End()
	span.SetAttributes(
		attribute.String("account.id", accountID),
		attribute.String("entry.month", month.String()),
	)

	if month.IsZero() {
		return nil, &domain.ErrValidation{Field: "month", Message: "required"}
	}
	if month.After(domain.ThisMonth()) {
		return nil, &domain.ErrValidation{Field: "month", Message: "cannot record a future month " + month.String()}
	}

	if _, err := s.store.UpsertMonthlyEntry(ctx, accountID, month, fields, createOnly); err != nil {
		return nil, err
	}
	return s.GetEntries(ctx, accountID)
}

// GetValueChange compares an account's latest balance against a lookback
// point. Periods use positional offsets over the stored history; see
// engine.ValueChange for the gap semantics.
func (s *DashboardService) GetValueChange(ctx context.Context, accountID string, period domain.Period) (*domain.ValueChange, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.GetValueChange")
	defer span.End()

	if !period.Valid() {
		return nil, &domain.ErrValidation{Field: "period", Message: "unknown period '" + string(period) + "'"}
	}

	entries, err := s.store.GetMonthlyEntries(ctx, accountID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrDerivation("value_change")
	change := engine.ValueChange(engine.SortEntriesDesc(entries), period, domain.ThisMonth())
	return &change, nil
}

// ============================================================
// Chart data
// ============================================================

// GetChartData assembles every chart series for one query. Each included
// account's entries are fetched concurrently (fan-out, join) since the
// fetches are independent; the bulkhead caps concurrency. The derivation
// itself is pure and runs once all history is in hand.
func (s *DashboardService) GetChartData(ctx context.Context, q domain.ChartQuery) (*domain.ChartData, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.GetChartData")
	defer span.End()
	span.SetAttributes(
		attribute.String("chart.period", string(q.Period)),
		attribute.String("chart.currency", string(q.Currency)),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("chart_data", time.Since(start))
	}()

	if q.Period == "" {
		q.Period = domain.PeriodAll
	}
	if !q.Period.Valid() {
		return nil, &domain.ErrValidation{Field: "period", Message: "unknown period '" + string(q.Period) + "'"}
	}
	if q.Currency == "" {
		q.Currency = domain.BaseCurrency
	}
	if !q.Currency.Valid() {
		return nil, &domain.ErrValidation{Field: "currency", Message: "unsupported currency '" + string(q.Currency) + "'"}
	}

	// Closed accounts stay in: their history still shaped past net worth.
	accounts, err := s.store.ListAccounts(ctx, true)
	if err != nil {
		return nil, err
	}
	included := engine.FilterAccounts(accounts, q)

	var (
		mu               sync.Mutex
		entriesByAccount = make(map[string][]domain.DerivedEntry, len(included))
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, acct := range included {
		acct := acct
		g.Go(func() error {
			if err := s.bulkhead.Acquire(gCtx); err != nil {
				return err
			}
			defer s.bulkhead.Release()

			entries, err := s.store.GetMonthlyEntries(gCtx, acct.ID)
			if err != nil {
				s.logger.Error("failed to fetch entries for chart",
					zap.String("account_id", acct.ID),
					zap.Error(err),
				)
				s.metrics.IncrExternalError("store")
				return err
			}
			derived := engine.DeriveEntries(engine.SortEntriesAsc(entries))

			mu.Lock()
			entriesByAccount[acct.ID] = derived
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.metrics.IncrDerivation("chart_data")
	data := engine.BuildChartData(included, entriesByAccount, q, domain.ThisMonth(), s.fx.Func(ctx))
	return &data, nil
}
