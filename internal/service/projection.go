package service

import (
	"context"
	"time"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/engine"
	"github.com/finsight/networth-go/internal/fx"
	"github.com/finsight/networth-go/internal/infra/observability"
	"github.com/finsight/networth-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var projTracer = otel.Tracer("service/projection")

// ProjectionService manages saved scenarios and runs forward projections.
type ProjectionService struct {
	store   port.Store
	fx      *fx.Converter
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewProjectionService creates the projection service.
func NewProjectionService(store port.Store, converter *fx.Converter, metrics *observability.Metrics, logger *zap.Logger) *ProjectionService {
	return &ProjectionService{store: store, fx: converter, metrics: metrics, logger: logger}
}

// ============================================================
// Scenarios
// ============================================================

func (s *ProjectionService) ListScenarios(ctx context.Context) ([]domain.ProjectionScenario, error) {
	ctx, span := projTracer.Start(ctx, "ProjectionService.ListScenarios")
	defer span.End()

	return s.store.ListProjectionScenarios(ctx)
}

func (s *ProjectionService) CreateScenario(ctx context.Context, sc *domain.ProjectionScenario) (*domain.ProjectionScenario, error) {
	ctx, span := projTracer.Start(ctx, "ProjectionService.CreateScenario")
	defer span.End()

	if err := validateScenario(sc); err != nil {
		return nil, err
	}
	return s.store.CreateProjectionScenario(ctx, sc)
}

func (s *ProjectionService) UpdateScenario(ctx context.Context, sc *domain.ProjectionScenario) (*domain.ProjectionScenario, error) {
	ctx, span := projTracer.Start(ctx, "ProjectionService.UpdateScenario")
	defer span.End()

	if sc.ID == "" {
		return nil, &domain.ErrValidation{Field: "id", Message: "required"}
	}
	if err := validateScenario(sc); err != nil {
		return nil, err
	}
	return s.store.UpdateProjectionScenario(ctx, sc)
}

func (s *ProjectionService) DeleteScenario(ctx context.Context, scenarioID string) error {
	ctx, span := projTracer.Start(ctx, "ProjectionService.DeleteScenario")
	defer span.End()

	return s.store.DeleteProjectionScenario(ctx, scenarioID)
}

func validateScenario(sc *domain.ProjectionScenario) error {
	if sc.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}
	return engine.ValidateProjectionParams(domain.ProjectionParams{
		MonthlyIncome:     sc.MonthlyIncome,
		SavingsRate:       sc.SavingsRate,
		TimePeriodMonths:  sc.TimePeriodMonths,
		GrowthRates:       sc.GrowthRates,
		SavingsAllocation: sc.SavingsAllocation,
	})
}

// ============================================================
// Calculation
// ============================================================

// Calculate runs one projection. When the caller supplies no seed balances
// and no net worth, the current state is loaded from storage: each open
// account's latest balance, converted into the base currency at its own
// month, summed per account type (liabilities subtract from their bucket).
func (s *ProjectionService) Calculate(ctx context.Context, p domain.ProjectionParams) (*domain.ProjectionResult, error) {
	ctx, span := projTracer.Start(ctx, "ProjectionService.Calculate")
	defer span.End()
	span.SetAttributes(attribute.Int("projection.months", p.TimePeriodMonths))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("projection", time.Since(start))
	}()

	if len(p.CurrentBalances) == 0 && p.CurrentNetWorth == 0 {
		balances, err := s.currentBalancesByType(ctx)
		if err != nil {
			s.logger.Error("failed to load current balances for projection", zap.Error(err))
			return nil, err
		}
		p.CurrentBalances = balances
	}

	s.metrics.IncrDerivation("projection")
	return engine.Project(p)
}

// currentBalancesByType sums every open account's most recent balance per
// account type, in the base currency.
func (s *ProjectionService) currentBalancesByType(ctx context.Context) (map[domain.AccountType]float64, error) {
	accounts, err := s.store.ListAccounts(ctx, false)
	if err != nil {
		return nil, err
	}

	balances := make(map[domain.AccountType]float64)
	for _, acct := range accounts {
		entries, err := s.store.GetMonthlyEntries(ctx, acct.ID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}
		latest := engine.SortEntriesDesc(entries)[0]
		amount := s.fx.Convert(ctx, latest.EndingBalance, acct.Currency, domain.BaseCurrency, latest.Month)
		if acct.Type.IsLiability() {
			amount = -amount
		}
		balances[acct.Type] += amount
	}
	return balances, nil
}
