package supabase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/finsight/networth-go/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Projection scenarios
// ============================================================

// scenarioRow maps the projection_scenarios table columns. Rate and
// allocation maps are stored as jsonb.
type scenarioRow struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	MonthlyIncome     float64            `json:"monthly_income"`
	SavingsRate       float64            `json:"savings_rate"`
	TimePeriodMonths  int                `json:"time_period_months"`
	GrowthRates       map[string]float64 `json:"growth_rates"`
	SavingsAllocation map[string]float64 `json:"savings_allocation"`
	CreatedAt         time.Time          `json:"created_at,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at,omitempty"`
}

func (r scenarioRow) toDomain() domain.ProjectionScenario {
	return domain.ProjectionScenario{
		ID:                r.ID,
		Name:              r.Name,
		MonthlyIncome:     r.MonthlyIncome,
		SavingsRate:       r.SavingsRate,
		TimePeriodMonths:  r.TimePeriodMonths,
		GrowthRates:       typedRates(r.GrowthRates),
		SavingsAllocation: typedRates(r.SavingsAllocation),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func scenarioToRow(sc *domain.ProjectionScenario) scenarioRow {
	return scenarioRow{
		ID:                sc.ID,
		Name:              sc.Name,
		MonthlyIncome:     sc.MonthlyIncome,
		SavingsRate:       sc.SavingsRate,
		TimePeriodMonths:  sc.TimePeriodMonths,
		GrowthRates:       stringRates(sc.GrowthRates),
		SavingsAllocation: stringRates(sc.SavingsAllocation),
	}
}

func typedRates(m map[string]float64) map[domain.AccountType]float64 {
	out := make(map[domain.AccountType]float64, len(m))
	for k, v := range m {
		out[domain.AccountType(k)] = v
	}
	return out
}

func stringRates(m map[domain.AccountType]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

// ListProjectionScenarios fetches all saved scenarios, newest first.
func (c *Client) ListProjectionScenarios(ctx context.Context) ([]domain.ProjectionScenario, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProjectionScenarios")
	defer span.End()

	var scenarios []domain.ProjectionScenario
	err := c.execute(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, "projection_scenarios?order=created_at.desc", nil)
		if err != nil {
			return err
		}
		var rows []scenarioRow
		if err := decodeRows(body, &rows); err != nil {
			return err
		}
		scenarios = make([]domain.ProjectionScenario, 0, len(rows))
		for _, r := range rows {
			scenarios = append(scenarios, r.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/scenarios", Err: err}
	}
	return scenarios, nil
}

// CreateProjectionScenario inserts a new scenario, assigning an ID when
// absent.
func (c *Client) CreateProjectionScenario(ctx context.Context, sc *domain.ProjectionScenario) (*domain.ProjectionScenario, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateProjectionScenario")
	defer span.End()

	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}

	var created *domain.ProjectionScenario
	err := c.execute(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodPost, "projection_scenarios", scenarioToRow(sc))
		if err != nil {
			return err
		}
		var rows []scenarioRow
		if err := decodeRows(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			s := *sc
			created = &s
			return nil
		}
		s := rows[0].toDomain()
		created = &s
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/scenarios", Err: err}
	}
	return created, nil
}

// UpdateProjectionScenario patches an existing scenario.
func (c *Client) UpdateProjectionScenario(ctx context.Context, sc *domain.ProjectionScenario) (*domain.ProjectionScenario, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateProjectionScenario")
	defer span.End()

	var updated *domain.ProjectionScenario
	err := c.execute(ctx, func() error {
		path := "projection_scenarios?id=eq." + sc.ID
		body, err := c.doRequest(ctx, http.MethodPatch, path, scenarioToRow(sc))
		if err != nil {
			return err
		}
		var rows []scenarioRow
		if err := decodeRows(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "projection scenario", ID: sc.ID}
		}
		s := rows[0].toDomain()
		updated = &s
		return nil
	})
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, &domain.ErrExternalService{Service: "supabase/scenarios", Err: err}
	}
	return updated, nil
}

// DeleteProjectionScenario removes a scenario. Scenarios are pure
// configuration with no entry history, so hard deletion is safe.
func (c *Client) DeleteProjectionScenario(ctx context.Context, scenarioID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteProjectionScenario")
	defer span.End()

	err := c.execute(ctx, func() error {
		path := "projection_scenarios?id=eq." + scenarioID
		_, err := c.doRequest(ctx, http.MethodDelete, path, nil)
		return err
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/scenarios", Err: err}
	}
	return nil
}
