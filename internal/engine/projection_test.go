package engine_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/engine"
)

func TestValidateAllocation_WithinTolerance(t *testing.T) {
	err := engine.ValidateAllocation(map[domain.AccountType]float64{
		domain.TypeSavings:    49.99,
		domain.TypeInvestment: 50.00,
	})
	if err != nil {
		t.Fatalf("expected 99.99 to pass within tolerance, got %v", err)
	}
}

func TestValidateAllocation_NamesActualSum(t *testing.T) {
	err := engine.ValidateAllocation(map[domain.AccountType]float64{
		domain.TypeSavings:    45,
		domain.TypeInvestment: 50,
	})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected ErrValidation, got %T", err)
	}
	if !strings.Contains(verr.Message, "95") {
		t.Errorf("expected message to name the actual sum, got %q", verr.Message)
	}
}

func TestProject_ZeroSavingsRateIsPureCompounding(t *testing.T) {
	result, err := engine.Project(domain.ProjectionParams{
		MonthlyIncome:     5000,
		SavingsRate:       0,
		TimePeriodMonths:  12,
		GrowthRates:       map[domain.AccountType]float64{domain.TypeInvestment: 12},
		SavingsAllocation: map[domain.AccountType]float64{domain.TypeInvestment: 100},
		CurrentNetWorth:   10000,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// 12 months at the effective monthly rate compound back to the annual rate.
	want := 10000 * 1.12
	if math.Abs(result.FinalNetWorth-want) > 0.01 {
		t.Errorf("expected final net worth %.2f, got %.2f", want, result.FinalNetWorth)
	}
	for _, p := range result.Trajectory {
		if p.Contribution != 0 {
			t.Errorf("month %d: expected zero contribution, got %f", p.MonthIndex, p.Contribution)
		}
	}
}

func TestProject_ZeroMonthsReturnsSnapshot(t *testing.T) {
	result, err := engine.Project(domain.ProjectionParams{
		MonthlyIncome:     5000,
		SavingsRate:       20,
		TimePeriodMonths:  0,
		GrowthRates:       map[domain.AccountType]float64{domain.TypeSavings: 4},
		SavingsAllocation: map[domain.AccountType]float64{domain.TypeSavings: 100},
		CurrentNetWorth:   25000,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.FinalNetWorth != 25000 || result.TotalGrowth != 0 {
		t.Errorf("expected unchanged snapshot, got %+v", result)
	}
	if len(result.Trajectory) != 0 {
		t.Errorf("expected empty trajectory, got %d points", len(result.Trajectory))
	}
}

func TestProject_GrowthThenContribution(t *testing.T) {
	// One month, 100% to one bucket: the contribution must not have grown.
	result, err := engine.Project(domain.ProjectionParams{
		MonthlyIncome:     1000,
		SavingsRate:       50,
		TimePeriodMonths:  1,
		GrowthRates:       map[domain.AccountType]float64{domain.TypeInvestment: 12},
		SavingsAllocation: map[domain.AccountType]float64{domain.TypeInvestment: 100},
		CurrentNetWorth:   10000,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	monthly := math.Pow(1.12, 1.0/12) - 1
	want := 10000*(1+monthly) + 500
	if math.Abs(result.FinalNetWorth-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, result.FinalNetWorth)
	}
}

func TestProject_SeedsFromCurrentBalances(t *testing.T) {
	result, err := engine.Project(domain.ProjectionParams{
		MonthlyIncome:    0,
		SavingsRate:      0,
		TimePeriodMonths: 1,
		GrowthRates: map[domain.AccountType]float64{
			domain.TypeSavings:    0,
			domain.TypeInvestment: 0,
		},
		SavingsAllocation: map[domain.AccountType]float64{
			domain.TypeSavings:    50,
			domain.TypeInvestment: 50,
		},
		CurrentBalances: map[domain.AccountType]float64{
			domain.TypeSavings:    3000,
			domain.TypeInvestment: 7000,
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CurrentNetWorth != 10000 {
		t.Errorf("expected current net worth 10000 from balances, got %f", result.CurrentNetWorth)
	}
	if result.FinalNetWorth != 10000 {
		t.Errorf("expected unchanged net worth with zero rates, got %f", result.FinalNetWorth)
	}
}

func TestProject_RejectsBadParams(t *testing.T) {
	base := domain.ProjectionParams{
		MonthlyIncome:     1000,
		SavingsRate:       20,
		TimePeriodMonths:  12,
		SavingsAllocation: map[domain.AccountType]float64{domain.TypeSavings: 100},
	}

	cases := []struct {
		name   string
		mutate func(*domain.ProjectionParams)
	}{
		{"negative months", func(p *domain.ProjectionParams) { p.TimePeriodMonths = -1 }},
		{"too many months", func(p *domain.ProjectionParams) { p.TimePeriodMonths = 601 }},
		{"savings rate over 100", func(p *domain.ProjectionParams) { p.SavingsRate = 140 }},
		{"negative income", func(p *domain.ProjectionParams) { p.MonthlyIncome = -5 }},
		{"unknown type", func(p *domain.ProjectionParams) {
			p.SavingsAllocation = map[domain.AccountType]float64{"Bonds": 100}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			if _, err := engine.Project(p); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}
