package engine

import (
	"fmt"
	"math"

	"github.com/finsight/networth-go/internal/domain"
)

// AllocationTolerance is how far a savings allocation may drift from 100%
// before it is rejected.
const AllocationTolerance = 0.01

// MaxProjectionMonths caps how far forward a scenario may simulate.
const MaxProjectionMonths = 600

// ValidateAllocation checks that the savings allocation sums to 100% within
// tolerance. The error names the actual sum so the user sees the exact
// discrepancy, e.g. "must total 100%, got 95.00%".
func ValidateAllocation(allocation map[domain.AccountType]float64) error {
	var sum float64
	for _, pct := range allocation {
		sum += sanitize(pct)
	}
	if math.Abs(sum-100) > AllocationTolerance {
		return &domain.ErrValidation{
			Field:   "savings_allocation",
			Message: fmt.Sprintf("must total 100%%, got %.2f%%", sum),
		}
	}
	return nil
}

// ValidateProjectionParams checks every user-supplied constraint before a
// simulation runs. Validation failures carry the offending value; nothing is
// silently coerced.
func ValidateProjectionParams(p domain.ProjectionParams) error {
	if p.TimePeriodMonths < 0 {
		return &domain.ErrValidation{
			Field:   "time_period_months",
			Message: fmt.Sprintf("must not be negative, got %d", p.TimePeriodMonths),
		}
	}
	if p.TimePeriodMonths > MaxProjectionMonths {
		return &domain.ErrValidation{
			Field:   "time_period_months",
			Message: fmt.Sprintf("must be at most %d, got %d", MaxProjectionMonths, p.TimePeriodMonths),
		}
	}
	if p.SavingsRate < 0 || p.SavingsRate > 100 {
		return &domain.ErrValidation{
			Field:   "savings_rate",
			Message: fmt.Sprintf("must be between 0 and 100, got %.2f", p.SavingsRate),
		}
	}
	if p.MonthlyIncome < 0 {
		return &domain.ErrValidation{
			Field:   "monthly_income",
			Message: fmt.Sprintf("must not be negative, got %.2f", p.MonthlyIncome),
		}
	}
	for t := range p.GrowthRates {
		if !t.Valid() {
			return &domain.ErrValidation{Field: "growth_rates", Message: fmt.Sprintf("unknown account type %q", t)}
		}
	}
	for t := range p.SavingsAllocation {
		if !t.Valid() {
			return &domain.ErrValidation{Field: "savings_allocation", Message: fmt.Sprintf("unknown account type %q", t)}
		}
	}
	return ValidateAllocation(p.SavingsAllocation)
}

// monthlyRate converts an annual growth percentage into an effective monthly
// rate with compounding: (1 + annual/100)^(1/12) - 1.
func monthlyRate(annualPct float64) float64 {
	return math.Pow(1+sanitize(annualPct)/100, 1.0/12) - 1
}

// Project simulates forward month-by-month compounding of per-type balance
// buckets and returns the resulting trajectory.
//
// Each simulated month, every bucket first grows by its effective monthly
// rate and then receives its allocated share of that month's savings.
// Growth-then-contribution matches ending-balance semantics: the money saved
// during a month has not been invested for that month yet.
//
// Buckets are seeded from CurrentBalances when provided (current net worth is
// then their sum); otherwise CurrentNetWorth is split across types by the
// savings-allocation percentages. With TimePeriodMonths of 0 the result is
// the snapshot unchanged.
func Project(p domain.ProjectionParams) (*domain.ProjectionResult, error) {
	if err := ValidateProjectionParams(p); err != nil {
		return nil, err
	}

	balances := make(map[domain.AccountType]float64)
	currentNetWorth := 0.0
	if len(p.CurrentBalances) > 0 {
		for t, b := range p.CurrentBalances {
			balances[t] = sanitize(b)
			currentNetWorth += sanitize(b)
		}
	} else {
		currentNetWorth = sanitize(p.CurrentNetWorth)
		for t, pct := range p.SavingsAllocation {
			balances[t] = currentNetWorth * sanitize(pct) / 100
		}
	}

	// Deterministic bucket order for the simulation and any rounding drift.
	buckets := make([]domain.AccountType, 0, len(balances)+len(p.SavingsAllocation))
	seen := make(map[domain.AccountType]bool)
	for _, t := range domain.AllAccountTypes {
		if _, ok := balances[t]; ok {
			buckets = append(buckets, t)
			seen[t] = true
			continue
		}
		if _, ok := p.SavingsAllocation[t]; ok && !seen[t] {
			buckets = append(buckets, t)
			seen[t] = true
		}
	}

	rates := make(map[domain.AccountType]float64, len(buckets))
	for _, t := range buckets {
		rates[t] = monthlyRate(p.GrowthRates[t])
	}

	monthlySavings := sanitize(p.MonthlyIncome) * sanitize(p.SavingsRate) / 100

	trajectory := make([]domain.TrajectoryPoint, 0, p.TimePeriodMonths)
	for i := 1; i <= p.TimePeriodMonths; i++ {
		var monthGrowth, monthContribution float64
		for _, t := range buckets {
			growth := balances[t] * rates[t]
			contribution := monthlySavings * sanitize(p.SavingsAllocation[t]) / 100
			balances[t] += growth + contribution
			monthGrowth += growth
			monthContribution += contribution
		}

		var netWorth float64
		for _, t := range buckets {
			netWorth += balances[t]
		}
		trajectory = append(trajectory, domain.TrajectoryPoint{
			MonthIndex:   i,
			NetWorth:     netWorth,
			Growth:       monthGrowth,
			Contribution: monthContribution,
		})
	}

	finalNetWorth := currentNetWorth
	if len(trajectory) > 0 {
		finalNetWorth = trajectory[len(trajectory)-1].NetWorth
	}

	totalGrowth := finalNetWorth - currentNetWorth
	growthPct := 0.0
	if currentNetWorth != 0 {
		growthPct = totalGrowth / currentNetWorth * 100
	}

	return &domain.ProjectionResult{
		CurrentNetWorth:  currentNetWorth,
		FinalNetWorth:    finalNetWorth,
		TotalGrowth:      totalGrowth,
		GrowthPercentage: growthPct,
		Trajectory:       trajectory,
	}, nil
}
