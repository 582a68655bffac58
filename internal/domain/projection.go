package domain

import "time"

// ============================================================
// Projection scenarios
// ============================================================

// ProjectionScenario is a saved set of forward-projection assumptions.
// Scenarios share the AccountType vocabulary with accounts but have no other
// relation to stored data.
type ProjectionScenario struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	MonthlyIncome     float64                 `json:"monthly_income"`
	SavingsRate       float64                 `json:"savings_rate"`
	TimePeriodMonths  int                     `json:"time_period_months"`
	GrowthRates       map[AccountType]float64 `json:"growth_rates"`
	SavingsAllocation map[AccountType]float64 `json:"savings_allocation"`
	CreatedAt         time.Time               `json:"created_at,omitempty"`
	UpdatedAt         time.Time               `json:"updated_at,omitempty"`
}

// ProjectionParams is the input to one projection run.
//
// CurrentBalances seeds the per-type buckets; when empty, CurrentNetWorth is
// split across asset types by the savings-allocation percentages.
type ProjectionParams struct {
	MonthlyIncome     float64                 `json:"monthly_income"`
	SavingsRate       float64                 `json:"savings_rate"`
	TimePeriodMonths  int                     `json:"time_period_months"`
	GrowthRates       map[AccountType]float64 `json:"growth_rates"`
	SavingsAllocation map[AccountType]float64 `json:"savings_allocation"`
	CurrentNetWorth   float64                 `json:"current_net_worth"`
	CurrentBalances   map[AccountType]float64 `json:"current_balances,omitempty"`
}

// TrajectoryPoint is one simulated month of a projection.
type TrajectoryPoint struct {
	MonthIndex   int     `json:"month_index"`
	NetWorth     float64 `json:"net_worth"`
	Growth       float64 `json:"growth"`
	Contribution float64 `json:"contribution"`
}

// ProjectionResult is the outcome of a projection run, including the full
// month-by-month trajectory for charting.
type ProjectionResult struct {
	CurrentNetWorth  float64           `json:"current_net_worth"`
	FinalNetWorth    float64           `json:"final_net_worth"`
	TotalGrowth      float64           `json:"total_growth"`
	GrowthPercentage float64           `json:"growth_percentage"`
	Trajectory       []TrajectoryPoint `json:"trajectory"`
}
