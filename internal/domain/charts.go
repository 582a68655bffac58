package domain

// ============================================================
// Lookback periods
// ============================================================

// Period is a lookback window for value-change and chart queries.
type Period string

const (
	Period1M  Period = "1M"
	Period3M  Period = "3M"
	Period6M  Period = "6M"
	Period1Y  Period = "1Y"
	PeriodYTD Period = "YTD"
	PeriodAll Period = "ALL"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case Period1M, Period3M, Period6M, Period1Y, PeriodYTD, PeriodAll:
		return true
	}
	return false
}

// ValueChange is the result of comparing an account's current value against
// a lookback point.
type ValueChange struct {
	CurrentValue     float64 `json:"current_value"`
	PreviousValue    float64 `json:"previous_value"`
	AbsoluteChange   float64 `json:"absolute_change"`
	PercentageChange float64 `json:"percentage_change"`
}

// ============================================================
// Chart query and series
// ============================================================

// ChartQuery is the explicit filter/selection state for a chart request.
// Empty slices mean "no filter on that dimension".
type ChartQuery struct {
	Period     Period        `json:"period"`
	Owner      string        `json:"owner,omitempty"`
	AccountIDs []string      `json:"account_ids,omitempty"`
	Types      []AccountType `json:"types,omitempty"`
	Categories []Category    `json:"categories,omitempty"`
	Currency   Currency      `json:"currency"`
}

// SeriesPoint is one month of a single-valued time series.
type SeriesPoint struct {
	Month Month   `json:"month"`
	Value float64 `json:"value"`
}

// AccountSeries is the balance history of one account, converted to the
// query currency and signed (liabilities negative).
type AccountSeries struct {
	AccountID string        `json:"account_id"`
	Name      string        `json:"name"`
	Type      AccountType   `json:"type"`
	Owner     string        `json:"owner,omitempty"`
	Color     string        `json:"color"`
	Points    []SeriesPoint `json:"points"`
}

// AllocationSlice is one group's share of the latest month's holdings.
// Percentage is relative to the sum of positive balances in the grouping.
type AllocationSlice struct {
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// AssetsLiabilitiesPoint is one month of the assets-vs-liabilities view.
// Liabilities is a positive magnitude; Net = Assets - Liabilities.
type AssetsLiabilitiesPoint struct {
	Month       Month   `json:"month"`
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	Net         float64 `json:"net"`
}

// SourceContribution is one account's share of a wealth-source bucket,
// retained for drill-down alongside the aggregate.
type SourceContribution struct {
	AccountID string      `json:"account_id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Owner     string      `json:"owner,omitempty"`
	Amount    float64     `json:"amount"`
}

// SourceSummary aggregates growth attribution over the queried range.
// Savings and Interest totals are floored at 0; Capital Gains is signed and
// can show as a loss.
type SourceSummary struct {
	Totals    map[WealthSource]float64              `json:"totals"`
	Breakdown map[WealthSource][]SourceContribution `json:"breakdown"`
}

// WaterfallStep decomposes one month-over-month net-worth move into the
// three wealth-source buckets plus a residual (cash flow and anything not
// attributed to a bucket).
type WaterfallStep struct {
	Month        Month   `json:"month"`
	Savings      float64 `json:"savings"`
	Interest     float64 `json:"interest"`
	CapitalGains float64 `json:"capital_gains"`
	Residual     float64 `json:"residual"`
	Net          float64 `json:"net"`
}

// ChartData is everything the dashboard needs to render one view, with all
// amounts converted to the query currency at each entry's own month.
type ChartData struct {
	Currency            Currency                 `json:"currency"`
	NetWorth            []SeriesPoint            `json:"net_worth"`
	Accounts            []AccountSeries          `json:"accounts"`
	TypeAllocation      []AllocationSlice        `json:"type_allocation"`
	CategoryAllocation  []AllocationSlice        `json:"category_allocation"`
	AssetsVsLiabilities []AssetsLiabilitiesPoint `json:"assets_vs_liabilities"`
	SavingsRate         []SeriesPoint            `json:"savings_rate"`
	Sources             SourceSummary            `json:"sources"`
	Waterfall           []WaterfallStep          `json:"waterfall"`
}
