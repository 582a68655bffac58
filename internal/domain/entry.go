package domain

// ============================================================
// Monthly entries
// ============================================================

// MonthlyEntry is one account's snapshot for one month. The (AccountID,
// Month) pair is unique; concurrent writes to the same pair are
// last-write-wins (single-user-per-dataset assumption).
//
// EndingBalance, CashIn and CashOut are in the account's own currency.
// Income, InternalTransfersOut, DebtPayments and Expenditure are only
// meaningful for Current-type accounts.
type MonthlyEntry struct {
	AccountID            string  `json:"account_id"`
	Month                Month   `json:"month"`
	EndingBalance        float64 `json:"ending_balance"`
	CashIn               float64 `json:"cash_in"`
	CashOut              float64 `json:"cash_out"`
	Income               float64 `json:"income,omitempty"`
	InternalTransfersOut float64 `json:"internal_transfers_out,omitempty"`
	DebtPayments         float64 `json:"debt_payments,omitempty"`
	Expenditure          float64 `json:"expenditure,omitempty"`
}

// EntryFields carries the user-editable fields of an entry upsert. The keys
// (account, month) travel separately.
type EntryFields struct {
	EndingBalance        float64 `json:"ending_balance"`
	CashIn               float64 `json:"cash_in"`
	CashOut              float64 `json:"cash_out"`
	Income               float64 `json:"income,omitempty"`
	InternalTransfersOut float64 `json:"internal_transfers_out,omitempty"`
	DebtPayments         float64 `json:"debt_payments,omitempty"`
	Expenditure          float64 `json:"expenditure,omitempty"`
}

// DerivedEntry is a MonthlyEntry together with its derived metrics.
// Derived values are always recomputed on read, never stored, so editing an
// older month can never leave later months with stale growth figures.
//
// Invariant: AccountGrowth + CashFlow == EndingBalance - previous balance.
type DerivedEntry struct {
	MonthlyEntry
	CashFlow      float64 `json:"cash_flow"`
	AccountGrowth float64 `json:"account_growth"`
}
