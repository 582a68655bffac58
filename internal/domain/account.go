// Package domain holds the core types of the net-worth dashboard:
// accounts, monthly entries, derived metrics, projection scenarios,
// and the typed errors shared across layers.
package domain

import "time"

// ============================================================
// Account types
// ============================================================

// AccountType is the closed set of account kinds the dashboard tracks.
type AccountType string

const (
	TypeCurrent      AccountType = "Current"
	TypeSavings      AccountType = "Savings"
	TypeInvestment   AccountType = "Investment"
	TypeStock        AccountType = "Stock"
	TypeCrypto       AccountType = "Crypto"
	TypePension      AccountType = "Pension"
	TypeCommodity    AccountType = "Commodity"
	TypeStockOptions AccountType = "Stock_options"
	TypeCreditCard   AccountType = "Credit_Card"
	TypeLoan         AccountType = "Loan"
	TypeAsset        AccountType = "Asset"
)

// AllAccountTypes lists every account type in display order.
// Iteration over account-type maps goes through this slice so output
// ordering is deterministic.
var AllAccountTypes = []AccountType{
	TypeCurrent,
	TypeSavings,
	TypeInvestment,
	TypeStock,
	TypeCrypto,
	TypePension,
	TypeCommodity,
	TypeStockOptions,
	TypeCreditCard,
	TypeLoan,
	TypeAsset,
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case TypeCurrent, TypeSavings, TypeInvestment, TypeStock, TypeCrypto,
		TypePension, TypeCommodity, TypeStockOptions, TypeCreditCard,
		TypeLoan, TypeAsset:
		return true
	}
	return false
}

// IsLiability reports whether balances of this type represent money owed.
// Liability balances are stored as positive magnitudes (normalized at the
// storage boundary) and always subtract from net worth.
func (t AccountType) IsLiability() bool {
	switch t {
	case TypeCreditCard, TypeLoan:
		return true
	case TypeCurrent, TypeSavings, TypeInvestment, TypeStock, TypeCrypto,
		TypePension, TypeCommodity, TypeStockOptions, TypeAsset:
		return false
	}
	return false
}

// ShowsIncomeFields reports whether income/expenditure fields are meaningful
// for this type. Only Current accounts carry salary and spending figures.
func (t AccountType) ShowsIncomeFields() bool {
	return t == TypeCurrent
}

// DefaultCategory returns the category an account of this type belongs to
// unless the user overrides it.
func (t AccountType) DefaultCategory() Category {
	switch t {
	case TypeCurrent, TypeSavings, TypeCreditCard, TypeLoan:
		return CategoryCash
	case TypeInvestment, TypeStock, TypeCrypto, TypePension, TypeCommodity,
		TypeStockOptions, TypeAsset:
		return CategoryInvestments
	}
	return CategoryCash
}

// Bucket returns the wealth-source bucket growth of this type is attributed
// to. ok is false for liability types, which are excluded from growth-source
// decomposition.
func (t AccountType) Bucket() (WealthSource, bool) {
	switch t {
	case TypeCurrent, TypeSavings:
		return SourceInterest, true
	case TypeInvestment, TypeStock, TypeCrypto, TypePension, TypeCommodity,
		TypeStockOptions, TypeAsset:
		return SourceCapitalGains, true
	case TypeCreditCard, TypeLoan:
		return "", false
	}
	return "", false
}

// Color returns the display color used for this type in charts.
func (t AccountType) Color() string {
	switch t {
	case TypeCurrent:
		return "#2563eb"
	case TypeSavings:
		return "#0891b2"
	case TypeInvestment:
		return "#16a34a"
	case TypeStock:
		return "#65a30d"
	case TypeCrypto:
		return "#f59e0b"
	case TypePension:
		return "#7c3aed"
	case TypeCommodity:
		return "#b45309"
	case TypeStockOptions:
		return "#db2777"
	case TypeCreditCard:
		return "#dc2626"
	case TypeLoan:
		return "#9f1239"
	case TypeAsset:
		return "#475569"
	}
	return "#64748b"
}

// ============================================================
// Categories, currencies, wealth sources
// ============================================================

// Category groups accounts for the allocation views.
type Category string

const (
	CategoryCash        Category = "Cash"
	CategoryInvestments Category = "Investments"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryCash || c == CategoryInvestments
}

// Currency is an ISO-4217 currency code supported by the dashboard.
type Currency string

const (
	GBP Currency = "GBP"
	EUR Currency = "EUR"
	USD Currency = "USD"
	AED Currency = "AED"
)

// BaseCurrency is the currency all exchange rates are quoted against.
// It is never queried from the rate source (its rate is implicitly 1).
const BaseCurrency = GBP

// AllCurrencies lists the supported currencies.
var AllCurrencies = []Currency{GBP, EUR, USD, AED}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case GBP, EUR, USD, AED:
		return true
	}
	return false
}

// WealthSource classifies where a month's growth came from.
type WealthSource string

const (
	SourceSavings      WealthSource = "Savings from Income"
	SourceInterest     WealthSource = "Interest Earned"
	SourceCapitalGains WealthSource = "Capital Gains"
)

// AllWealthSources lists the buckets in display order.
var AllWealthSources = []WealthSource{SourceSavings, SourceInterest, SourceCapitalGains}

// ============================================================
// Account
// ============================================================

// Account is a single tracked account. Accounts are never hard-deleted while
// history exists; closing sets IsClosed and keeps entries queryable.
type Account struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         AccountType `json:"type"`
	Category     Category    `json:"category"`
	Currency     Currency    `json:"currency"`
	IsISA        bool        `json:"is_isa"`
	Owner        string      `json:"owner"`
	IsClosed     bool        `json:"is_closed"`
	DisplayOrder int         `json:"display_order"`
	CreatedAt    time.Time   `json:"created_at,omitempty"`
}
