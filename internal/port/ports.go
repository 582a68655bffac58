// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the derivation
// engine and service layer from concrete storage and rate providers.
package port

import (
	"context"

	"github.com/finsight/networth-go/internal/domain"
)

// Store defines all persistence operations for accounts, monthly entries,
// and projection scenarios. Implemented by the PostgREST adapter (or any
// other persistence layer).
type Store interface {
	// Accounts
	ListAccounts(ctx context.Context, includeClosed bool) ([]domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	CreateAccount(ctx context.Context, acct *domain.Account) (*domain.Account, error)
	UpdateAccount(ctx context.Context, acct *domain.Account) (*domain.Account, error)
	CloseAccount(ctx context.Context, accountID string) error
	ReorderAccounts(ctx context.Context, orderedIDs []string) error

	// Monthly entries. GetMonthlyEntries returns entries in any order; the
	// engine sorts. UpsertMonthlyEntry with createOnly set fails with
	// ErrConflict when the (account, month) pair already exists.
	GetMonthlyEntries(ctx context.Context, accountID string) ([]domain.MonthlyEntry, error)
	UpsertMonthlyEntry(ctx context.Context, accountID string, month domain.Month, fields domain.EntryFields, createOnly bool) (*domain.MonthlyEntry, error)

	// Projection scenarios
	ListProjectionScenarios(ctx context.Context) ([]domain.ProjectionScenario, error)
	CreateProjectionScenario(ctx context.Context, sc *domain.ProjectionScenario) (*domain.ProjectionScenario, error)
	UpdateProjectionScenario(ctx context.Context, sc *domain.ProjectionScenario) (*domain.ProjectionScenario, error)
	DeleteProjectionScenario(ctx context.Context, scenarioID string) error
}

// RateSource provides historical exchange rates quoted against the base
// currency (GBP). ok is false when the rate for that month has not been
// published or fetched yet; that is not an error, callers fall back to the
// unconverted amount. The base currency itself is never queried.
type RateSource interface {
	GetRate(ctx context.Context, month domain.Month, currency domain.Currency) (rate float64, ok bool, err error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
