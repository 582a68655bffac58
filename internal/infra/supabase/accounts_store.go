package supabase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/finsight/networth-go/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Accounts
// ============================================================

// accountRow maps the accounts table columns to our domain.
type accountRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Category     string    `json:"category"`
	Currency     string    `json:"currency"`
	IsISA        bool      `json:"is_isa"`
	Owner        string    `json:"owner"`
	IsClosed     bool      `json:"is_closed"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Name:         r.Name,
		Type:         domain.AccountType(r.Type),
		Category:     domain.Category(r.Category),
		Currency:     domain.Currency(r.Currency),
		IsISA:        r.IsISA,
		Owner:        r.Owner,
		IsClosed:     r.IsClosed,
		DisplayOrder: r.DisplayOrder,
		CreatedAt:    r.CreatedAt,
	}
}

func accountToRow(a *domain.Account) accountRow {
	return accountRow{
		ID:           a.ID,
		Name:         a.Name,
		Type:         string(a.Type),
		Category:     string(a.Category),
		Currency:     string(a.Currency),
		IsISA:        a.IsISA,
		Owner:        a.Owner,
		IsClosed:     a.IsClosed,
		DisplayOrder: a.DisplayOrder,
	}
}

// ListAccounts fetches accounts ordered by display order. Closed accounts
// are filtered out unless includeClosed is set.
func (c *Client) ListAccounts(ctx context.Context, includeClosed bool) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAccounts")
	defer span.End()
	span.SetAttributes(attribute.Bool("accounts.include_closed", includeClosed))

	path := "accounts?order=display_order.asc"
	if !includeClosed {
		path += "&is_closed=eq.false"
	}

	var accounts []domain.Account
	err := c.execute(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		accounts = []domain.Account{}
		if body == nil {
			return nil
		}
		var rows []accountRow
		if err := decodeRows(body, &rows); err != nil {
			return err
		}
		for _, r := range rows {
			accounts = append(accounts, r.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return accounts, nil
}

// GetAccount fetches a single account by ID.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAccount")
	defer span.End()

	var account *domain.Account
	err := c.execute(ctx, func() error {
		path := "accounts?id=eq." + accountID + "&limit=1"
		body, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		var rows []accountRow
		if err := decodeRows(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "account", ID: accountID}
		}
		a := rows[0].toDomain()
		account = &a
		return nil
	})
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return account, nil
}

// CreateAccount inserts a new account, assigning an ID when absent.
func (c *Client) CreateAccount(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateAccount")
	defer span.End()

	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}

	var created *domain.Account
	err := c.execute(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodPost, "accounts", accountToRow(acct))
		if err != nil {
			return err
		}
		var rows []accountRow
		if err := decodeRows(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			a := *acct
			created = &a
			return nil
		}
		a := rows[0].toDomain()
		created = &a
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return created, nil
}

// UpdateAccount patches the mutable fields of an account.
func (c *Client) UpdateAccount(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateAccount")
	defer span.End()

	var updated *domain.Account
	err := c.execute(ctx, func() error {
		path := "accounts?id=eq." + acct.ID
		body, err := c.doRequest(ctx, http.MethodPatch, path, accountToRow(acct))
		if err != nil {
			return err
		}
		var rows []accountRow
		if err := decodeRows(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "account", ID: acct.ID}
		}
		a := rows[0].toDomain()
		updated = &a
		return nil
	})
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return updated, nil
}

// CloseAccount soft-closes an account. History stays queryable; accounts are
// never hard-deleted while entries exist.
func (c *Client) CloseAccount(ctx context.Context, accountID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.CloseAccount")
	defer span.End()

	err := c.execute(ctx, func() error {
		path := "accounts?id=eq." + accountID
		_, err := c.doRequest(ctx, http.MethodPatch, path, map[string]any{"is_closed": true})
		return err
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return nil
}

// ReorderAccounts rewrites display_order to match the given ID order.
func (c *Client) ReorderAccounts(ctx context.Context, orderedIDs []string) error {
	ctx, span := tracer.Start(ctx, "Supabase.ReorderAccounts")
	defer span.End()

	for i, id := range orderedIDs {
		order := i
		accountID := id
		err := c.execute(ctx, func() error {
			path := "accounts?id=eq." + accountID
			_, err := c.doRequest(ctx, http.MethodPatch, path, map[string]any{"display_order": order})
			return err
		})
		if err != nil {
			return &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
		}
	}
	return nil
}

// normalizeBalance enforces the liability sign convention at the storage
// boundary: liability balances are positive magnitudes downstream, however
// the user happened to record them.
func normalizeBalance(t domain.AccountType, balance float64) float64 {
	if t.IsLiability() {
		return math.Abs(balance)
	}
	return balance
}
