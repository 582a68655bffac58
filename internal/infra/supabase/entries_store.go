package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/finsight/networth-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Monthly entries
// ============================================================

// entryRow maps the monthly_entries table columns.
type entryRow struct {
	AccountID            string  `json:"account_id"`
	Month                string  `json:"month"`
	EndingBalance        float64 `json:"ending_balance"`
	CashIn               float64 `json:"cash_in"`
	CashOut              float64 `json:"cash_out"`
	Income               float64 `json:"income"`
	InternalTransfersOut float64 `json:"internal_transfers_out"`
	DebtPayments         float64 `json:"debt_payments"`
	Expenditure          float64 `json:"expenditure"`
}

func (r entryRow) toDomain(acctType domain.AccountType) (domain.MonthlyEntry, error) {
	month, err := domain.ParseMonth(r.Month)
	if err != nil {
		return domain.MonthlyEntry{}, err
	}
	return domain.MonthlyEntry{
		AccountID:            r.AccountID,
		Month:                month,
		EndingBalance:        normalizeBalance(acctType, r.EndingBalance),
		CashIn:               r.CashIn,
		CashOut:              r.CashOut,
		Income:               r.Income,
		InternalTransfersOut: r.InternalTransfersOut,
		DebtPayments:         r.DebtPayments,
		Expenditure:          r.Expenditure,
	}, nil
}

// GetMonthlyEntries fetches all entries for an account. Order is whatever
// the database returns; the engine sorts.
func (c *Client) GetMonthlyEntries(ctx context.Context, accountID string) ([]domain.MonthlyEntry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetMonthlyEntries")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	acct, err := c.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var entries []domain.MonthlyEntry
	err = c.execute(ctx, func() error {
		path := "monthly_entries?account_id=eq." + accountID
		body, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		var rows []entryRow
		if err := decodeRows(body, &rows); err != nil {
			return fmt.Errorf("failed to decode entries: %w", err)
		}
		entries = make([]domain.MonthlyEntry, 0, len(rows))
		for _, r := range rows {
			e, err := r.toDomain(acct.Type)
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/entries", Err: err}
	}
	return entries, nil
}

// UpsertMonthlyEntry creates or updates the entry for (account, month).
// With createOnly set, an existing entry is a conflict. Same-key concurrent
// writes are last-write-wins; entries for different keys never contend.
func (c *Client) UpsertMonthlyEntry(ctx context.Context, accountID string, month domain.Month, fields domain.EntryFields, createOnly bool) (*domain.MonthlyEntry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertMonthlyEntry")
	defer span.End()
	span.SetAttributes(
		attribute.String("account.id", accountID),
		attribute.String("entry.month", month.String()),
	)

	acct, err := c.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	row := entryRow{
		AccountID:            accountID,
		Month:                month.String(),
		EndingBalance:        normalizeBalance(acct.Type, fields.EndingBalance),
		CashIn:               fields.CashIn,
		CashOut:              fields.CashOut,
		Income:               fields.Income,
		InternalTransfersOut: fields.InternalTransfersOut,
		DebtPayments:         fields.DebtPayments,
		Expenditure:          fields.Expenditure,
	}

	keyPath := fmt.Sprintf("monthly_entries?account_id=eq.%s&month=eq.%s", accountID, month)

	var saved *domain.MonthlyEntry
	err = c.execute(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, keyPath+"&limit=1", nil)
		if err != nil {
			return err
		}
		var existing []entryRow
		if err := decodeRows(body, &existing); err != nil {
			return err
		}

		if len(existing) > 0 {
			if createOnly {
				return &domain.ErrConflict{
					Message: fmt.Sprintf("entry already exists for account %s in %s", accountID, month),
				}
			}
			if _, err := c.doRequest(ctx, http.MethodPatch, keyPath, row); err != nil {
				return err
			}
		} else {
			if _, err := c.doRequest(ctx, http.MethodPost, "monthly_entries", row); err != nil {
				return err
			}
		}

		e, err := row.toDomain(acct.Type)
		if err != nil {
			return err
		}
		saved = &e
		return nil
	})
	if err != nil {
		var conflict *domain.ErrConflict
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, &domain.ErrExternalService{Service: "supabase/entries", Err: err}
	}
	return saved, nil
}
