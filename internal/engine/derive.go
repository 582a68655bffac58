// Package engine implements the financial derivation core: pure functions
// that turn raw monthly account entries into derived metrics (cash flow,
// account growth, value change, wealth-source decomposition, chart series,
// and forward projections).
//
// Every function operates only on its inputs, holds no state, and is safe to
// call concurrently. Missing data never produces an error: absent history,
// balances, or rates resolve to documented zero/passthrough defaults, because
// partial data is the steady state of a manually entered dataset.
package engine

import (
	"math"
	"sort"

	"github.com/finsight/networth-go/internal/domain"
)

// sanitize maps NaN and infinities to 0 so bad inputs never propagate
// through the arithmetic.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SortEntriesAsc sorts entries by month ascending, in place, and returns the
// slice. Stores may return entries in any order.
func SortEntriesAsc(entries []domain.MonthlyEntry) []domain.MonthlyEntry {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Month.Before(entries[j].Month)
	})
	return entries
}

// SortEntriesDesc sorts entries by month descending (most recent first), in
// place, and returns the slice.
func SortEntriesDesc(entries []domain.MonthlyEntry) []domain.MonthlyEntry {
	sort.Slice(entries, func(i, j int) bool {
		return entries[j].Month.Before(entries[i].Month)
	})
	return entries
}

// DeriveEntries computes cash flow and account growth for one account's
// entries, which must be sorted ascending by month.
//
// For each entry:
//
//	cashFlow      = cashIn - cashOut
//	accountGrowth = (endingBalance - previousEndingBalance) - cashFlow
//
// "previous" is the immediately preceding stored entry, whatever calendar gap
// lies between them. The first entry nets against a previous balance of 0, so
// its growth figure includes the whole opening balance; callers displaying
// growth should not read the first data point as a true growth signal.
func DeriveEntries(entries []domain.MonthlyEntry) []domain.DerivedEntry {
	derived := make([]domain.DerivedEntry, 0, len(entries))
	prevBalance := 0.0

	for _, e := range entries {
		e.EndingBalance = sanitize(e.EndingBalance)
		e.CashIn = sanitize(e.CashIn)
		e.CashOut = sanitize(e.CashOut)
		e.Income = sanitize(e.Income)
		e.InternalTransfersOut = sanitize(e.InternalTransfersOut)
		e.DebtPayments = sanitize(e.DebtPayments)
		e.Expenditure = sanitize(e.Expenditure)

		cashFlow := e.CashIn - e.CashOut
		netChange := e.EndingBalance - prevBalance

		derived = append(derived, domain.DerivedEntry{
			MonthlyEntry:  e,
			CashFlow:      cashFlow,
			AccountGrowth: netChange - cashFlow,
		})
		prevBalance = e.EndingBalance
	}
	return derived
}
