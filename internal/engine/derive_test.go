package engine_test

import (
	"math"
	"testing"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/engine"
)

func entry(month string, balance, cashIn, cashOut float64) domain.MonthlyEntry {
	return domain.MonthlyEntry{
		AccountID:     "acct-1",
		Month:         domain.MustMonth(month),
		EndingBalance: balance,
		CashIn:        cashIn,
		CashOut:       cashOut,
	}
}

func TestDeriveEntries_Example(t *testing.T) {
	entries := []domain.MonthlyEntry{
		entry("2024-01", 1000, 2000, 1800),
		entry("2024-02", 1300, 2000, 1900),
	}

	derived := engine.DeriveEntries(entries)
	if len(derived) != 2 {
		t.Fatalf("expected 2 derived entries, got %d", len(derived))
	}

	jan := derived[0]
	if jan.CashFlow != 200 {
		t.Errorf("jan: expected cash flow 200, got %f", jan.CashFlow)
	}
	// First month nets against a previous balance of 0.
	if jan.AccountGrowth != 800 {
		t.Errorf("jan: expected growth 800, got %f", jan.AccountGrowth)
	}

	feb := derived[1]
	if feb.CashFlow != 100 {
		t.Errorf("feb: expected cash flow 100, got %f", feb.CashFlow)
	}
	if feb.AccountGrowth != 200 {
		t.Errorf("feb: expected growth 200, got %f", feb.AccountGrowth)
	}
}

func TestDeriveEntries_GrowthPlusCashFlowIdentity(t *testing.T) {
	entries := []domain.MonthlyEntry{
		entry("2023-11", 500, 100, 50),
		entry("2023-12", 450, 0, 200),
		entry("2024-02", 900, 600, 10), // gap: 2024-01 missing
		entry("2024-03", 880, 0, 0),
	}

	derived := engine.DeriveEntries(entries)

	prev := 0.0
	for i, d := range derived {
		if got := d.AccountGrowth + d.CashFlow; got != d.EndingBalance-prev {
			t.Errorf("entry %d: growth+cashFlow = %f, want %f", i, got, d.EndingBalance-prev)
		}
		prev = d.EndingBalance
	}
}

func TestDeriveEntries_Empty(t *testing.T) {
	derived := engine.DeriveEntries(nil)
	if len(derived) != 0 {
		t.Fatalf("expected no derived entries, got %d", len(derived))
	}
}

func TestDeriveEntries_NaNTreatedAsZero(t *testing.T) {
	entries := []domain.MonthlyEntry{
		entry("2024-01", math.NaN(), math.Inf(1), 100),
	}

	derived := engine.DeriveEntries(entries)

	if math.IsNaN(derived[0].CashFlow) || math.IsNaN(derived[0].AccountGrowth) {
		t.Fatal("NaN propagated through derivation")
	}
	if derived[0].CashFlow != -100 {
		t.Errorf("expected cash flow -100, got %f", derived[0].CashFlow)
	}
	if derived[0].AccountGrowth != 100 {
		t.Errorf("expected growth 100, got %f", derived[0].AccountGrowth)
	}
}

func TestSortEntries(t *testing.T) {
	entries := []domain.MonthlyEntry{
		entry("2024-03", 3, 0, 0),
		entry("2024-01", 1, 0, 0),
		entry("2024-02", 2, 0, 0),
	}

	asc := engine.SortEntriesAsc(entries)
	if asc[0].EndingBalance != 1 || asc[2].EndingBalance != 3 {
		t.Errorf("ascending sort wrong: %v", asc)
	}

	desc := engine.SortEntriesDesc(entries)
	if desc[0].EndingBalance != 3 || desc[2].EndingBalance != 1 {
		t.Errorf("descending sort wrong: %v", desc)
	}
}
