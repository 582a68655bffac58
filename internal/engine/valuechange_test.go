package engine_test

import (
	"testing"

	"github.com/finsight/networth-go/internal/domain"
	"github.com/finsight/networth-go/internal/engine"
)

func TestValueChange_EmptyHistory(t *testing.T) {
	vc := engine.ValueChange(nil, domain.Period1M, domain.MustMonth("2024-06"))
	if vc.AbsoluteChange != 0 || vc.PercentageChange != 0 {
		t.Errorf("expected zeros for empty history, got %+v", vc)
	}
}

func TestValueChange_All(t *testing.T) {
	history := []domain.MonthlyEntry{
		entry("2024-03", 300, 0, 0),
		entry("2024-01", 100, 0, 0),
	}

	vc := engine.ValueChange(history, domain.PeriodAll, domain.MustMonth("2024-03"))
	if vc.AbsoluteChange != 200 {
		t.Errorf("expected absolute change 200, got %f", vc.AbsoluteChange)
	}
	if vc.PercentageChange != 200 {
		t.Errorf("expected percentage change 200, got %f", vc.PercentageChange)
	}
}

func TestValueChange_PositionalOffsets(t *testing.T) {
	// Descending, one entry per month.
	history := []domain.MonthlyEntry{
		entry("2024-06", 600, 0, 0),
		entry("2024-05", 500, 0, 0),
		entry("2024-04", 400, 0, 0),
		entry("2024-03", 300, 0, 0),
	}
	today := domain.MustMonth("2024-06")

	vc := engine.ValueChange(history, domain.Period1M, today)
	if vc.PreviousValue != 500 || vc.AbsoluteChange != 100 {
		t.Errorf("1M: got %+v", vc)
	}

	vc = engine.ValueChange(history, domain.Period3M, today)
	if vc.PreviousValue != 300 || vc.AbsoluteChange != 300 {
		t.Errorf("3M: got %+v", vc)
	}

	// 6M reaches past the history: compare against 0, percent stays 0.
	vc = engine.ValueChange(history, domain.Period6M, today)
	if vc.PreviousValue != 0 || vc.AbsoluteChange != 600 || vc.PercentageChange != 0 {
		t.Errorf("6M: got %+v", vc)
	}
}

func TestValueChange_OffsetsArePositionalNotCalendar(t *testing.T) {
	// 2024-05 missing: the 1M offset lands on 2024-04.
	history := []domain.MonthlyEntry{
		entry("2024-06", 600, 0, 0),
		entry("2024-04", 400, 0, 0),
	}

	vc := engine.ValueChange(history, domain.Period1M, domain.MustMonth("2024-06"))
	if vc.PreviousValue != 400 {
		t.Errorf("expected positional previous 400, got %f", vc.PreviousValue)
	}
}

func TestValueChange_YTDIsJanuaryOnly(t *testing.T) {
	history := []domain.MonthlyEntry{
		entry("2024-06", 600, 0, 0),
		entry("2024-02", 200, 0, 0),
		entry("2024-01", 100, 0, 0),
		entry("2023-12", 999, 0, 0),
	}

	vc := engine.ValueChange(history, domain.PeriodYTD, domain.MustMonth("2024-06"))
	if vc.PreviousValue != 100 {
		t.Errorf("expected January balance 100, got %f", vc.PreviousValue)
	}
}

func TestValueChange_YTDNoJanuary(t *testing.T) {
	// No January entry: compare against 0, never the earliest in-year entry.
	history := []domain.MonthlyEntry{
		entry("2024-06", 600, 0, 0),
		entry("2024-02", 200, 0, 0),
	}

	vc := engine.ValueChange(history, domain.PeriodYTD, domain.MustMonth("2024-06"))
	if vc.PreviousValue != 0 || vc.AbsoluteChange != 600 || vc.PercentageChange != 0 {
		t.Errorf("got %+v", vc)
	}
}
