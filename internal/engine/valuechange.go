package engine

import "github.com/finsight/networth-go/internal/domain"

// periodOffsets maps lookback periods to positions in a descending history.
// Offsets are array positions, not calendar months: with one entry per month
// they coincide, but when a month is missing from history the window drifts
// from its label. Documented limitation, kept deliberately — a calendar-aware
// lookup would silently change figures users have reconciled against these
// labels.
var periodOffsets = map[domain.Period]int{
	domain.Period1M: 1,
	domain.Period3M: 3,
	domain.Period6M: 6,
	domain.Period1Y: 12,
}

// ValueChange compares an account's most recent balance against a lookback
// point. history must be sorted descending (index 0 = most recent); today
// anchors the YTD period to January of the current calendar year.
//
// Total function: empty history returns all zeros, a missing comparison point
// compares against 0, and a zero previous value yields 0 percent.
func ValueChange(history []domain.MonthlyEntry, period domain.Period, today domain.Month) domain.ValueChange {
	if len(history) == 0 {
		return domain.ValueChange{}
	}

	current := sanitize(history[0].EndingBalance)
	previous := 0.0

	switch period {
	case domain.Period1M, domain.Period3M, domain.Period6M, domain.Period1Y:
		if idx := periodOffsets[period]; idx < len(history) {
			previous = sanitize(history[idx].EndingBalance)
		}
	case domain.PeriodYTD:
		// Specifically January of the current year, not the earliest entry
		// in the year. No January entry means comparing against 0.
		jan := domain.NewMonth(today.Year(), 1)
		for _, e := range history {
			if e.Month == jan {
				previous = sanitize(e.EndingBalance)
				break
			}
		}
	case domain.PeriodAll:
		previous = sanitize(history[len(history)-1].EndingBalance)
	}

	abs := current - previous
	pct := 0.0
	if previous != 0 {
		pct = abs / previous * 100
	}

	return domain.ValueChange{
		CurrentValue:     current,
		PreviousValue:    previous,
		AbsoluteChange:   abs,
		PercentageChange: pct,
	}
}
