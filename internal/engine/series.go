package engine

import (
	"sort"

	"github.com/finsight/networth-go/internal/domain"
)

// ConvertFunc converts an amount between currencies at a given month's
// historical rate. Implementations must fall back to the unconverted amount
// when no rate is available (pending state, never an error).
type ConvertFunc func(amount float64, from, to domain.Currency, month domain.Month) float64

// IdentityConvert is a ConvertFunc that performs no conversion. Useful for
// single-currency datasets and tests.
func IdentityConvert(amount float64, _, _ domain.Currency, _ domain.Month) float64 {
	return amount
}

// chartWindow maps chart periods to the number of trailing months shown.
var chartWindow = map[domain.Period]int{
	domain.Period1M: 1,
	domain.Period3M: 3,
	domain.Period6M: 6,
	domain.Period1Y: 12,
}

// FilterAccounts applies the query's account filters. Empty filter slices
// pass everything through.
func FilterAccounts(accounts []domain.Account, q domain.ChartQuery) []domain.Account {
	ids := make(map[string]bool, len(q.AccountIDs))
	for _, id := range q.AccountIDs {
		ids[id] = true
	}
	types := make(map[domain.AccountType]bool, len(q.Types))
	for _, t := range q.Types {
		types[t] = true
	}
	categories := make(map[domain.Category]bool, len(q.Categories))
	for _, c := range q.Categories {
		categories[c] = true
	}

	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if len(ids) > 0 && !ids[a.ID] {
			continue
		}
		if len(types) > 0 && !types[a.Type] {
			continue
		}
		if len(categories) > 0 && !categories[a.Category] {
			continue
		}
		if q.Owner != "" && a.Owner != q.Owner {
			continue
		}
		out = append(out, a)
	}
	return out
}

// periodStart returns the first month included by the query period, or the
// zero Month for ALL.
func periodStart(period domain.Period, today domain.Month) domain.Month {
	if period == domain.PeriodYTD {
		return domain.NewMonth(today.Year(), 1)
	}
	if n, ok := chartWindow[period]; ok {
		return today.Add(-(n - 1))
	}
	return domain.Month{} // ALL
}

// balanceAt returns the most recent entry at or before month m from an
// ascending history, carrying the last known balance across gaps. ok is
// false before the account's first recorded month.
func balanceAt(asc []domain.DerivedEntry, m domain.Month) (domain.DerivedEntry, bool) {
	var last domain.DerivedEntry
	found := false
	for _, e := range asc {
		if e.Month.After(m) {
			break
		}
		last = e
		found = true
	}
	return last, found
}

// signFor returns the net-worth sign multiplier for an account type.
// Liabilities always subtract regardless of how their balance was stored;
// magnitudes are normalized positive at the storage boundary.
func signFor(t domain.AccountType) float64 {
	if t.IsLiability() {
		return -1
	}
	return 1
}

// BuildChartData folds the filtered accounts' derived entries into every
// series the dashboard renders. entriesByAccount must hold each account's
// derived entries sorted ascending by month. All amounts are converted into
// q.Currency at each providing entry's own month before aggregation.
//
// Net-worth style series carry an account's last known balance forward
// across months with no entry, so a sparse account does not read as dropping
// to zero.
func BuildChartData(
	accounts []domain.Account,
	entriesByAccount map[string][]domain.DerivedEntry,
	q domain.ChartQuery,
	today domain.Month,
	convert ConvertFunc,
) domain.ChartData {
	included := FilterAccounts(accounts, q)
	start := periodStart(q.Period, today)

	// Global month axis: every month any included account has an entry for,
	// clipped to the period window.
	monthSet := make(map[domain.Month]bool)
	for _, acct := range included {
		for _, e := range entriesByAccount[acct.ID] {
			if !start.IsZero() && e.Month.Before(start) {
				continue
			}
			if e.Month.After(today) {
				continue
			}
			monthSet[e.Month] = true
		}
	}
	months := make([]domain.Month, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	data := domain.ChartData{
		Currency:            q.Currency,
		NetWorth:            make([]domain.SeriesPoint, 0, len(months)),
		AssetsVsLiabilities: make([]domain.AssetsLiabilitiesPoint, 0, len(months)),
		SavingsRate:         make([]domain.SeriesPoint, 0, len(months)),
	}

	// Net worth, assets vs liabilities, savings rate: one fold per month.
	for _, m := range months {
		var netWorth, assets, liabilities float64
		var income, expenditure float64

		for _, acct := range included {
			asc := entriesByAccount[acct.ID]

			if e, ok := balanceAt(asc, m); ok {
				amount := convert(sanitize(e.EndingBalance), acct.Currency, q.Currency, e.Month)
				netWorth += signFor(acct.Type) * amount
				if acct.Type.IsLiability() {
					liabilities += amount
				} else {
					assets += amount
				}
			}

			if acct.Type.ShowsIncomeFields() {
				// Income/expenditure come only from an entry recorded in the
				// month itself, never carried forward.
				for _, e := range asc {
					if e.Month == m {
						income += convert(sanitize(e.Income), acct.Currency, q.Currency, m)
						expenditure += convert(sanitize(e.Expenditure), acct.Currency, q.Currency, m)
						break
					}
				}
			}
		}

		data.NetWorth = append(data.NetWorth, domain.SeriesPoint{Month: m, Value: netWorth})
		data.AssetsVsLiabilities = append(data.AssetsVsLiabilities, domain.AssetsLiabilitiesPoint{
			Month:       m,
			Assets:      assets,
			Liabilities: liabilities,
			Net:         assets - liabilities,
		})

		rate := 0.0
		if income > 0 {
			rate = (income - expenditure) / income * 100
		}
		data.SavingsRate = append(data.SavingsRate, domain.SeriesPoint{Month: m, Value: rate})
	}

	// Per-account balance series (only months the account actually recorded).
	data.Accounts = make([]domain.AccountSeries, 0, len(included))
	for _, acct := range included {
		series := domain.AccountSeries{
			AccountID: acct.ID,
			Name:      acct.Name,
			Type:      acct.Type,
			Owner:     acct.Owner,
			Color:     acct.Type.Color(),
			Points:    []domain.SeriesPoint{},
		}
		for _, e := range entriesByAccount[acct.ID] {
			if !monthSet[e.Month] {
				continue
			}
			amount := convert(sanitize(e.EndingBalance), acct.Currency, q.Currency, e.Month)
			series.Points = append(series.Points, domain.SeriesPoint{
				Month: e.Month,
				Value: signFor(acct.Type) * amount,
			})
		}
		data.Accounts = append(data.Accounts, series)
	}

	// Allocation at the latest month in range: share of positive balances.
	if len(months) > 0 {
		latest := months[len(months)-1]
		data.TypeAllocation = allocation(included, entriesByAccount, latest, q.Currency, convert,
			func(a domain.Account) string { return string(a.Type) })
		data.CategoryAllocation = allocation(included, entriesByAccount, latest, q.Currency, convert,
			func(a domain.Account) string { return string(a.Category) })
	} else {
		data.TypeAllocation = []domain.AllocationSlice{}
		data.CategoryAllocation = []domain.AllocationSlice{}
	}

	// Wealth-source aggregation over the window.
	var from domain.Month
	if len(months) > 0 {
		from = months[0]
	}
	data.Sources = SummarizeSources(included, entriesByAccount, from, today, q.Currency, convert)

	// Waterfall: month-over-month net-worth bridge.
	data.Waterfall = buildWaterfall(included, entriesByAccount, months, q.Currency, convert)

	return data
}

// allocation computes each group's share of the positive balances held at
// the given month, grouped by the key function.
func allocation(
	accounts []domain.Account,
	entriesByAccount map[string][]domain.DerivedEntry,
	month domain.Month,
	target domain.Currency,
	convert ConvertFunc,
	keyOf func(domain.Account) string,
) []domain.AllocationSlice {
	grouped := make(map[string]float64)
	var totalPositive float64

	for _, acct := range accounts {
		e, ok := balanceAt(entriesByAccount[acct.ID], month)
		if !ok {
			continue
		}
		amount := signFor(acct.Type) * convert(sanitize(e.EndingBalance), acct.Currency, target, e.Month)
		if amount <= 0 {
			continue
		}
		grouped[keyOf(acct)] += amount
		totalPositive += amount
	}

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	slices := make([]domain.AllocationSlice, 0, len(labels))
	for _, label := range labels {
		pct := 0.0
		if totalPositive > 0 {
			pct = grouped[label] / totalPositive * 100
		}
		slices = append(slices, domain.AllocationSlice{
			Label:      label,
			Amount:     grouped[label],
			Percentage: pct,
		})
	}
	return slices
}

// buildWaterfall decomposes each consecutive month pair's net-worth move
// into the three wealth-source buckets plus a residual capturing cash flow
// and anything not attributed to a bucket (including liability moves).
func buildWaterfall(
	accounts []domain.Account,
	entriesByAccount map[string][]domain.DerivedEntry,
	months []domain.Month,
	target domain.Currency,
	convert ConvertFunc,
) []domain.WaterfallStep {
	steps := make([]domain.WaterfallStep, 0)
	if len(months) < 2 {
		return steps
	}

	for i := 1; i < len(months); i++ {
		prev, cur := months[i-1], months[i]
		step := domain.WaterfallStep{Month: cur}

		for _, acct := range accounts {
			asc := entriesByAccount[acct.ID]

			var prevBal, curBal float64
			if e, ok := balanceAt(asc, prev); ok {
				prevBal = signFor(acct.Type) * convert(sanitize(e.EndingBalance), acct.Currency, target, e.Month)
			}
			if e, ok := balanceAt(asc, cur); ok {
				curBal = signFor(acct.Type) * convert(sanitize(e.EndingBalance), acct.Currency, target, e.Month)
			}
			delta := curBal - prevBal

			attributed := 0.0
			for _, e := range asc {
				if e.Month != cur {
					continue
				}
				for _, attr := range AttributeGrowth(acct.Type, e) {
					amount := convert(attr.Amount, acct.Currency, target, cur)
					attributed += amount
					switch attr.Source {
					case domain.SourceSavings:
						step.Savings += amount
					case domain.SourceInterest:
						step.Interest += amount
					case domain.SourceCapitalGains:
						step.CapitalGains += amount
					}
				}
				break
			}

			step.Residual += delta - attributed
			step.Net += delta
		}

		steps = append(steps, step)
	}
	return steps
}
