package engine

import "github.com/finsight/networth-go/internal/domain"

// GrowthAttribution is one (bucket, amount) classification of an
// account-month's growth.
type GrowthAttribution struct {
	Source domain.WealthSource
	Amount float64
}

// AttributeGrowth classifies a single derived entry's growth into wealth
// sources by account type:
//
//   - Current: positive income-minus-expenditure goes to Savings from Income,
//     and non-negative growth goes to Interest Earned (two distinct buckets:
//     cash-flow-driven savings vs balance growth).
//   - Savings: non-negative growth goes to Interest Earned.
//   - Investment-like types and Asset: growth goes to Capital Gains, signed,
//     so losses show as losses.
//   - Liabilities (Credit_Card, Loan): excluded from decomposition entirely.
func AttributeGrowth(acctType domain.AccountType, e domain.DerivedEntry) []GrowthAttribution {
	bucket, ok := acctType.Bucket()
	if !ok {
		return nil
	}

	var out []GrowthAttribution

	if acctType.ShowsIncomeFields() {
		if saved := sanitize(e.Income) - sanitize(e.Expenditure); saved > 0 {
			out = append(out, GrowthAttribution{Source: domain.SourceSavings, Amount: saved})
		}
	}

	switch bucket {
	case domain.SourceInterest:
		if g := sanitize(e.AccountGrowth); g >= 0 {
			out = append(out, GrowthAttribution{Source: domain.SourceInterest, Amount: g})
		}
	case domain.SourceCapitalGains:
		out = append(out, GrowthAttribution{Source: domain.SourceCapitalGains, Amount: sanitize(e.AccountGrowth)})
	}

	return out
}

// SummarizeSources aggregates growth attribution across accounts and months.
// entries maps account ID to that account's derived entries; convert maps
// each amount into the target currency at the entry's own month. Months
// outside [from, to] are skipped (zero bounds disable that side).
//
// Savings from Income and Interest Earned totals are floored at 0 for the
// source chart; Capital Gains is never floored. The per-account breakdown is
// retained alongside the aggregate for drill-down, and the breakdown amounts
// for each bucket sum exactly to that bucket's unfloored total.
func SummarizeSources(
	accounts []domain.Account,
	entries map[string][]domain.DerivedEntry,
	from, to domain.Month,
	target domain.Currency,
	convert ConvertFunc,
) domain.SourceSummary {
	totals := make(map[domain.WealthSource]float64, len(domain.AllWealthSources))
	perAccount := make(map[domain.WealthSource]map[string]float64)
	for _, src := range domain.AllWealthSources {
		totals[src] = 0
		perAccount[src] = make(map[string]float64)
	}

	for _, acct := range accounts {
		for _, e := range entries[acct.ID] {
			if !from.IsZero() && e.Month.Before(from) {
				continue
			}
			if !to.IsZero() && e.Month.After(to) {
				continue
			}
			for _, attr := range AttributeGrowth(acct.Type, e) {
				amount := convert(attr.Amount, acct.Currency, target, e.Month)
				totals[attr.Source] += amount
				perAccount[attr.Source][acct.ID] += amount
			}
		}
	}

	// Floor the cash-driven buckets so the "where growth came from" chart
	// never shows a negative source; capital gains stays signed.
	for _, src := range []domain.WealthSource{domain.SourceSavings, domain.SourceInterest} {
		if totals[src] < 0 {
			totals[src] = 0
		}
	}

	breakdown := make(map[domain.WealthSource][]domain.SourceContribution, len(domain.AllWealthSources))
	for _, src := range domain.AllWealthSources {
		items := make([]domain.SourceContribution, 0, len(perAccount[src]))
		for _, acct := range accounts {
			amount, ok := perAccount[src][acct.ID]
			if !ok {
				continue
			}
			items = append(items, domain.SourceContribution{
				AccountID: acct.ID,
				Name:      acct.Name,
				Type:      acct.Type,
				Owner:     acct.Owner,
				Amount:    amount,
			})
		}
		breakdown[src] = items
	}

	return domain.SourceSummary{Totals: totals, Breakdown: breakdown}
}
