package services

import (
	"context"
	"sort"

	"financas/internal/core"
	applog "financas/internal/log"
)

// Aggregator derives totals and scalar metrics from normalized rows. The
// fixed monthly income is supplied at construction time.
type Aggregator struct {
	income float64
	logger *applog.Logger
}

// NewAggregator creates an aggregator for the given monthly income.
func NewAggregator(income float64, logger *applog.Logger) *Aggregator {
	if logger == nil {
		logger = applog.Default()
	}
	return &Aggregator{income: income, logger: logger.WithComponent(applog.ComponentAggregator)}
}

// Income returns the configured fixed income.
func (a *Aggregator) Income() float64 {
	return a.income
}

// TotalsByCategory sums each category across all rows. The result is sorted
// by descending amount, then by name, so it is stable for any row order.
func TotalsByCategory(rows []core.NormalizedRow) []core.CategoryAmount {
	sums := map[string]float64{}
	for _, r := range rows {
		for cat, v := range r.Amounts {
			sums[cat] += v
		}
	}
	return sortedAmounts(sums)
}

// LatestPeriodTotal sums the monetary columns of the most recent period.
func LatestPeriodTotal(rows []core.NormalizedRow) (core.Period, float64, error) {
	latest, err := core.LatestRow(rows)
	if err != nil {
		return core.Period{}, 0, err
	}
	return latest.Period, latest.Total(), nil
}

// Balance is income minus spending. Negative means overspending.
func Balance(income, total float64) float64 {
	return income - total
}

// PercentUsed is the share of income spent, as a ratio. Zero income yields 0.
func PercentUsed(income, total float64) float64 {
	if income == 0 {
		return 0
	}
	return total / income
}

// Summarize builds the summary record for a ledger.
func (a *Aggregator) Summarize(ctx context.Context, ledger core.Ledger) (core.Summary, error) {
	period, latestTotal, err := LatestPeriodTotal(ledger.Rows)
	if err != nil {
		return core.Summary{}, err
	}
	s := core.Summary{
		TotalsByCategory:  TotalsByCategory(ledger.Rows),
		LatestPeriod:      period,
		LatestPeriodTotal: latestTotal,
		FixedIncome:       a.income,
		Balance:           Balance(a.income, latestTotal),
		PercentUsed:       PercentUsed(a.income, latestTotal),
	}
	a.logger.InfoContext(ctx, "Summary computed",
		applog.NewFields().
			WithOperation(applog.OpAggregate).
			WithSummary(period.String(), a.income, core.Round2(latestTotal), core.Round2(s.Balance)).
			ToSlice()...)
	return s, nil
}

// PeriodTotals returns one overview per period in chronological order.
func (a *Aggregator) PeriodTotals(ledger core.Ledger) ([]core.PeriodOverview, error) {
	if ledger.IsEmpty() {
		return nil, core.ErrEmptyDataset
	}
	rows := append([]core.NormalizedRow(nil), ledger.Rows...)
	core.SortRows(rows)
	out := make([]core.PeriodOverview, 0, len(rows))
	for _, r := range rows {
		total := r.Total()
		out = append(out, core.PeriodOverview{
			Period:      r.Period,
			Total:       total,
			Balance:     Balance(a.income, total),
			PercentUsed: PercentUsed(a.income, total),
			ByCategory:  sortedAmounts(r.Amounts),
		})
	}
	return out, nil
}

// AverageBalance is the mean per-period balance across the ledger.
func (a *Aggregator) AverageBalance(ledger core.Ledger) (float64, error) {
	overviews, err := a.PeriodTotals(ledger)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, o := range overviews {
		sum += o.Balance
	}
	return sum / float64(len(overviews)), nil
}

func sortedAmounts(sums map[string]float64) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(sums))
	for name, amt := range sums {
		out = append(out, core.CategoryAmount{Name: name, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	return out
}
