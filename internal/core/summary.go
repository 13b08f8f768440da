package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount float64
}

// Summary is the derived record handed to presentation layers. It is rebuilt
// on every query and never stored as a source of truth.
type Summary struct {
	TotalsByCategory  []CategoryAmount
	LatestPeriod      Period
	LatestPeriodTotal float64
	FixedIncome       float64
	Balance           float64
	PercentUsed       float64
}

// TotalsMap returns the category totals keyed by name.
func (s Summary) TotalsMap() map[string]float64 {
	out := make(map[string]float64, len(s.TotalsByCategory))
	for _, c := range s.TotalsByCategory {
		out[c.Name] = c.Amount
	}
	return out
}

// PeriodOverview is a compact summary for one period.
type PeriodOverview struct {
	Period      Period
	Total       float64
	Balance     float64
	PercentUsed float64
	ByCategory  []CategoryAmount
}

// InsightKind classifies an insight message.
type InsightKind string

const (
	InsightOverspend     InsightKind = "overspend"
	InsightSurplus       InsightKind = "surplus"
	InsightHeavyCategory InsightKind = "heavy_category"
	InsightSubscriptions InsightKind = "subscriptions"
	InsightConcentration InsightKind = "concentration"
	InsightGrowth        InsightKind = "growth"
)

// Insight is a rule-derived observation about spending.
type Insight struct {
	Kind     InsightKind
	Category string
	Message  string
}

// ForecastPoint is one projected cumulative savings value.
type ForecastPoint struct {
	Step       int
	Cumulative float64
}

// Report bundles everything a presentation layer needs for one load.
type Report struct {
	Source         string
	Ledger         Ledger
	Summary        Summary
	Periods        []PeriodOverview
	Insights       []Insight
	AverageBalance float64
	Forecast       []ForecastPoint
}
