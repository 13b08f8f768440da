package services

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/core"
	applog "financas/internal/log"
)

func row(year int, month time.Month, amounts map[string]float64) core.NormalizedRow {
	return core.NormalizedRow{Period: core.NewPeriod(year, month), Amounts: amounts}
}

func threePeriods() core.Ledger {
	return core.Ledger{
		Categories: []string{"Itaú", "Nubank"},
		Rows: []core.NormalizedRow{
			row(2025, time.January, map[string]float64{"Nubank": 1500.00, "Itaú": 1506.47}),
			row(2025, time.February, map[string]float64{"Nubank": 2000.00, "Itaú": 1402.18}),
			row(2025, time.March, map[string]float64{"Nubank": 1214.84, "Itaú": 1500.00}),
		},
	}
}

func TestTotalsByCategoryPermutationInvariant(t *testing.T) {
	rows := threePeriods().Rows
	want := TotalsByCategory(rows)

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]core.NormalizedRow(nil), rows...)
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := TotalsByCategory(shuffled)
		require.Len(t, got, len(want))
		for j := range want {
			assert.Equal(t, want[j].Name, got[j].Name)
			assert.InDelta(t, want[j].Amount, got[j].Amount, 1e-9)
		}
	}

	assert.Equal(t, "Nubank", want[0].Name)
	assert.InDelta(t, 4714.84, want[0].Amount, 1e-9)
	assert.InDelta(t, 4408.65, want[1].Amount, 1e-9)
}

func TestLatestPeriodTotalUsesMaxPeriod(t *testing.T) {
	rows := []core.NormalizedRow{
		row(2025, time.March, map[string]float64{"Nubank": 30}),
		row(2025, time.December, map[string]float64{"Nubank": 120, "Itaú": 5}),
		row(2024, time.December, map[string]float64{"Nubank": 999}),
	}
	period, total, err := LatestPeriodTotal(rows)
	require.NoError(t, err)
	assert.Equal(t, 2025, period.Year())
	assert.Equal(t, time.December, period.Month())
	assert.InDelta(t, 125.0, total, 1e-9)
}

func TestLatestPeriodTotalEmpty(t *testing.T) {
	_, _, err := LatestPeriodTotal(nil)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)

	_, err = NewAggregator(100, applog.Discard()).Summarize(context.Background(), core.Ledger{})
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestBalanceMayBeNegative(t *testing.T) {
	assert.InDelta(t, -215.00, Balance(3685.00, 3900.00), 1e-9)
	assert.InDelta(t, 1470.16, Balance(4185.00, 2714.84), 1e-9)
}

func TestPercentUsedZeroIncome(t *testing.T) {
	got := PercentUsed(0, 1234)
	assert.Zero(t, got)
	assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
	assert.InDelta(t, 0.5, PercentUsed(200, 100), 1e-12)
}

func TestSummarizeThreePeriods(t *testing.T) {
	a := NewAggregator(4185.00, applog.Discard())
	s, err := a.Summarize(context.Background(), threePeriods())
	require.NoError(t, err)

	assert.Equal(t, time.March, s.LatestPeriod.Month())
	assert.InDelta(t, 2714.84, s.LatestPeriodTotal, 1e-9)
	assert.InDelta(t, 1470.16, s.Balance, 1e-9)
	assert.InDelta(t, 0.649, s.PercentUsed, 0.0005)
	assert.Equal(t, 4185.00, s.FixedIncome)
	assert.InDelta(t, 4714.84, s.TotalsMap()["Nubank"], 1e-9)
}

func TestPeriodTotalsAndAverageBalance(t *testing.T) {
	a := NewAggregator(4185.00, applog.Discard())
	ledger := threePeriods()
	ledger.Rows[0], ledger.Rows[2] = ledger.Rows[2], ledger.Rows[0]

	periods, err := a.PeriodTotals(ledger)
	require.NoError(t, err)
	require.Len(t, periods, 3)
	assert.Equal(t, time.January, periods[0].Period.Month())
	assert.InDelta(t, 3006.47, periods[0].Total, 1e-9)
	assert.InDelta(t, 3402.18, periods[1].Total, 1e-9)
	assert.InDelta(t, 2714.84, periods[2].Total, 1e-9)

	avg, err := a.AverageBalance(ledger)
	require.NoError(t, err)
	assert.InDelta(t, 4185.00-(3006.47+3402.18+2714.84)/3, avg, 1e-9)

	_, err = a.AverageBalance(core.Ledger{})
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}
