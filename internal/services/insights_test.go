package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/core"
	applog "financas/internal/log"
)

func kinds(in []core.Insight) []core.InsightKind {
	out := make([]core.InsightKind, len(in))
	for i, x := range in {
		out[i] = x.Kind
	}
	return out
}

func TestInsightsOverspendComesFirst(t *testing.T) {
	e := NewInsightEngine(3685, DefaultInsightOptions(), applog.Discard())
	current := map[string]float64{
		"Nubank":      2000,
		"Itaú":        1000,
		"Mercado":     650,
		"Assinaturas": 250,
	}

	got := e.Evaluate(context.Background(), current, nil)
	require.NotEmpty(t, got)
	assert.Equal(t, core.InsightOverspend, got[0].Kind)
	assert.Contains(t, got[0].Message, "R$ 215,00")
	assert.Equal(t, []core.InsightKind{
		core.InsightOverspend,
		core.InsightHeavyCategory,
		core.InsightHeavyCategory,
		core.InsightSubscriptions,
		core.InsightConcentration,
	}, kinds(got))
	assert.Equal(t, "Nubank", got[1].Category)
	assert.Equal(t, "Itaú", got[2].Category)
	assert.Equal(t, "Nubank", got[4].Category)
	assert.Contains(t, got[4].Message, "51,3%")
}

func TestInsightsSurplus(t *testing.T) {
	e := NewInsightEngine(4185, DefaultInsightOptions(), applog.Discard())
	got := e.Evaluate(context.Background(), map[string]float64{"Nubank": 300, "Itaú": 300, "Inter": 100}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, core.InsightSurplus, got[0].Kind)
	assert.Contains(t, got[0].Message, "R$ 3.485,00")
}

func TestInsightsConcentrationRestrictedToSources(t *testing.T) {
	opts := DefaultInsightOptions()
	opts.Sources = []string{"nubank", "Itaú"}
	e := NewInsightEngine(10000, opts, applog.Discard())

	got := e.Evaluate(context.Background(), map[string]float64{"Aluguel": 800, "Nubank": 150, "Itaú": 50}, nil)
	assert.Equal(t, []core.InsightKind{core.InsightSurplus}, kinds(got))

	got = e.Evaluate(context.Background(), map[string]float64{"Aluguel": 100, "Nubank": 600, "Itaú": 50}, nil)
	require.Len(t, got, 2)
	assert.Equal(t, core.InsightConcentration, got[1].Kind)
	assert.Equal(t, "Nubank", got[1].Category)
}

func TestInsightsGrowth(t *testing.T) {
	e := NewInsightEngine(100000, DefaultInsightOptions(), applog.Discard())
	previous := map[string]float64{"Nubank": 1000, "Itaú": 1000, "Inter": 0, "Mercado": 100}
	current := map[string]float64{"Nubank": 1200, "Itaú": 1100, "Inter": 500, "Mercado": 150, "Novo": 10}

	got := e.Evaluate(context.Background(), current, previous)
	require.Equal(t, []core.InsightKind{core.InsightSurplus, core.InsightGrowth, core.InsightGrowth}, kinds(got))
	assert.Equal(t, "Mercado", got[1].Category)
	assert.Contains(t, got[1].Message, "50,0%")
	assert.Equal(t, "Nubank", got[2].Category)
	assert.Contains(t, got[2].Message, "20,0%")
}

func TestInsightsZeroIncome(t *testing.T) {
	e := NewInsightEngine(0, DefaultInsightOptions(), applog.Discard())
	got := e.Evaluate(context.Background(), map[string]float64{"Assinaturas": 50}, nil)
	assert.Equal(t, []core.InsightKind{core.InsightOverspend, core.InsightConcentration}, kinds(got))
}

func TestEvaluateLedgerUsesPreviousPeriod(t *testing.T) {
	e := NewInsightEngine(4185, DefaultInsightOptions(), applog.Discard())
	got, err := e.EvaluateLedger(context.Background(), threePeriods())
	require.NoError(t, err)
	assert.Equal(t, core.InsightSurplus, got[0].Kind)

	_, err = e.EvaluateLedger(context.Background(), core.Ledger{})
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}
