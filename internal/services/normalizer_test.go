package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/core"
	applog "financas/internal/log"
	ports "financas/internal/sheets"
)

func table(header []string, records ...[]core.RawValue) core.Table {
	return core.Table{Header: header, Records: records}
}

func TestNormalizeTableCleansCurrencyAndDropsTotal(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{}, applog.Discard())
	tb := table([]string{"Data", "Nubank", "Itaú", "Total"},
		[]core.RawValue{"2025-02", "R$ 1.234,56", "R$ 897,74", "R$ 99.999,00"},
		[]core.RawValue{"2025-01", "abc", nil, "R$ 1,00"},
	)

	ledger, err := n.NormalizeTable(context.Background(), tb)
	require.NoError(t, err)

	assert.Equal(t, []string{"Itaú", "Nubank"}, ledger.Categories)
	require.Len(t, ledger.Rows, 2)
	assert.Equal(t, time.January, ledger.Rows[0].Period.Month())
	assert.Equal(t, map[string]float64{"Nubank": 0, "Itaú": 0}, ledger.Rows[0].Amounts)
	assert.InDelta(t, 1234.56, ledger.Rows[1].Amounts["Nubank"], 1e-9)
	assert.InDelta(t, 897.74, ledger.Rows[1].Amounts["Itaú"], 1e-9)
	_, hasTotal := ledger.Rows[1].Amounts["Total"]
	assert.False(t, hasTotal)
}

func TestNormalizeDropsEmptyRows(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{}, applog.Discard())
	tb := table([]string{"Data", "Nubank", "Itaú"},
		[]core.RawValue{"2025-01", "R$ 10,00", ""},
		[]core.RawValue{"2025-02", "", "   "},
		[]core.RawValue{"", "", ""},
		[]core.RawValue{"2025-03", "0", "0"},
	)

	ledger, err := n.NormalizeTable(context.Background(), tb)
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 2)
	assert.Equal(t, time.January, ledger.Rows[0].Period.Month())
	assert.Equal(t, time.March, ledger.Rows[1].Period.Month())
}

func TestNormalizeMonetarySubset(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{Monetary: []string{"nubank", "Aluguel"}}, applog.Discard())
	tb := table([]string{"Data", "Nubank", "Itaú", "Aluguel"},
		[]core.RawValue{"2025-01", "R$ 10,00", "R$ 20,00", "R$ 1.000,00"},
	)

	ledger, err := n.NormalizeTable(context.Background(), tb)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nubank", "Aluguel"}, ledger.Categories)
	assert.InDelta(t, 1010.0, ledger.Rows[0].Total(), 1e-9)
}

func TestNormalizeExclude(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{Exclude: []string{"Obs"}}, applog.Discard())
	ledger, err := n.NormalizeTable(context.Background(), table([]string{"Data", "Nubank", "Obs"},
		[]core.RawValue{"2025-01", "R$ 10,00", "viagem"},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"Nubank"}, ledger.Categories)
}

func TestNormalizeMissingColumns(t *testing.T) {
	ctx := context.Background()

	_, err := NewNormalizer(NormalizeOptions{}, applog.Discard()).
		NormalizeTable(ctx, table([]string{"Mes", "Nubank"}, []core.RawValue{"2025-01", "1"}))
	var colErr *core.ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "Data", colErr.Column)

	_, err = NewNormalizer(NormalizeOptions{Monetary: []string{"Inter"}}, applog.Discard()).
		NormalizeTable(ctx, table([]string{"Data", "Nubank"}, []core.RawValue{"2025-01", "1"}))
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "Inter", colErr.Column)
	assert.ErrorIs(t, err, core.ErrInvalidColumnSchema)
}

func TestNormalizeCustomPeriodColumn(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{PeriodColumn: "Mes"}, applog.Discard())
	ledger, err := n.NormalizeTable(context.Background(), table([]string{"Mes", "Nubank"},
		[]core.RawValue{"Jan/2025", "R$ 5,00"},
	))
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 1)
	assert.Equal(t, "Jan/2025", ledger.Rows[0].Period.Label)
}

func TestNormalizeStrictMode(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{Strict: true}, applog.Discard())
	_, err := n.NormalizeTable(context.Background(), table([]string{"Data", "Nubank"},
		[]core.RawValue{"2025-01", "dez reais"},
	))
	assert.ErrorIs(t, err, core.ErrCellParse)
}

func TestNormalizeDuplicatePeriod(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{}, applog.Discard())
	_, err := n.NormalizeTable(context.Background(), table([]string{"Data", "Nubank"},
		[]core.RawValue{"2025-01", "1"},
		[]core.RawValue{"01/2025", "2"},
	))
	assert.ErrorIs(t, err, core.ErrDuplicatePeriod)
}

func TestNormalizeAmountsWithoutPeriod(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{}, applog.Discard())
	_, err := n.NormalizeTable(context.Background(), table([]string{"Data", "Nubank"},
		[]core.RawValue{"", "R$ 3,00"},
	))
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
}

func TestNormalizeNoRows(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{}, applog.Discard())
	ledger, err := n.NormalizeTable(context.Background(), table([]string{"Data", "Nubank"}))
	require.NoError(t, err)
	assert.True(t, ledger.IsEmpty())
}

func TestNormalizeMonthNamesWithoutYear(t *testing.T) {
	n := NewNormalizer(NormalizeOptions{}, applog.Discard())
	tb := table([]string{"Data", "Nubank"},
		[]core.RawValue{"Fev", "R$ 200,00"},
		[]core.RawValue{"Jan", "R$ 100,00"},
		[]core.RawValue{"Mar", "R$ 300,00"},
	)

	ledger, err := n.NormalizeTable(context.Background(), tb)
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 3)
	assert.Equal(t, "Jan", ledger.Rows[0].Period.Label)
	assert.Equal(t, "Fev", ledger.Rows[1].Period.Label)
	assert.Equal(t, "Mar", ledger.Rows[2].Period.Label)

	shuffled := []core.NormalizedRow{ledger.Rows[2], ledger.Rows[0], ledger.Rows[1]}
	period, total, err := LatestPeriodTotal(shuffled)
	require.NoError(t, err)
	assert.Equal(t, "Mar", period.Label)
	assert.InDelta(t, 300.0, total, 1e-9)
}

func TestNormalizeStrictRejectsBadRepeatedLongCell(t *testing.T) {
	long := table([]string{"Data", "Banco", "Valor"},
		[]core.RawValue{"2025-01", "Nubank", "R$ 10,00"},
		[]core.RawValue{"2025-01", "Nubank", "abc"},
	)
	wide, err := ports.Pivot(long, "Data", ports.DefaultCategoryColumn, ports.DefaultValueColumn)
	require.NoError(t, err)

	strict := NewNormalizer(NormalizeOptions{Strict: true}, applog.Discard())
	_, err = strict.NormalizeTable(context.Background(), wide)
	assert.ErrorIs(t, err, core.ErrCellParse)

	lenient := NewNormalizer(NormalizeOptions{}, applog.Discard())
	ledger, err := lenient.NormalizeTable(context.Background(), wide)
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 1)
	assert.InDelta(t, 10.0, ledger.Rows[0].Amounts["Nubank"], 1e-9)
}
