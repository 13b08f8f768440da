package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/core"
	applog "financas/internal/log"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "financas.db")
	repo, err := NewSQLiteRepository(path, Options{Create: true}, applog.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestWriteAndReadTable(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	n, err := repo.WriteTable(ctx, "Data", core.Table{
		Header: []string{"Data", "Nubank", "Itaú", "Total"},
		Records: [][]core.RawValue{
			{"2025-01", "R$ 1.500,00", "R$ 1.506,47", "R$ 3.006,47"},
			{"2025-02", "R$ 2.000,00", "", "R$ 2.000,00"},
			{"", "R$ 9,00", "", ""},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	tb, err := repo.ReadTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Nubank", "Itaú"}, tb.Header)
	require.Len(t, tb.Records, 2)
	assert.Equal(t, []core.RawValue{"2025-01", "R$ 1.500,00", "R$ 1.506,47"}, tb.Records[0])
	assert.Equal(t, []core.RawValue{"2025-02", "R$ 2.000,00", nil}, tb.Records[1])
}

func TestWriteTableOverwritesAndKeepsNumbers(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.WriteTable(ctx, "Data", core.Table{
		Header:  []string{"Data", "Nubank"},
		Records: [][]core.RawValue{{"2025-01", "R$ 1,00"}},
	})
	require.NoError(t, err)
	_, err = repo.WriteTable(ctx, "Data", core.Table{
		Header:  []string{"Data", "Nubank"},
		Records: [][]core.RawValue{{"2025-01", 1234.56}},
	})
	require.NoError(t, err)

	tb, err := repo.ReadTable(ctx)
	require.NoError(t, err)
	require.Len(t, tb.Records, 1)
	assert.InDelta(t, 1234.56, core.ParseAmount(tb.Records[0][1]), 1e-9)
}

func TestWriteTableStoresRepeatedCellsAsTheirSum(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.WriteTable(ctx, "Data", core.Table{
		Header:  []string{"Data", "Nubank"},
		Records: [][]core.RawValue{{"2025-01", []core.RawValue{"R$ 10,00", 5.5}}},
	})
	require.NoError(t, err)

	tb, err := repo.ReadTable(ctx)
	require.NoError(t, err)
	require.Len(t, tb.Records, 1)
	assert.InDelta(t, 15.5, core.ParseAmount(tb.Records[0][1]), 1e-9)
}

func TestWriteTableMissingPeriodColumn(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.WriteTable(context.Background(), "Data", core.Table{Header: []string{"Mes", "Nubank"}})
	var colErr *core.ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "Data", colErr.Column)
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "missing.db"), Options{}, applog.Discard())
	assert.ErrorIs(t, err, core.ErrDataSourceNotFound)
}

func TestMigrationStatus(t *testing.T) {
	repo := newRepo(t)
	st, err := Status(repo.path)
	require.NoError(t, err)
	assert.True(t, st.Applied)
	assert.False(t, st.Dirty)
	assert.Equal(t, uint(1), st.Version)
	assert.Equal(t, "sqlite:"+repo.path, repo.Describe())
}
