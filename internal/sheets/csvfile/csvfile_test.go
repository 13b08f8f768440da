package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"financas/internal/core"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestReadWideCSV(t *testing.T) {
	path := writeFile(t, "gastos_mensais.csv", []byte("\ufeffData,Nubank,Itaú,Total\n"+
		"2025-01,\"R$ 1.500,00\",\"R$ 1.506,47\",\"R$ 3.006,47\"\n"+
		"2025-02,\"R$ 2.000,00\",,\n"))

	r, err := New(Options{Path: path})
	require.NoError(t, err)
	tb, err := r.ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Nubank", "Itaú", "Total"}, tb.Header)
	require.Len(t, tb.Records, 2)
	assert.Equal(t, "R$ 1.500,00", tb.Records[0][1])
	assert.Equal(t, "", tb.Records[1][2])
	assert.Equal(t, "csv:"+path, r.Describe())
}

func TestReadLongCSVPivots(t *testing.T) {
	path := writeFile(t, "gastos.csv", []byte("Data;Banco;Valor\n"+
		"2025-01;Nubank;R$ 100,00\n"+
		"2025-01;Itaú;R$ 50,00\n"+
		"2025-01;Nubank;R$ 25,50\n"+
		"2025-02;Itaú;R$ 10,00\n"))

	r, err := New(Options{Path: path, Separator: ';', Layout: Long})
	require.NoError(t, err)
	tb, err := r.ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Nubank", "Itaú"}, tb.Header)
	require.Len(t, tb.Records, 2)
	assert.InDelta(t, 125.5, core.ParseAmount(tb.Records[0][1]), 1e-9)
	assert.Equal(t, "R$ 50,00", tb.Records[0][2])
	assert.Nil(t, tb.Records[1][1])
}

func TestReadLatin1CSV(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("Data;Itaú;Alimentação\n2025-01;R$ 10,00;R$ 5,00\n"))
	require.NoError(t, err)
	path := writeFile(t, "latin1.csv", encoded)

	r, err := New(Options{Path: path, Separator: ';', Encoding: "latin1"})
	require.NoError(t, err)
	tb, err := r.ReadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Itaú", "Alimentação"}, tb.Header)
}

func TestMissingFile(t *testing.T) {
	r, err := New(Options{Path: filepath.Join(t.TempDir(), "nope.csv")})
	require.NoError(t, err)
	_, err = r.ReadTable(context.Background())
	assert.ErrorIs(t, err, core.ErrDataSourceNotFound)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestEmptyFile(t *testing.T) {
	r, err := New(Options{Path: writeFile(t, "empty.csv", nil)})
	require.NoError(t, err)
	_, err = r.ReadTable(context.Background())
	assert.ErrorIs(t, err, core.ErrInvalidColumnSchema)
}

func TestLongCSVMissingColumn(t *testing.T) {
	r, err := New(Options{Path: writeFile(t, "g.csv", []byte("Data,Conta,Valor\n2025-01,Nubank,1\n")), Layout: Long})
	require.NoError(t, err)
	_, err = r.ReadTable(context.Background())
	var colErr *core.ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "Banco", colErr.Column)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{Path: "x.csv", Encoding: "ebcdic"})
	assert.Error(t, err)
	_, err = New(Options{Path: "x.csv", Layout: "diagonal"})
	assert.Error(t, err)
}

func TestParseSeparator(t *testing.T) {
	for in, want := range map[string]rune{"": ',', "comma": ',', ";": ';', "semicolon": ';', "tab": '\t', "|": '|'} {
		got, err := ParseSeparator(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSeparator("::")
	assert.Error(t, err)
}
