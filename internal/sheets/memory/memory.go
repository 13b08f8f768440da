package memory

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/core"
	ports "financas/internal/sheets"
)

var (
	_ ports.LedgerReader = (*Store)(nil)
	_ ports.LedgerWriter = (*Store)(nil)
)

// Store keeps a ledger table in memory.
type Store struct {
	mu    sync.Mutex
	table core.Table
}

// New creates a store holding a copy of t.
func New(t core.Table) *Store {
	return &Store{table: cloneTable(t)}
}

// NewFromRows builds a wide table from a header and string records.
func NewFromRows(header []string, records ...[]string) *Store {
	t := core.Table{Header: append([]string(nil), header...)}
	for _, rec := range records {
		row := make([]core.RawValue, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		t.Records = append(t.Records, row)
	}
	return &Store{table: t}
}

// ReadTable returns a copy of the stored table.
func (s *Store) ReadTable(_ context.Context) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTable(s.table), nil
}

// WriteTable replaces the stored table and returns the number of monetary
// cells it holds.
func (s *Store) WriteTable(_ context.Context, periodColumn string, t core.Table) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = cloneTable(t)
	cells := 0
	for _, rec := range t.Records {
		cells += len(rec)
	}
	if len(t.Records) > 0 && periodColumn != "" {
		cells -= len(t.Records)
	}
	return cells, nil
}

// Describe implements sheets.Describer.
func (s *Store) Describe() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("memory:%d rows", len(s.table.Records))
}

func cloneTable(t core.Table) core.Table {
	out := core.Table{Header: append([]string(nil), t.Header...)}
	for _, rec := range t.Records {
		out.Records = append(out.Records, append([]core.RawValue(nil), rec...))
	}
	return out
}
