package backend

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"financas/internal/core"
	applog "financas/internal/log"
	ports "financas/internal/sheets"
)

// MultiReader reads several sources concurrently and merges them into one
// wide table. A period present in more than one source is an error.
type MultiReader struct {
	readers      []ports.LedgerReader
	periodColumn string
	logger       *applog.Logger
}

var (
	_ ports.LedgerReader = (*MultiReader)(nil)
	_ ports.Describer    = (*MultiReader)(nil)
)

// NewMultiReader combines readers. An empty periodColumn means
// core.DefaultPeriodColumn.
func NewMultiReader(periodColumn string, logger *applog.Logger, readers ...ports.LedgerReader) *MultiReader {
	if periodColumn == "" {
		periodColumn = core.DefaultPeriodColumn
	}
	if logger == nil {
		logger = applog.Default()
	}
	return &MultiReader{readers: readers, periodColumn: periodColumn, logger: logger}
}

// Describe implements sheets.Describer.
func (m *MultiReader) Describe() string {
	names := make([]string, len(m.readers))
	for i, r := range m.readers {
		names[i] = ports.Describe(r)
	}
	return strings.Join(names, "+")
}

// ReadTable implements sheets.LedgerReader.
func (m *MultiReader) ReadTable(ctx context.Context) (core.Table, error) {
	tables, err := LoadAll(ctx, m.readers...)
	if err != nil {
		return core.Table{}, err
	}
	merged, err := MergeTables(m.periodColumn, tables...)
	if err != nil {
		return core.Table{}, err
	}
	m.logger.InfoContext(ctx, "Sources merged",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldSource, m.Describe(),
		applog.FieldRows, len(merged.Records))
	return merged, nil
}

// LoadAll reads every source concurrently. The first failure cancels the
// remaining reads. Results keep the order of readers.
func LoadAll(ctx context.Context, readers ...ports.LedgerReader) ([]core.Table, error) {
	tables := make([]core.Table, len(readers))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range readers {
		g.Go(func() error {
			t, err := r.ReadTable(gctx)
			if err != nil {
				return fmt.Errorf("read %s: %w", ports.Describe(r), err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// MergeTables unions the columns of tables and appends their records. The
// period column comes first; other columns keep first-seen order.
func MergeTables(periodColumn string, tables ...core.Table) (core.Table, error) {
	header := []string{periodColumn}
	colIdx := map[string]int{periodColumn: 0}
	for _, t := range tables {
		if ports.IndexOf(t.Header, periodColumn) < 0 {
			return core.Table{}, &core.ColumnError{Column: periodColumn}
		}
		for _, h := range t.Header {
			if _, ok := colIdx[h]; ok || strings.TrimSpace(h) == "" || strings.EqualFold(strings.TrimSpace(h), periodColumn) {
				continue
			}
			colIdx[h] = len(header)
			header = append(header, h)
		}
	}

	out := core.Table{Header: header}
	seen := map[string]bool{}
	for _, t := range tables {
		pi := ports.IndexOf(t.Header, periodColumn)
		for _, rec := range t.Records {
			label := ports.CellString(ports.SafeGet(rec, pi))
			if label != "" && !blankRecord(rec, pi) {
				p, err := core.ParsePeriod(label)
				if err != nil {
					return core.Table{}, err
				}
				if seen[p.Key()] {
					return core.Table{}, fmt.Errorf("%w: %s", core.ErrDuplicatePeriod, label)
				}
				seen[p.Key()] = true
			}
			row := make([]core.RawValue, len(header))
			row[0] = ports.SafeGet(rec, pi)
			for i, h := range t.Header {
				if i == pi {
					continue
				}
				if j, ok := colIdx[h]; ok && i < len(rec) {
					row[j] = rec[i]
				}
			}
			out.Records = append(out.Records, row)
		}
	}
	return out, nil
}

// blankRecord reports whether every cell except the period is blank. Such
// rows are placeholders the normalizer drops, so they never claim a period.
func blankRecord(rec []core.RawValue, periodIdx int) bool {
	for i, v := range rec {
		if i != periodIdx && !core.IsBlank(v) {
			return false
		}
	}
	return true
}
