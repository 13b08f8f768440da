package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"financas/internal/core"
	applog "financas/internal/log"
	ports "financas/internal/sheets"
)

// NormalizeOptions selects which columns of a ledger are monetary.
type NormalizeOptions struct {
	// PeriodColumn is the identifier column. Defaults to core.DefaultPeriodColumn.
	PeriodColumn string
	// Monetary lists the categories to keep. Empty means every column except
	// the period, Total and Exclude.
	Monetary []string
	// Exclude lists columns that are never monetary.
	Exclude []string
	// Strict reports unparseable cells instead of coercing them to zero.
	Strict bool
}

// Normalizer turns raw ledger rows into a core.Ledger.
type Normalizer struct {
	opts   NormalizeOptions
	logger *applog.Logger
}

// NewNormalizer creates a normalizer. A nil logger uses the default one.
func NewNormalizer(opts NormalizeOptions, logger *applog.Logger) *Normalizer {
	if strings.TrimSpace(opts.PeriodColumn) == "" {
		opts.PeriodColumn = core.DefaultPeriodColumn
	}
	if logger == nil {
		logger = applog.Default()
	}
	return &Normalizer{opts: opts, logger: logger.WithComponent(applog.ComponentNormalizer)}
}

// RowsFromTable interprets a header + records table as ledger rows. The
// period column is required.
func (n *Normalizer) RowsFromTable(t core.Table) ([]core.LedgerRow, error) {
	periodIdx := ports.IndexOf(t.Header, n.opts.PeriodColumn)
	if periodIdx == -1 {
		return nil, &core.ColumnError{Column: n.opts.PeriodColumn}
	}
	rows := make([]core.LedgerRow, 0, len(t.Records))
	for i, rec := range t.Records {
		label := ports.CellString(ports.SafeGet(rec, periodIdx))
		amounts := make(map[string]core.RawValue, len(t.Header)-1)
		for col, name := range t.Header {
			if col == periodIdx || strings.TrimSpace(name) == "" {
				continue
			}
			amounts[strings.TrimSpace(name)] = ports.SafeGet(rec, col)
		}
		if label == "" {
			if allBlank(amounts) {
				continue
			}
			return nil, fmt.Errorf("row %d: %w: empty %s", i+2, core.ErrInvalidPeriod, n.opts.PeriodColumn)
		}
		period, err := core.ParsePeriod(label)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, core.LedgerRow{Period: period, Amounts: amounts})
	}
	return rows, nil
}

// Normalize parses every monetary cell, drops aggregate and fully empty rows
// and returns the rows ordered by period.
func (n *Normalizer) Normalize(ctx context.Context, rows []core.LedgerRow) (core.Ledger, error) {
	categories, err := n.monetaryColumns(rows)
	if err != nil {
		return core.Ledger{}, err
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]core.NormalizedRow, 0, len(rows))
	coerced := 0
	for _, row := range rows {
		empty := true
		amounts := make(map[string]float64, len(categories))
		for _, cat := range categories {
			raw := row.Amounts[cat]
			if !core.IsBlank(raw) {
				empty = false
			}
			v, perr := core.ParseAmountStrict(raw)
			if perr != nil {
				if n.opts.Strict {
					return core.Ledger{}, fmt.Errorf("period %s, column %s: %w", row.Period, cat, perr)
				}
				coerced++
				n.logger.DebugContext(ctx, "Coerced unparseable cell to zero",
					applog.FieldPeriod, row.Period.String(),
					applog.FieldCategory, cat,
					applog.FieldError, perr.Error())
			}
			amounts[cat] = v
		}
		if empty {
			continue
		}
		key := row.Period.Key()
		if _, dup := seen[key]; dup {
			return core.Ledger{}, fmt.Errorf("%w: %s", core.ErrDuplicatePeriod, row.Period)
		}
		seen[key] = struct{}{}
		out = append(out, core.NormalizedRow{Period: row.Period, Amounts: amounts})
	}
	core.SortRows(out)

	n.logger.InfoContext(ctx, "Ledger normalized",
		applog.FieldOperation, applog.OpNormalize,
		applog.FieldRows, len(out),
		"dropped_rows", len(rows)-len(out),
		"categories", len(categories),
		"coerced_cells", coerced)

	return core.Ledger{Rows: out, Categories: categories}, nil
}

// NormalizeTable is RowsFromTable followed by Normalize.
func (n *Normalizer) NormalizeTable(ctx context.Context, t core.Table) (core.Ledger, error) {
	rows, err := n.RowsFromTable(t)
	if err != nil {
		return core.Ledger{}, err
	}
	return n.Normalize(ctx, rows)
}

func (n *Normalizer) monetaryColumns(rows []core.LedgerRow) ([]string, error) {
	excluded := map[string]struct{}{
		strings.ToLower(n.opts.PeriodColumn): {},
		strings.ToLower(core.TotalColumn):    {},
	}
	for _, e := range n.opts.Exclude {
		excluded[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	isExcluded := func(name string) bool {
		_, ok := excluded[strings.ToLower(strings.TrimSpace(name))]
		return ok
	}

	present := map[string]string{}
	for _, row := range rows {
		for name := range row.Amounts {
			present[strings.ToLower(name)] = name
		}
	}

	if len(n.opts.Monetary) > 0 {
		out := make([]string, 0, len(n.opts.Monetary))
		for _, cat := range n.opts.Monetary {
			cat = strings.TrimSpace(cat)
			if cat == "" || isExcluded(cat) {
				continue
			}
			if len(rows) > 0 {
				actual, ok := present[strings.ToLower(cat)]
				if !ok {
					return nil, &core.ColumnError{Column: cat}
				}
				cat = actual
			}
			out = append(out, cat)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: no monetary columns selected", core.ErrInvalidColumnSchema)
		}
		return out, nil
	}

	out := make([]string, 0, len(present))
	for _, name := range present {
		if !isExcluded(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func allBlank(amounts map[string]core.RawValue) bool {
	for _, v := range amounts {
		if !core.IsBlank(v) {
			return false
		}
	}
	return true
}
