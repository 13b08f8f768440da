package google

import (
	"fmt"
	"strings"

	"financas/internal/core"
	ports "financas/internal/sheets"
)

// Layout tells how the sheet range is organized.
type Layout string

const (
	// Wide has one row per period and one column per category.
	Wide Layout = "wide"
	// Long has one row per (period, category) pair.
	Long Layout = "long"
	// Dashboard has one row per category and one column per period, as in a
	// yearly dashboard tab ("Categoria", "Jan", "Fev", ...).
	Dashboard Layout = "dashboard"
)

// parseValues converts a values matrix (as returned by the Sheets API) into
// a wide table. The first row is the header.
func parseValues(values [][]interface{}, layout Layout, periodColumn string) (core.Table, error) {
	if len(values) == 0 {
		return core.Table{}, fmt.Errorf("%w: empty range", core.ErrInvalidColumnSchema)
	}
	if periodColumn == "" {
		periodColumn = core.DefaultPeriodColumn
	}
	t := core.Table{Header: toStrings(values[0])}
	for _, row := range values[1:] {
		rec := make([]core.RawValue, len(row))
		for i, v := range row {
			if s, ok := v.(string); ok {
				rec[i] = strings.TrimSpace(s)
				continue
			}
			rec[i] = v
		}
		t.Records = append(t.Records, rec)
	}

	switch layout {
	case "", Wide:
		return t, nil
	case Long:
		return ports.Pivot(t, periodColumn, ports.DefaultCategoryColumn, ports.DefaultValueColumn)
	case Dashboard:
		return transpose(t, periodColumn)
	default:
		return core.Table{}, fmt.Errorf("unsupported sheet layout %q", layout)
	}
}

// transpose turns a dashboard tab (categories down, periods across) into the
// wide layout. Rows labelled "total" and blank labels are skipped; trailing
// summary columns such as "Média" or "Total" are not periods and are dropped.
func transpose(t core.Table, periodColumn string) (core.Table, error) {
	if len(t.Header) < 2 {
		return core.Table{}, fmt.Errorf("%w: dashboard needs a category column and at least one period", core.ErrInvalidColumnSchema)
	}
	var periodCols []int
	for i, h := range t.Header[1:] {
		h = strings.TrimSpace(h)
		if h == "" || isSummaryHeader(h) {
			continue
		}
		periodCols = append(periodCols, i+1)
	}
	if len(periodCols) == 0 {
		return core.Table{}, fmt.Errorf("%w: dashboard has no period columns; got headers=%v", core.ErrInvalidColumnSchema, t.Header)
	}

	var categories []string
	var rows [][]core.RawValue
	for _, rec := range t.Records {
		name := ports.CellString(ports.SafeGet(rec, 0))
		if name == "" || strings.EqualFold(name, core.TotalColumn) {
			continue
		}
		categories = append(categories, name)
		rows = append(rows, rec)
	}

	out := core.Table{Header: append([]string{periodColumn}, categories...)}
	for _, col := range periodCols {
		rec := make([]core.RawValue, 0, len(categories)+1)
		rec = append(rec, t.Header[col])
		for _, src := range rows {
			rec = append(rec, ports.SafeGet(src, col))
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func isSummaryHeader(h string) bool {
	switch strings.ToLower(h) {
	case "total", "média", "media", "average", "soma":
		return true
	}
	return false
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
