package sheets

import (
	"fmt"

	"financas/internal/core"
)

// Default column names of the long layout (one row per period and bank).
const (
	DefaultCategoryColumn = "Banco"
	DefaultValueColumn    = "Valor"
)

// Pivot turns a long table (period, category, value) into the wide layout.
// Cells that repeat a (period, category) pair are kept together as a
// []core.RawValue so the normalizer parses each one under its own strictness
// rules; a pair whose cells are all blank stays blank.
func Pivot(t core.Table, periodColumn, categoryColumn, valueColumn string) (core.Table, error) {
	pIdx := IndexOf(t.Header, periodColumn)
	if pIdx == -1 {
		return core.Table{}, &core.ColumnError{Column: periodColumn}
	}
	cIdx := IndexOf(t.Header, categoryColumn)
	if cIdx == -1 {
		return core.Table{}, &core.ColumnError{Column: categoryColumn}
	}
	vIdx := IndexOf(t.Header, valueColumn)
	if vIdx == -1 {
		return core.Table{}, &core.ColumnError{Column: valueColumn}
	}

	var (
		periods    []string
		categories []string
		seenCat    = map[string]bool{}
		cells      = map[string]map[string]core.RawValue{}
	)
	for _, rec := range t.Records {
		period := CellString(SafeGet(rec, pIdx))
		category := CellString(SafeGet(rec, cIdx))
		if period == "" && category == "" {
			continue
		}
		if category == "" {
			return core.Table{}, fmt.Errorf("period %q: %w: empty %s", period, core.ErrInvalidColumnSchema, categoryColumn)
		}
		row, ok := cells[period]
		if !ok {
			row = map[string]core.RawValue{}
			cells[period] = row
			periods = append(periods, period)
		}
		if !seenCat[category] {
			seenCat[category] = true
			categories = append(categories, category)
		}
		value := SafeGet(rec, vIdx)
		if core.IsBlank(value) {
			if _, exists := row[category]; !exists {
				row[category] = nil
			}
			continue
		}
		prev := row[category]
		if core.IsBlank(prev) {
			row[category] = value
			continue
		}
		if list, ok := prev.([]core.RawValue); ok {
			row[category] = append(list, value)
			continue
		}
		row[category] = []core.RawValue{prev, value}
	}

	out := core.Table{Header: append([]string{periodColumn}, categories...)}
	for _, period := range periods {
		rec := make([]core.RawValue, 0, len(out.Header))
		rec = append(rec, period)
		for _, cat := range categories {
			rec = append(rec, cells[period][cat])
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}
