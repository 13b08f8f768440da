package sheets

import (
	"fmt"
	"strings"

	"financas/internal/core"
)

// IndexOf finds a header column by name, ignoring case and surrounding
// whitespace on both sides. It returns -1 when the column is missing.
func IndexOf(header []string, name string) int {
	name = strings.TrimSpace(name)
	for i, v := range header {
		if strings.EqualFold(strings.TrimSpace(v), name) {
			return i
		}
	}
	return -1
}

// SafeGet returns the cell at idx, or nil for short records.
func SafeGet(rec []core.RawValue, idx int) core.RawValue {
	if idx < 0 || idx >= len(rec) {
		return nil
	}
	return rec[idx]
}

// CellString renders a cell as trimmed text. Nil becomes "".
func CellString(v core.RawValue) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
