package sheets

import (
	"context"

	"financas/internal/core"
)

// Ports for ledger sources.
type (
	// LedgerReader loads a ledger as a wide table: one row per period, one
	// column per category.
	LedgerReader interface {
		ReadTable(ctx context.Context) (core.Table, error)
	}

	// LedgerWriter stores a wide table so it can be read back later.
	LedgerWriter interface {
		// WriteTable stores every monetary cell of t and returns the number
		// of cells written.
		WriteTable(ctx context.Context, periodColumn string, t core.Table) (int, error)
	}

	// Describer names a source for logs and error messages.
	Describer interface {
		Describe() string
	}
)

// Describe returns a human readable name for a reader.
func Describe(r LedgerReader) string {
	if d, ok := r.(Describer); ok {
		return d.Describe()
	}
	return "ledger"
}
