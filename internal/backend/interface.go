package backend

import (
	"context"

	"financas/internal/core"
	ports "financas/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the ledger source and optional cleanup function
type BackendResult struct {
	Reader ports.LedgerReader
	// Writer is set for backends that accept imports (sqlite, memory).
	Writer  ports.LedgerWriter
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a ledger source based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	PeriodColumn string

	// CSV specific
	CSVPaths     []string
	CSVEncoding  string
	CSVSeparator string
	CSVLayout    string

	// SQLite specific
	SQLiteDBPath string
	// SQLiteCreate creates the database when missing (import target).
	SQLiteCreate bool

	// Google Sheets specific
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GooglePrefixYear      bool
	GoogleRange           string
	GoogleLayout          string
	GoogleUnformatted     bool
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Memory backend specific
	MemoryTable core.Table
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
