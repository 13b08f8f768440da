package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"financas/internal/core"
	applog "financas/internal/log"
	ports "financas/internal/sheets"

	_ "modernc.org/sqlite"
)

var (
	_ ports.LedgerReader = (*SQLiteRepository)(nil)
	_ ports.LedgerWriter = (*SQLiteRepository)(nil)
	_ ports.Describer    = (*SQLiteRepository)(nil)
)

// SQLiteRepository keeps a ledger in the long layout inside a single SQLite
// file: one row per (period, category).
type SQLiteRepository struct {
	db           *sql.DB
	path         string
	periodColumn string
	logger       *applog.Logger
}

// Options configures a repository.
type Options struct {
	// Create allows creating a new database file. Readers leave it false so a
	// missing file is reported instead of silently producing an empty ledger.
	Create bool
	// PeriodColumn names the period column of tables read back.
	PeriodColumn string
}

// NewSQLiteRepository opens the database at dbPath and runs migrations.
func NewSQLiteRepository(dbPath string, opts Options, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.Default()
	}
	if opts.PeriodColumn == "" {
		opts.PeriodColumn = core.DefaultPeriodColumn
	}
	if opts.Create {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	} else if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrDataSourceNotFound, dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:           db,
		path:         dbPath,
		periodColumn: opts.PeriodColumn,
		logger:       logger.WithComponent(applog.ComponentStorage),
	}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Describe implements sheets.Describer.
func (r *SQLiteRepository) Describe() string {
	return "sqlite:" + r.path
}

// ReadTable implements sheets.LedgerReader. Entries come back in insertion
// order and are pivoted into the wide layout.
func (r *SQLiteRepository) ReadTable(ctx context.Context) (core.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT period, category, amount FROM ledger_entries ORDER BY id`)
	if err != nil {
		return core.Table{}, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	long := core.Table{Header: []string{r.periodColumn, ports.DefaultCategoryColumn, ports.DefaultValueColumn}}
	for rows.Next() {
		var (
			period, category string
			amount           any
		)
		if err := rows.Scan(&period, &category, &amount); err != nil {
			return core.Table{}, fmt.Errorf("scan ledger entry: %w", err)
		}
		if b, ok := amount.([]byte); ok {
			amount = string(b)
		}
		long.Records = append(long.Records, []core.RawValue{period, category, amount})
	}
	if err := rows.Err(); err != nil {
		return core.Table{}, fmt.Errorf("iterate ledger entries: %w", err)
	}

	r.logger.DebugContext(ctx, "Ledger entries read",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldRows, len(long.Records))

	return ports.Pivot(long, r.periodColumn, ports.DefaultCategoryColumn, ports.DefaultValueColumn)
}

// WriteTable implements sheets.LedgerWriter. Each non-blank cell becomes one
// entry; an existing (period, category) entry is overwritten. Aggregate
// columns are not stored.
func (r *SQLiteRepository) WriteTable(ctx context.Context, periodColumn string, t core.Table) (int, error) {
	if periodColumn == "" {
		periodColumn = r.periodColumn
	}
	periodIdx := ports.IndexOf(t.Header, periodColumn)
	if periodIdx == -1 {
		return 0, &core.ColumnError{Column: periodColumn}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_entries (period, category, amount)
		VALUES (?, ?, ?)
		ON CONFLICT (period, category) DO UPDATE SET
			amount = excluded.amount,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, rec := range t.Records {
		if periodIdx >= len(rec) {
			continue
		}
		period := strings.TrimSpace(fmt.Sprint(rec[periodIdx]))
		if core.IsBlank(rec[periodIdx]) || period == "" {
			continue
		}
		for col, name := range t.Header {
			name = strings.TrimSpace(name)
			if col == periodIdx || col >= len(rec) || name == "" || strings.EqualFold(name, core.TotalColumn) {
				continue
			}
			if core.IsBlank(rec[col]) {
				continue
			}
			value := rec[col]
			if list, ok := value.([]core.RawValue); ok {
				value = core.ParseAmount(list)
			}
			if _, err := stmt.ExecContext(ctx, period, name, value); err != nil {
				return 0, fmt.Errorf("insert %s/%s: %w", period, name, err)
			}
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	r.logger.InfoContext(ctx, "Ledger entries written",
		applog.FieldOperation, applog.OpImport,
		applog.FieldPath, r.path,
		"entries", written)
	return written, nil
}
