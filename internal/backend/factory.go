package backend

import (
	"context"
	"fmt"

	applog "financas/internal/log"
	ports "financas/internal/sheets"
	"financas/internal/sheets/csvfile"
	gsheet "financas/internal/sheets/google"
	"financas/internal/sheets/memory"
	"financas/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Default()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVBackend(config Config) (*BackendResult, error) {
	sep, err := csvfile.ParseSeparator(config.CSVSeparator)
	if err != nil {
		return nil, err
	}

	readers := make([]ports.LedgerReader, 0, len(config.CSVPaths))
	for _, path := range config.CSVPaths {
		r, err := csvfile.New(csvfile.Options{
			Path:         path,
			Separator:    sep,
			Encoding:     config.CSVEncoding,
			Layout:       csvfile.Layout(config.CSVLayout),
			PeriodColumn: config.PeriodColumn,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize CSV reader: %w", err)
		}
		readers = append(readers, r)
		f.logger.Debug("CSV source opened", applog.NewFields().
			WithComponent(applog.ComponentCSV).
			WithOperation(applog.OpLoad).
			WithSource(string(CSVBackend), path).
			ToSlice()...)
	}

	f.logger.Info("Initialized CSV backend",
		"files", len(readers),
		"layout", config.CSVLayout,
		"encoding", config.CSVEncoding)

	if len(readers) == 1 {
		return &BackendResult{Reader: readers[0]}, nil
	}
	return &BackendResult{Reader: NewMultiReader(config.PeriodColumn, f.logger, readers...)}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, storage.Options{
		Create:       config.SQLiteCreate,
		PeriodColumn: config.PeriodColumn,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", applog.FieldPath, config.SQLiteDBPath)

	return &BackendResult{
		Reader:  sqliteRepo,
		Writer:  sqliteRepo,
		Cleanup: sqliteRepo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		PrefixYear:      config.GooglePrefixYear,
		Range:           config.GoogleRange,
		Layout:          gsheet.Layout(config.GoogleLayout),
		PeriodColumn:    config.PeriodColumn,
		Unformatted:     config.GoogleUnformatted,
		CredentialsFile: config.GoogleCredentialsFile,
		CredentialsJSON: config.GoogleCredentialsJSON,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", applog.FieldSheetsRef, cli.Describe())

	return &BackendResult{Reader: cli}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store := memory.New(config.MemoryTable)

	f.logger.Info("Initialized memory backend", applog.FieldRows, len(config.MemoryTable.Records))

	return &BackendResult{
		Reader: store,
		Writer: store,
	}, nil
}
