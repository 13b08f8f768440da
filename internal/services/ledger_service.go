package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
	ports "financas/internal/sheets"
)

// LedgerService loads a ledger from a source and derives the report. The
// ledger is reloaded on every call; nothing is cached between queries.
type LedgerService struct {
	reader     ports.LedgerReader
	normalizer *Normalizer
	aggregator *Aggregator
	insights   *InsightEngine
	horizon    int
	logger     *applog.Logger
}

// LedgerServiceConfig groups the knobs of a LedgerService.
type LedgerServiceConfig struct {
	Income    float64
	Normalize NormalizeOptions
	Insights  InsightOptions
	Horizon   int
}

// NewLedgerService wires the normalizer, aggregator and insight engine. An
// unset Horizon means DefaultForecastHorizon.
func NewLedgerService(reader ports.LedgerReader, cfg LedgerServiceConfig, logger *applog.Logger) *LedgerService {
	if logger == nil {
		logger = applog.Default()
	}
	horizon := cfg.Horizon
	if horizon <= 0 {
		horizon = DefaultForecastHorizon
	}
	return &LedgerService{
		reader:     reader,
		normalizer: NewNormalizer(cfg.Normalize, logger),
		aggregator: NewAggregator(cfg.Income, logger),
		insights:   NewInsightEngine(cfg.Income, cfg.Insights, logger),
		horizon:    horizon,
		logger:     logger.WithComponent(applog.ComponentBackend),
	}
}

// Aggregator exposes the configured aggregator.
func (s *LedgerService) Aggregator() *Aggregator {
	return s.aggregator
}

// Load reads and normalizes the ledger.
func (s *LedgerService) Load(ctx context.Context) (core.Ledger, error) {
	start := time.Now()
	source := ports.Describe(s.reader)
	table, err := s.reader.ReadTable(ctx)
	if err != nil {
		return core.Ledger{}, fmt.Errorf("read %s: %w", source, err)
	}
	ledger, err := s.normalizer.NormalizeTable(ctx, table)
	if err != nil {
		return core.Ledger{}, fmt.Errorf("normalize %s: %w", source, err)
	}
	s.logger.InfoContext(ctx, "Ledger loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldSource, source,
		applog.FieldRows, len(ledger.Rows),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return ledger, nil
}

// Summary loads the ledger and returns its summary record.
func (s *LedgerService) Summary(ctx context.Context) (core.Summary, error) {
	ledger, err := s.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return s.aggregator.Summarize(ctx, ledger)
}

// Report loads the ledger and derives summary, history, insights and forecast.
func (s *LedgerService) Report(ctx context.Context) (core.Report, error) {
	ledger, err := s.Load(ctx)
	if err != nil {
		return core.Report{}, err
	}
	return s.ReportFor(ctx, ports.Describe(s.reader), ledger)
}

// ReportFor derives a report from an already loaded ledger.
func (s *LedgerService) ReportFor(ctx context.Context, source string, ledger core.Ledger) (core.Report, error) {
	if ledger.IsEmpty() {
		return core.Report{}, fmt.Errorf("%s: %w", source, core.ErrEmptyDataset)
	}
	summary, err := s.aggregator.Summarize(ctx, ledger)
	if err != nil {
		return core.Report{}, err
	}
	periods, err := s.aggregator.PeriodTotals(ledger)
	if err != nil {
		return core.Report{}, err
	}
	avg, err := s.aggregator.AverageBalance(ledger)
	if err != nil {
		return core.Report{}, err
	}
	insights, err := s.insights.EvaluateLedger(ctx, ledger)
	if err != nil {
		return core.Report{}, err
	}
	forecast := Forecast(avg, s.horizon)
	s.logger.DebugContext(ctx, "Savings projected",
		applog.FieldOperation, applog.OpForecast,
		"horizon", s.horizon,
		"average_balance", core.Round2(avg))
	return core.Report{
		Source:         source,
		Ledger:         ledger,
		Summary:        summary,
		Periods:        periods,
		Insights:       insights,
		AverageBalance: avg,
		Forecast:       forecast,
	}, nil
}

// IsUserError reports whether err is a structural problem with the data
// (missing file, missing column, empty ledger) rather than an internal fault.
func IsUserError(err error) bool {
	return errors.Is(err, core.ErrDataSourceNotFound) ||
		errors.Is(err, core.ErrInvalidColumnSchema) ||
		errors.Is(err, core.ErrEmptyDataset) ||
		errors.Is(err, core.ErrDuplicatePeriod) ||
		errors.Is(err, core.ErrInvalidPeriod) ||
		errors.Is(err, core.ErrCellParse)
}
