package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
	ports "financas/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Options configures a Sheets ledger reader.
type Options struct {
	SpreadsheetID string
	// SheetName is the tab to read. With PrefixYear the current year is
	// prepended ("2025 Gastos") unless the name already starts with a year.
	SheetName  string
	PrefixYear bool
	// Range is an A1 range inside the tab, e.g. "A1:Z200". Empty reads the
	// whole tab.
	Range  string
	Layout Layout
	// PeriodColumn names the period column of the produced table.
	PeriodColumn string
	// Unformatted asks the API for raw numbers instead of display strings.
	Unformatted bool

	CredentialsJSON string
	CredentialsFile string
}

// Client reads a ledger from a Google spreadsheet.
type Client struct {
	svc    *gsheet.Service
	opts   Options
	rng    string
	logger *applog.Logger
}

var (
	_ ports.LedgerReader = (*Client)(nil)
	_ ports.Describer    = (*Client)(nil)
)

// New creates a Sheets client using Service Account credentials from opts,
// falling back to GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, opts Options, logger *applog.Logger) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if logger == nil {
		logger = applog.Default()
	}
	logger = logger.WithComponent(applog.ComponentSheets)

	svc, err := newSheetsService(ctx, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, opts, logger), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, opts Options, logger *applog.Logger) *Client {
	if logger == nil {
		logger = applog.Default()
	}
	sheet := strings.TrimSpace(opts.SheetName)
	if opts.PrefixYear {
		sheet = yearPrefixedName(sheet, time.Now().Year())
	}
	return &Client{
		svc:    svc,
		opts:   opts,
		rng:    qualifiedRange(sheet, opts.Range),
		logger: logger.WithComponent(applog.ComponentSheets),
	}
}

// newSheetsService initializes a read-only Sheets Service.
func newSheetsService(ctx context.Context, opts Options, logger *applog.Logger) (*gsheet.Service, error) {
	credentialsJSON := strings.TrimSpace(opts.CredentialsJSON)
	credentialsFile := strings.TrimSpace(opts.CredentialsFile)
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var raw []byte
	switch {
	case credentialsJSON != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		raw = []byte(credentialsJSON)
	case credentialsFile != "":
		logger.InfoContext(ctx, "Reading credentials from file", applog.FieldPath, credentialsFile)
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		raw = b
	default:
		return nil, errors.New("missing service account credentials (set sheets.credentials_json, sheets.credentials_file or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(raw),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
}

// Describe implements sheets.Describer.
func (c *Client) Describe() string {
	return fmt.Sprintf("sheets:%s/%s", c.opts.SpreadsheetID, c.rng)
}

// ReadTable fetches the configured range and converts it to a wide table.
func (c *Client) ReadTable(ctx context.Context) (core.Table, error) {
	if c.svc == nil {
		return core.Table{}, errors.New("sheets service not initialized")
	}
	call := c.svc.Spreadsheets.Values.Get(c.opts.SpreadsheetID, c.rng).Context(ctx)
	if c.opts.Unformatted {
		call = call.ValueRenderOption("UNFORMATTED_VALUE")
	}
	resp, err := call.Do()
	if err != nil {
		return core.Table{}, fmt.Errorf("read %s: %w", c.rng, err)
	}
	c.logger.InfoContext(ctx, "Sheet range read",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldSheetsRef, c.rng,
		applog.FieldRows, len(resp.Values))
	return parseValues(resp.Values, c.opts.Layout, c.opts.PeriodColumn)
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

// qualifiedRange builds an A1 reference. A range that already names a tab
// is used as is.
func qualifiedRange(sheet, rng string) string {
	rng = strings.TrimSpace(rng)
	if strings.Contains(rng, "!") {
		return rng
	}
	if rng == "" {
		return sheet
	}
	if strings.ContainsAny(sheet, " '") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + rng
}
