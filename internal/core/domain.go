package core

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultPeriodColumn is the identifier column used by the spreadsheets this
// tool was written for.
const DefaultPeriodColumn = "Data"

// TotalColumn is the aggregate column some exports carry. It is never trusted.
const TotalColumn = "Total"

type (
	// Period identifies one reporting interval. Label keeps the text as read.
	Period struct {
		time.Time
		Label string
		dated bool
	}

	// RawValue is a cell as delivered by a loader: nil, a number or text.
	RawValue = any

	// LedgerRow is one period as read from a source, before normalization.
	LedgerRow struct {
		Period  Period
		Amounts map[string]RawValue
	}

	// NormalizedRow is a LedgerRow whose amounts are all finite numbers.
	NormalizedRow struct {
		Period  Period
		Amounts map[string]float64
	}

	// Table is a header + records view of a source, as produced by the CSV
	// and spreadsheet loaders before the period column is interpreted.
	Table struct {
		Header  []string
		Records [][]RawValue
	}

	// Ledger is the normalized dataset: rows ordered by period ascending and
	// the monetary columns that were considered when normalizing.
	Ledger struct {
		Rows       []NormalizedRow
		Categories []string
	}
)

var (
	ErrDataSourceNotFound  = errors.New("data source not found")
	ErrCellParse           = errors.New("cell parse failure")
	ErrEmptyDataset        = errors.New("empty dataset")
	ErrInvalidColumnSchema = errors.New("invalid column schema")
	ErrDuplicatePeriod     = errors.New("duplicate period")
	ErrInvalidPeriod       = errors.New("invalid period")
)

// ColumnError names the required column that a source did not provide.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: missing column %q", ErrInvalidColumnSchema, e.Column)
}

func (e *ColumnError) Unwrap() error {
	return ErrInvalidColumnSchema
}

var periodLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"2006-01",
	"01/2006",
	"1/2006",
	"2006/01",
}

var monthNames = map[string]time.Month{
	"jan": time.January, "janeiro": time.January,
	"fev": time.February, "fevereiro": time.February, "feb": time.February,
	"mar": time.March, "marco": time.March, "março": time.March,
	"abr": time.April, "abril": time.April, "apr": time.April,
	"mai": time.May, "maio": time.May, "may": time.May,
	"jun": time.June, "junho": time.June,
	"jul": time.July, "julho": time.July,
	"ago": time.August, "agosto": time.August, "aug": time.August,
	"set": time.September, "setembro": time.September, "sep": time.September,
	"out": time.October, "outubro": time.October, "oct": time.October,
	"nov": time.November, "novembro": time.November,
	"dez": time.December, "dezembro": time.December, "dec": time.December,
}

// ParsePeriod turns a period label into a Period. Accepted forms are ISO
// dates, dd/mm/yyyy, yyyy-mm, mm/yyyy and month names with an optional year
// ("Jan/2025", "janeiro 2025"). Labels without a date are kept as text and
// sort after dated periods.
func ParsePeriod(label string) (Period, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Period{}, ErrInvalidPeriod
	}
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return Period{Time: t, Label: label, dated: true}, nil
		}
	}
	if t, ok := parseMonthName(label); ok {
		return Period{Time: t, Label: label, dated: true}, nil
	}
	return Period{Label: label}, nil
}

// NewPeriod creates a dated period for year and month.
func NewPeriod(year int, month time.Month) Period {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Time: t, Label: t.Format("2006-01"), dated: true}
}

// IsDated reports whether the label was understood as a date. A month name
// without a year is dated in year 1, so "Jan" sorts before "Fev".
func (p Period) IsDated() bool {
	return p.dated
}

func parseMonthName(label string) (time.Time, bool) {
	fields := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return r == '/' || r == '-' || r == ' ' || r == '.'
	})
	if len(fields) == 0 || len(fields) > 2 {
		return time.Time{}, false
	}
	month, ok := monthNames[fields[0]]
	if !ok {
		return time.Time{}, false
	}
	year := 1
	if len(fields) == 2 {
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return time.Time{}, false
		}
		if y < 100 {
			y += 2000
		}
		year = y
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

// Before reports whether p sorts before q: dated periods chronologically,
// then undated periods by label.
func (p Period) Before(q Period) bool {
	switch {
	case !p.dated && !q.dated:
		return p.Label < q.Label
	case !p.dated:
		return false
	case !q.dated:
		return true
	case p.Time.Equal(q.Time):
		return p.Label < q.Label
	default:
		return p.Time.Before(q.Time)
	}
}

// Key identifies the period for uniqueness checks.
func (p Period) Key() string {
	if !p.dated {
		return "label:" + p.Label
	}
	return p.Time.Format(time.DateOnly)
}

func (p Period) String() string {
	if p.Label != "" {
		return p.Label
	}
	if !p.dated {
		return ""
	}
	return p.Time.Format("2006-01")
}

// SortRows orders rows by period ascending.
func SortRows(rows []NormalizedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Period.Before(rows[j].Period)
	})
}

// Total sums every amount of the row in category name order, so repeated
// calls give bit-identical results.
func (r NormalizedRow) Total() float64 {
	names := make([]string, 0, len(r.Amounts))
	for name := range r.Amounts {
		names = append(names, name)
	}
	sort.Strings(names)
	var total float64
	for _, name := range names {
		total += r.Amounts[name]
	}
	return total
}

// Latest returns the row with the greatest period.
func (l Ledger) Latest() (NormalizedRow, error) {
	return LatestRow(l.Rows)
}

// LatestRow picks the row with the maximum period regardless of slice order.
func LatestRow(rows []NormalizedRow) (NormalizedRow, error) {
	if len(rows) == 0 {
		return NormalizedRow{}, ErrEmptyDataset
	}
	latest := rows[0]
	for _, r := range rows[1:] {
		if latest.Period.Before(r.Period) {
			latest = r
		}
	}
	return latest, nil
}

// Previous returns the row immediately before the latest one, if any.
func (l Ledger) Previous() (NormalizedRow, bool) {
	if len(l.Rows) < 2 {
		return NormalizedRow{}, false
	}
	rows := append([]NormalizedRow(nil), l.Rows...)
	SortRows(rows)
	return rows[len(rows)-2], true
}

// IsEmpty reports whether the ledger has no rows.
func (l Ledger) IsEmpty() bool {
	return len(l.Rows) == 0
}
