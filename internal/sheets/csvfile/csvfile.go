// Package csvfile reads ledgers from flat CSV exports.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"financas/internal/core"
	ports "financas/internal/sheets"
)

// Layout tells how the file is organized.
type Layout string

const (
	// Wide has one row per period and one column per category.
	Wide Layout = "wide"
	// Long has one row per (period, category) pair.
	Long Layout = "long"
)

var (
	_ ports.LedgerReader = (*Reader)(nil)
	_ ports.Describer    = (*Reader)(nil)
)

// Options configures a Reader.
type Options struct {
	Path      string
	Separator rune
	// Encoding is "utf-8" (default), "latin1" / "iso-8859-1" or "windows-1252".
	Encoding string
	Layout   Layout

	// Long layout column names.
	PeriodColumn   string
	CategoryColumn string
	ValueColumn    string
}

// Reader loads a CSV ledger file.
type Reader struct {
	opts Options
	dec  *encoding.Decoder
}

// New validates options and returns a Reader.
func New(opts Options) (*Reader, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("csv path is required")
	}
	if opts.Separator == 0 {
		opts.Separator = ','
	}
	if opts.Layout == "" {
		opts.Layout = Wide
	}
	if opts.Layout != Wide && opts.Layout != Long {
		return nil, fmt.Errorf("invalid csv layout %q: must be %q or %q", opts.Layout, Wide, Long)
	}
	if opts.PeriodColumn == "" {
		opts.PeriodColumn = core.DefaultPeriodColumn
	}
	if opts.CategoryColumn == "" {
		opts.CategoryColumn = ports.DefaultCategoryColumn
	}
	if opts.ValueColumn == "" {
		opts.ValueColumn = ports.DefaultValueColumn
	}
	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &Reader{opts: opts, dec: dec}, nil
}

// Describe implements sheets.Describer.
func (r *Reader) Describe() string {
	return "csv:" + r.opts.Path
}

// ReadTable opens the file and parses it. A missing file is reported as
// core.ErrDataSourceNotFound.
func (r *Reader) ReadTable(ctx context.Context) (core.Table, error) {
	if err := ctx.Err(); err != nil {
		return core.Table{}, err
	}
	f, err := os.Open(r.opts.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.Table{}, fmt.Errorf("%w: %s", core.ErrDataSourceNotFound, r.opts.Path)
		}
		return core.Table{}, fmt.Errorf("open %s: %w", r.opts.Path, err)
	}
	defer f.Close()
	return r.Parse(f)
}

// Parse reads a CSV stream with the reader's options.
func (r *Reader) Parse(in io.Reader) (core.Table, error) {
	cr := csv.NewReader(transform.NewReader(in, r.dec))
	cr.Comma = r.opts.Separator
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return core.Table{}, fmt.Errorf("parse csv %s: %w", r.opts.Path, err)
	}
	if len(records) == 0 {
		return core.Table{}, fmt.Errorf("%w: %s has no header", core.ErrInvalidColumnSchema, r.opts.Path)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	t := core.Table{Header: header}
	for _, rec := range records[1:] {
		row := make([]core.RawValue, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		t.Records = append(t.Records, row)
	}

	if r.opts.Layout == Long {
		return ports.Pivot(t, r.opts.PeriodColumn, r.opts.CategoryColumn, r.opts.ValueColumn)
	}
	return t, nil
}

func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported csv encoding %q", name)
	}
}

// ParseSeparator accepts a single character or the names "comma",
// "semicolon" and "tab".
func ParseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "comma", ",":
		return ',', nil
	case "semicolon", ";":
		return ';', nil
	case "tab", "\\t", "\t":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid csv separator %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
