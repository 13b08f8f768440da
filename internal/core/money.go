// Package core provides the ledger data model and money parsing utilities.
//
// This file contains the currency text parser used for every monetary cell
// and the formatter used when amounts are shown back to the user.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CurrencySymbol is stripped from cells and prefixed when formatting.
const CurrencySymbol = "R$"

// ParseAmount converts a raw cell into a number.
//
// Absent, blank and unparseable cells become 0; a bad cell never fails the
// pipeline. Numeric inputs are returned unchanged. Text follows the Brazilian
// convention: "." groups thousands and "," marks decimals.
//
// Examples:
//
//	ParseAmount("R$ 1.234,56") -> 1234.56
//	ParseAmount("R$ 897,74")   -> 897.74
//	ParseAmount("")            -> 0
//	ParseAmount(12.5)          -> 12.5
func ParseAmount(v RawValue) float64 {
	if list, ok := v.([]RawValue); ok {
		var sum float64
		for _, item := range list {
			sum += ParseAmount(item)
		}
		return sum
	}
	f, err := ParseAmountStrict(v)
	if err != nil {
		return 0
	}
	return f
}

// ParseAmountStrict behaves like ParseAmount but reports ErrCellParse for text
// that is not a number. Blank cells are still 0 without error. A list of cells
// (repeated entries of one period and category) is summed and fails if any
// element fails.
func ParseAmountStrict(v RawValue) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case []RawValue:
		var sum float64
		for _, item := range n {
			f, err := ParseAmountStrict(item)
			if err != nil {
				return 0, err
			}
			sum += f
		}
		return finite(sum, v)
	case float64:
		return finite(n, v)
	case float32:
		return finite(float64(n), v)
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case string:
		return parseAmountText(n)
	case fmt.Stringer:
		return parseAmountText(n.String())
	default:
		return parseAmountText(fmt.Sprint(n))
	}
}

func parseAmountText(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, CurrencySymbol, "")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '.':
			return -1
		}
		return r
	}, s)
	if s == "" || s == "-" {
		return 0, fmt.Errorf("%w: %q", ErrCellParse, s)
	}
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrCellParse, s)
	}
	return finite(f, s)
}

func finite(f float64, raw any) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrCellParse, raw)
	}
	return f, nil
}

// IsBlank reports whether a cell carries no value at all.
func IsBlank(v RawValue) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	case []RawValue:
		for _, item := range s {
			if !IsBlank(item) {
				return false
			}
		}
		return true
	}
	return false
}

// FormatBRL renders an amount as "R$ 1.234,56".
func FormatBRL(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	intPart := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s%s %s,%02d", sign, CurrencySymbol, b.String(), cents%100)
}

// FormatPercent renders a ratio as "64,9%".
func FormatPercent(ratio float64) string {
	return strings.Replace(strconv.FormatFloat(ratio*100, 'f', 1, 64), ".", ",", 1) + "%"
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
