package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  RawValue
		out float64
	}{
		{"R$ 1.234,56", 1234.56},
		{"R$ 897,74", 897.74},
		{"R$1.234,5", 1234.5},
		{"  R$  12,00 ", 12},
		{"R$ 1.000.000,01", 1000000.01},
		{"3685", 3685},
		{"-R$ 10,50", -10.5},
		{"R$ -10,50", -10.5},
		{"R$ 250,00", 250},
		{"", 0},
		{"   ", 0},
		{nil, 0},
		{"abc", 0},
		{"R$", 0},
		{"1,2,3", 0},
		{"NaN", 0},
		{"Inf", 0},
		{12.5, 12.5},
		{42, 42},
		{int64(7), 7},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		assert.InDelta(t, tc.out, got, 1e-9, "input %#v", tc.in)
	}
}

func TestParseAmountIdempotentOnNumbers(t *testing.T) {
	for _, v := range []float64{0, 1234.56, 897.74, -215, 0.01} {
		once := ParseAmount(v)
		assert.Equal(t, v, once)
		assert.Equal(t, once, ParseAmount(once))
	}
}

func TestParseAmountStrict(t *testing.T) {
	_, err := ParseAmountStrict("abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCellParse))

	v, err := ParseAmountStrict("  ")
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = ParseAmountStrict("R$ 2.714,84")
	require.NoError(t, err)
	assert.InDelta(t, 2714.84, v, 1e-9)
}

func TestParseAmountRepeatedCells(t *testing.T) {
	cells := []RawValue{"R$ 10,00", 5.5, nil}
	v, err := ParseAmountStrict(cells)
	require.NoError(t, err)
	assert.InDelta(t, 15.5, v, 1e-9)

	_, err = ParseAmountStrict([]RawValue{"R$ 10,00", "abc"})
	assert.ErrorIs(t, err, ErrCellParse)
	assert.InDelta(t, 10.0, ParseAmount([]RawValue{"R$ 10,00", "abc"}), 1e-9)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank(" \t"))
	assert.False(t, IsBlank("0"))
	assert.False(t, IsBlank(0.0))
	assert.True(t, IsBlank([]RawValue{nil, " "}))
	assert.False(t, IsBlank([]RawValue{nil, "1"}))
}

func TestFormatBRL(t *testing.T) {
	cases := map[float64]string{
		1234.56:    "R$ 1.234,56",
		897.74:     "R$ 897,74",
		0:          "R$ 0,00",
		-215:       "-R$ 215,00",
		1000000.01: "R$ 1.000.000,01",
		1470.16:    "R$ 1.470,16",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatBRL(in))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "64,9%", FormatPercent(2714.84/4185.0))
	assert.Equal(t, "0,0%", FormatPercent(0))
}
