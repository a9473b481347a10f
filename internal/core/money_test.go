package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		err error
	}{
		{"1", 100, nil},
		{"1.0", 100, nil},
		{"1.23", 123, nil},
		{"1,23", 123, nil},
		{"0.01", 1, nil},
		{"1.005", 101, nil}, // half-up rounding
		{" 2.50 ", 250, nil},
		{"0", 0, nil},
		{"0.00", 0, nil},
		{"-0.01", 0, ErrNegativeAmount},
		{"-1", 0, ErrNegativeAmount},
		{"abc", 0, ErrInvalidAmount},
		{"1.2.3", 0, ErrInvalidAmount},
		{"", 0, ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%q expected %v, got %v", tc.in, tc.err, err)
			}
			continue
		}
		if err != nil || got.Cents != tc.out {
			t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{0: "0.00", 5: "0.05", 1250: "12.50", 123456: "1234.56"}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Errorf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(decimal.RequireFromString("11.6666")); got != "$11.67" {
		t.Errorf("FormatCurrency = %q, want $11.67", got)
	}
	if got := FormatCurrency(decimal.Zero); got != "$0.00" {
		t.Errorf("FormatCurrency(0) = %q, want $0.00", got)
	}
}

func TestParseStoredAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		err error
	}{
		{"12.50", 1250, nil},
		{"-5.00", -500, nil},
		{"1,234.50", 123450, nil},
		{" 7 ", 700, nil},
		{"0.005", 1, nil},
		{"", 0, ErrInvalidAmount},
		{"lots", 0, ErrInvalidAmount},
	}
	for _, c := range cases {
		got, err := ParseStoredAmount(c.in)
		if !errors.Is(err, c.err) {
			t.Errorf("ParseStoredAmount(%q) error = %v, want %v", c.in, err, c.err)
			continue
		}
		if err == nil && got.Cents != c.out {
			t.Errorf("ParseStoredAmount(%q) = %d, want %d", c.in, got.Cents, c.out)
		}
	}

	if got := (Money{Cents: -500}).String(); got != "-5.00" {
		t.Errorf("negative amount renders as %q", got)
	}
}
