// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents; decimal arithmetic goes through
// shopspring/decimal so that parsing and averages never touch float64.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxCents bounds parsed amounts so cents stay well inside int64.
var maxCents = decimal.New(1, 15)

// ParseAmount converts a decimal string to Money with half-up rounding on cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero is a
// valid amount; negative values fail with ErrNegativeAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234
//	ParseAmount("12,345") -> 1235
//	ParseAmount("0")      -> 0
//	ParseAmount("-0.01")  -> ErrNegativeAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.GreaterThanOrEqual(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// ParseStoredAmount reads an amount back from the store. Unlike ParseAmount it
// keeps negative values and treats commas as thousands separators, since the
// file may have been edited by hand.
//
//	ParseStoredAmount("-5.00")    -> -500
//	ParseStoredAmount("1,234.50") -> 123450
func ParseStoredAmount(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThanOrEqual(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount as a plain two-decimal number, e.g. "12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// FormatCurrency renders an amount for display, e.g. "$12.50".
func FormatCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
