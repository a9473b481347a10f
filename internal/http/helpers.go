package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// formatMoney renders an amount for display, e.g. "$12.50".
func formatMoney(m core.Money) string {
	return core.FormatCurrency(m.Decimal())
}

// formatAverage rounds the exact mean to cents for display.
func formatAverage(d decimal.Decimal) string {
	return core.FormatCurrency(d.Round(2))
}

// plural renders "1 transaction" or "3 transactions".
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
