package core

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   Category
	Amount Money
}

// PeriodAmount represents an amount aggregated by a YYYY-MM period.
type PeriodAmount struct {
	Period string
	Amount Money
}

// Summary holds the dashboard figures. Every field is zero for an empty table.
type Summary struct {
	ThisMonth      Money
	Total          Money
	Average        decimal.Decimal
	PaymentMethods int
	Count          int
}

// CurrentMonthKey returns the YYYY-MM prefix for now.
func CurrentMonthKey(now time.Time) string {
	return now.Format("2006-01")
}

// FilterMonth keeps the records whose date string starts with key.
// The match is a literal prefix on the formatted date, not a calendar lookup.
func FilterMonth(t Table, key string) Table {
	out := Table{}
	for _, r := range t {
		if strings.HasPrefix(r.Date.String(), key) {
			out = append(out, r)
		}
	}
	return out
}

// Total sums all amounts in t.
func Total(t Table) Money {
	var sum Money
	for _, r := range t {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// MonthlyTrend sums amounts per YYYY-MM period, ascending by period.
func MonthlyTrend(t Table) []PeriodAmount {
	sums := make(map[string]Money)
	for _, r := range t {
		key := r.Date.Format("2006-01")
		sums[key] = sums[key].Add(r.Amount)
	}
	out := make([]PeriodAmount, 0, len(sums))
	for k, v := range sums {
		out = append(out, PeriodAmount{Period: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// CategoryTotals sums amounts per category present in t, ordered by name.
func CategoryTotals(t Table) []CategoryAmount {
	sums := make(map[Category]Money)
	for _, r := range t {
		sums[r.Category] = sums[r.Category].Add(r.Amount)
	}
	out := make([]CategoryAmount, 0, len(sums))
	for k, v := range sums {
		out = append(out, CategoryAmount{Name: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DistinctPaymentMethods counts the payment methods appearing in t.
func DistinctPaymentMethods(t Table) int {
	seen := make(map[PaymentMethod]struct{})
	for _, r := range t {
		seen[r.PaymentMethod] = struct{}{}
	}
	return len(seen)
}

// Average returns the arithmetic mean of the amounts, zero when t is empty.
func Average(t Table) decimal.Decimal {
	if len(t) == 0 {
		return decimal.Zero
	}
	return Total(t).Decimal().Div(decimal.NewFromInt(int64(len(t))))
}

// Summarize computes the dashboard figures for t as seen at now.
func Summarize(t Table, now time.Time) Summary {
	return Summary{
		ThisMonth:      Total(FilterMonth(t, CurrentMonthKey(now))),
		Total:          Total(t),
		Average:        Average(t),
		PaymentMethods: DistinctPaymentMethods(t),
		Count:          len(t),
	}
}
