package http

import (
	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

// Page names double as the active navigation entry.
const (
	pageDashboard = "dashboard"
	pageAdd       = "add"
	pageReports   = "reports"
)

type navItem struct {
	Page  string
	Href  string
	Label string
}

var navigation = []navItem{
	{Page: pageDashboard, Href: "/", Label: "Dashboard"},
	{Page: pageAdd, Href: "/add", Label: "Add Expense"},
	{Page: pageReports, Href: "/reports", Label: "Reports"},
}

type quickStats struct {
	ThisMonth string
	Total     string
}

type metric struct {
	Label string
	Value string
	Delta string
}

type dashboardData struct {
	Metrics []metric
	Empty   bool
}

type reportRow struct {
	Date          string
	Category      string
	Amount        string
	PaymentMethod string
}

type reportData struct {
	Rows       []reportRow
	Categories []reportRow
	Empty      bool
}

type formData struct {
	Values         ExpenseForm
	Categories     []core.Category
	PaymentMethods []core.PaymentMethod
	Error          string
	Success        string
}

type pageData struct {
	Title      string
	Page       string
	Navigation []navItem
	Stats      quickStats
	Dashboard  *dashboardData
	Report     *reportData
	Form       *formData
}

func newPage(page, title string, summary core.Summary) pageData {
	return pageData{
		Title:      title,
		Page:       page,
		Navigation: navigation,
		Stats: quickStats{
			ThisMonth: formatMoney(summary.ThisMonth),
			Total:     formatMoney(summary.Total),
		},
	}
}

func dashboardPage(view services.DashboardView) pageData {
	s := view.Summary
	p := newPage(pageDashboard, "Dashboard", s)
	p.Dashboard = &dashboardData{
		Metrics: []metric{
			{Label: "This Month", Value: formatMoney(s.ThisMonth)},
			{Label: "Total Expenses", Value: formatMoney(s.Total), Delta: plural(s.Count, "transaction")},
			{Label: "Average Expense", Value: formatAverage(s.Average)},
			{Label: "Payment Methods", Value: itoa(s.PaymentMethods)},
		},
		Empty: view.Empty,
	}
	return p
}

func reportsPage(view services.ReportView) pageData {
	p := newPage(pageReports, "Reports", view.Summary)
	data := &reportData{Empty: view.Empty}
	for _, r := range view.Table {
		data.Rows = append(data.Rows, reportRow{
			Date:          r.Date.String(),
			Category:      string(r.Category),
			Amount:        r.Amount.String(),
			PaymentMethod: string(r.PaymentMethod),
		})
	}
	for _, c := range view.Categories {
		data.Categories = append(data.Categories, reportRow{
			Category: string(c.Name),
			Amount:   formatMoney(c.Amount),
		})
	}
	p.Report = data
	return p
}

func addPage(summary core.Summary, values ExpenseForm) pageData {
	p := newPage(pageAdd, "Add Expense", summary)
	p.Form = &formData{
		Values:         values,
		Categories:     core.Categories,
		PaymentMethods: core.PaymentMethods,
	}
	return p
}

// defaultForm is the empty form: first category and payment method, today's date.
func defaultForm(today core.Date) ExpenseForm {
	return ExpenseForm{
		Amount:        core.Money{}.String(),
		Category:      string(core.Categories[0]),
		Date:          today.String(),
		PaymentMethod: string(core.PaymentMethods[0]),
	}
}
