// Package export renders the expense table as downloadable files.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	FilenameCSV  = "expenses.csv"
	FilenameXLSX = "expenses.xlsx"

	expensesSheet   = "Expenses"
	categoriesSheet = "By Category"
)

// numFmtTwoDecimals is the built-in "0.00" number format.
const numFmtTwoDecimals = 2

// CSV returns the table in the same format the CSV store writes.
func CSV(t core.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := storage.EncodeCSV(&buf, t); err != nil {
		return nil, fmt.Errorf("encode csv export: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX writes a workbook with the full table on one sheet and the
// per-category totals on another.
func WriteXLSX(w io.Writer, t core.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	header := make([]interface{}, len(storage.Header))
	for i, h := range storage.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(expensesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range t {
		row := i + 2
		amount, _ := r.Amount.Decimal().Float64()
		values := []interface{}{r.Date.String(), string(r.Category), amount, string(r.PaymentMethod)}
		if err := f.SetSheetRow(expensesSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	if len(t) > 0 {
		if err := f.SetCellStyle(expensesSheet, "C2", fmt.Sprintf("C%d", len(t)+1), amountStyle); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}

	_ = f.SetColWidth(expensesSheet, "A", "A", 12)
	_ = f.SetColWidth(expensesSheet, "B", "B", 16)
	_ = f.SetColWidth(expensesSheet, "C", "C", 12)
	_ = f.SetColWidth(expensesSheet, "D", "D", 16)

	if err := writeCategorySheet(f, core.CategoryTotals(t), amountStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeCategorySheet(f *excelize.File, totals []core.CategoryAmount, amountStyle int) error {
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return fmt.Errorf("create category sheet: %w", err)
	}

	header := []interface{}{"Category", "Amount"}
	if err := f.SetSheetRow(categoriesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write category header: %w", err)
	}
	for i, c := range totals {
		amount, _ := c.Amount.Decimal().Float64()
		values := []interface{}{string(c.Name), amount}
		if err := f.SetSheetRow(categoriesSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return fmt.Errorf("write category row: %w", err)
		}
	}
	if len(totals) > 0 {
		if err := f.SetCellStyle(categoriesSheet, "B2", fmt.Sprintf("B%d", len(totals)+1), amountStyle); err != nil {
			return fmt.Errorf("style category amounts: %w", err)
		}
	}
	_ = f.SetColWidth(categoriesSheet, "A", "A", 16)
	return nil
}
