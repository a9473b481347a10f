package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := core.Table{
		{Date: core.NewDate(2024, 1, 5), Category: core.Food, Amount: core.Money{Cents: 1000}, PaymentMethod: core.Cash},
		{Date: core.NewDate(2024, 1, 20), Category: core.Food, Amount: core.Money{Cents: 5}, PaymentMethod: core.Card},
		{Date: core.NewDate(2023, 12, 31), Category: "Gifts, misc", Amount: core.Money{Cents: 0}, PaymentMethod: core.Other},
	}

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Date,Category,Amount,Payment Method\n2024-01-05,Food,10.00,Cash\n") {
		t.Fatalf("unexpected encoding:\n%s", buf.String())
	}

	out, skipped, err := DecodeCSV(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("round trip skipped rows: %+v", skipped)
	}
	if len(out) != len(in) {
		t.Fatalf("decoded %d rows, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Date.String() != in[i].Date.String() || out[i].Category != in[i].Category ||
			out[i].Amount != in[i].Amount || out[i].PaymentMethod != in[i].PaymentMethod {
			t.Fatalf("row %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestDecodeCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmptyFile},
		{"wrong names", "date,category,amount,method\n", ErrSchemaMismatch},
		{"wrong order", "Category,Date,Amount,Payment Method\n", ErrSchemaMismatch},
		{"missing column", "Date,Category,Amount\n", ErrSchemaMismatch},
		{"extra column", "Date,Category,Amount,Payment Method,Note\n", ErrSchemaMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeCSV(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeCSV() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeCSVCoercesDataRows(t *testing.T) {
	input := "Date,Category,Amount,Payment Method\n" +
		"2024-01-05,Food,10.00,Cash\n" +
		"2024-01-06,Food,-5.00,Cash\n" +
		"2024-1-7,Food,3.00,Cash\n" +
		"2024-01-08,Bills,\"1,234.50\",Card\n" +
		"2024-01-09,Food\n" +
		"2024-01-10,Groceries,2.00,Cheque\n"

	tbl, skipped, err := DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped rows: %+v", skipped)
	}

	want := []struct {
		date  string
		cents int64
	}{
		{"2024-01-05", 1000},
		{"2024-01-06", -500},
		{"2024-01-07", 300},
		{"2024-01-08", 123450},
		{"2024-01-09", 0},
		{"2024-01-10", 200},
	}
	if len(tbl) != len(want) {
		t.Fatalf("decoded %d rows, want %d", len(tbl), len(want))
	}
	for i, w := range want {
		if tbl[i].Date.String() != w.date || tbl[i].Amount.Cents != w.cents {
			t.Errorf("row %d = %s %d, want %s %d", i, tbl[i].Date, tbl[i].Amount.Cents, w.date, w.cents)
		}
	}
	if tbl[4].PaymentMethod != "" || tbl[5].Category != "Groceries" || tbl[5].PaymentMethod != "Cheque" {
		t.Errorf("verbatim fields not kept: %+v %+v", tbl[4], tbl[5])
	}
}

func TestDecodeCSVSkipsUnreadableRows(t *testing.T) {
	input := "Date,Category,Amount,Payment Method\n" +
		"2024-01-05,Food,10.00,Cash\n" +
		"01/05/2024,Food,1,Cash\n" +
		"2024-01-06,Food,ten,Cash\n" +
		"2024-01-07,Food,1,Cash,extra\n" +
		"2024-01-08,Transport,20.00,UPI\n"

	tbl, skipped, err := DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tbl) != 2 || tbl[0].Amount.Cents != 1000 || tbl[1].Category != core.Transport {
		t.Fatalf("valid rows not kept: %+v", tbl)
	}
	if len(skipped) != 3 {
		t.Fatalf("skipped %d rows, want 3: %+v", len(skipped), skipped)
	}
	wantLines := []int{3, 4, 5}
	for i, row := range skipped {
		if row.Line != wantLines[i] {
			t.Errorf("skipped[%d].Line = %d, want %d", i, row.Line, wantLines[i])
		}
		if !errors.Is(row.Err, ErrMalformedRow) {
			t.Errorf("skipped[%d].Err = %v, want ErrMalformedRow", i, row.Err)
		}
	}
}

func TestDecodeCSVHeaderOnlyAndBOM(t *testing.T) {
	tbl, _, err := DecodeCSV(strings.NewReader("\ufeffDate,Category,Amount,Payment Method\n"))
	if err != nil {
		t.Fatalf("expected header-only file with BOM to parse, got %v", err)
	}
	if tbl == nil || len(tbl) != 0 {
		t.Fatalf("expected empty non-nil table, got %#v", tbl)
	}
}
