package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func TestParseExpenseForm(t *testing.T) {
	today := core.NewDate(2024, 3, 15)

	tests := []struct {
		name      string
		form      ExpenseForm
		want      core.Record
		wantField string
		wantErr   error
	}{
		{
			name: "all fields",
			form: ExpenseForm{Amount: "12.50", Category: "Transport", Date: "2024-02-01", PaymentMethod: "UPI"},
			want: core.Record{Date: core.NewDate(2024, 2, 1), Category: core.Transport, Amount: core.Money{Cents: 1250}, PaymentMethod: core.UPI},
		},
		{
			name: "defaults for empty optional fields",
			form: ExpenseForm{Amount: "0.00"},
			want: core.Record{Date: today, Category: core.Food, Amount: core.Money{}, PaymentMethod: core.Cash},
		},
		{
			name:      "negative amount",
			form:      ExpenseForm{Amount: "-0.01"},
			wantField: "amount",
			wantErr:   core.ErrNegativeAmount,
		},
		{
			name: "every field empty",
			form: ExpenseForm{},
			want: core.Record{Date: today, Category: core.Food, Amount: core.Money{}, PaymentMethod: core.Cash},
		},
		{
			name: "blank amount",
			form: ExpenseForm{Amount: "  ", Category: "Bills"},
			want: core.Record{Date: today, Category: core.Bills, Amount: core.Money{}, PaymentMethod: core.Cash},
		},
		{
			name:      "non-numeric amount",
			form:      ExpenseForm{Amount: "ten"},
			wantField: "amount",
			wantErr:   core.ErrInvalidAmount,
		},
		{
			name:      "unknown category",
			form:      ExpenseForm{Amount: "1", Category: "Travel"},
			wantField: "category",
			wantErr:   core.ErrInvalidCategory,
		},
		{
			name:      "bad date",
			form:      ExpenseForm{Amount: "1", Date: "15/03/2024"},
			wantField: "date",
			wantErr:   core.ErrInvalidDate,
		},
		{
			name:      "unknown payment method",
			form:      ExpenseForm{Amount: "1", PaymentMethod: "Cheque"},
			wantField: "payment_method",
			wantErr:   core.ErrInvalidPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpenseForm(tt.form, today)
			if tt.wantErr != nil {
				var fe *FormError
				if !errors.As(err, &fe) {
					t.Fatalf("error = %v, want *FormError", err)
				}
				if fe.Field != tt.wantField {
					t.Errorf("field = %q, want %q", fe.Field, tt.wantField)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got.Date.String() != tt.want.Date.String() || got.Category != tt.want.Category ||
				got.Amount != tt.want.Amount || got.PaymentMethod != tt.want.PaymentMethod {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadExpenseForm(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"form encoded", "amount=10&category=Food&date=2024-01-05&payment_method=Cash", "application/x-www-form-urlencoded"},
		{"json", `{"amount":10,"category":"Food","date":"2024-01-05","payment_method":"Cash"}`, "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			form, err := ReadExpenseForm(httptest.NewRecorder(), req)
			if err != nil {
				t.Fatalf("ReadExpenseForm() error = %v", err)
			}
			want := ExpenseForm{Amount: "10", Category: "Food", Date: "2024-01-05", PaymentMethod: "Cash"}
			if form != want {
				t.Errorf("got %+v, want %+v", form, want)
			}
		})
	}
}

func TestReadExpenseFormRejectsBrokenJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{"amount":`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := ReadExpenseForm(httptest.NewRecorder(), req); err == nil {
		t.Fatal("expected error")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Fo\x00od\x07 "); got != "Food" {
		t.Errorf("sanitizeInput() = %q", got)
	}
}

func TestIsHTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/expenses", nil)
	if isHTMX(req) {
		t.Error("plain request reported as htmx")
	}
	req.Header.Set("HX-Request", "true")
	if !isHTMX(req) {
		t.Error("htmx request not detected")
	}
}

func TestDidYouMean(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Fod", `, did you mean "Food"?`},
		{"transprt", `, did you mean "Transport"?`},
		{"bills", `, did you mean "Bills"?`},
		{"Groceries", ""},
	}
	for _, tt := range tests {
		if got := didYouMean(tt.input, core.Categories); got != tt.want {
			t.Errorf("didYouMean(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if got := didYouMean("upi", core.PaymentMethods); got != `, did you mean "UPI"?` {
		t.Errorf("payment suggestion = %q", got)
	}
}
