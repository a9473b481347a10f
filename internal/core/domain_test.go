package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-03-15" {
		t.Fatalf("unexpected date %s", d)
	}
	for _, bad := range []string{"", "15/03/2024", "2024-13-01", "2024-3-5x"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if c, err := ParseCategory("Transport"); err != nil || c != Transport {
		t.Fatalf("unexpected category %q err=%v", c, err)
	}
	if _, err := ParseCategory("food"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected case-sensitive match, got %v", err)
	}
	if p, err := ParsePaymentMethod("UPI"); err != nil || p != UPI {
		t.Fatalf("unexpected payment method %q err=%v", p, err)
	}
	if _, err := ParsePaymentMethod("Cheque"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
	if Categories[0] != Food || PaymentMethods[0] != Cash {
		t.Fatalf("form defaults changed: %s %s", Categories[0], PaymentMethods[0])
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{Date: NewDate(2024, 1, 5), Category: Food, Amount: Money{Cents: 0}, PaymentMethod: Cash}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok for zero amount, got %v", err)
	}

	bads := []struct {
		r   Record
		err error
	}{
		{Record{Date: Date{Time: time.Time{}}, Category: Food, PaymentMethod: Cash}, ErrInvalidDate},
		{Record{Date: NewDate(2024, 1, 5), Category: Food, Amount: Money{Cents: -1}, PaymentMethod: Cash}, ErrNegativeAmount},
		{Record{Date: NewDate(2024, 1, 5), Category: "Rent", PaymentMethod: Cash}, ErrInvalidCategory},
		{Record{Date: NewDate(2024, 1, 5), Category: Food, PaymentMethod: "Cheque"}, ErrInvalidPaymentMethod},
	}
	for i, tc := range bads {
		if err := tc.r.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestTableAppendDoesNotMutate(t *testing.T) {
	base := make(Table, 1, 4)
	base[0] = Record{Date: NewDate(2024, 1, 1), Category: Food, Amount: Money{Cents: 100}, PaymentMethod: Cash}

	a := base.Append(Record{Date: NewDate(2024, 1, 2), Category: Bills, PaymentMethod: Card})
	b := base.Append(Record{Date: NewDate(2024, 1, 3), Category: Others, PaymentMethod: UPI})

	if base.Len() != 1 {
		t.Fatalf("base table changed length: %d", base.Len())
	}
	if a[1].Category != Bills || b[1].Category != Others {
		t.Fatalf("appends share backing storage: a=%v b=%v", a[1], b[1])
	}
}

func TestParseStoredDate(t *testing.T) {
	for _, in := range []string{"2024-01-07", "2024-1-7", "2024/01/07", "2024/1/7", "2024-01-07 13:45:00", "2024-01-07T13:45:00Z"} {
		got, err := ParseStoredDate(in)
		if err != nil {
			t.Errorf("ParseStoredDate(%q) error = %v", in, err)
			continue
		}
		if got.String() != "2024-01-07" {
			t.Errorf("ParseStoredDate(%q) = %s, want 2024-01-07", in, got)
		}
	}

	if _, err := ParseStoredDate("07/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("day-first date error = %v, want ErrInvalidDate", err)
	}
}
