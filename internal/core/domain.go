package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk and on-form representation of a record date.
const DateLayout = "2006-01-02"

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Entertainment Category = "Entertainment"
	Bills         Category = "Bills"
	Others        Category = "Others"
)

const (
	Cash  PaymentMethod = "Cash"
	Card  PaymentMethod = "Card"
	UPI   PaymentMethod = "UPI"
	Other PaymentMethod = "Other"
)

type (
	Category string

	PaymentMethod string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Record is one expense entry. Field order matches the store columns.
	Record struct {
		Date          Date
		Category      Category
		Amount        Money
		PaymentMethod PaymentMethod
	}

	// Table is the ordered collection of records, in entry order.
	Table []Record
)

// Categories lists the selectable categories; the first one is the form default.
var Categories = []Category{Food, Transport, Entertainment, Bills, Others}

// PaymentMethods lists the selectable payment methods; the first one is the form default.
var PaymentMethods = []PaymentMethod{Cash, Card, UPI, Other}

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// storedDateLayouts are the date forms accepted when reading the store back.
var storedDateLayouts = []string{
	DateLayout,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseStoredDate reads a date back from the store, accepting unpadded and
// slash-separated forms as well as a trailing time of day.
func ParseStoredDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range storedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// ParseCategory matches s against the known categories.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ParsePaymentMethod matches s against the known payment methods.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	for _, p := range PaymentMethods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}

// Validate checks a record about to be appended through the entry form.
func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseCategory(string(r.Category)); err != nil {
		return err
	}
	if _, err := ParsePaymentMethod(string(r.PaymentMethod)); err != nil {
		return err
	}
	return nil
}

// Append returns a new table with r at the end. The receiver is left untouched.
func (t Table) Append(r Record) Table {
	out := make(Table, len(t), len(t)+1)
	copy(out, t)
	return append(out, r)
}

// Len returns the number of records.
func (t Table) Len() int {
	return len(t)
}

// IsEmpty reports whether the table holds no records.
func (t Table) IsEmpty() bool {
	return len(t) == 0
}
