// Package http provides HTTP server and handler implementations.
//
// This file turns submitted form or JSON bodies into validated expense records.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"expensetracker/internal/core"
)

// maxBodyBytes caps a submitted expense body.
const maxBodyBytes = 64 << 10

// ExpenseForm holds the raw submitted values so the form can be re-rendered.
type ExpenseForm struct {
	Amount        string
	Category      string
	Date          string
	PaymentMethod string
}

// FormError is a user-facing validation failure on one field.
type FormError struct {
	Field   string
	Message string
	Err     error
}

func (e *FormError) Error() string { return e.Field + ": " + e.Message }

func (e *FormError) Unwrap() error { return e.Err }

// ParseExpenseForm validates the submitted values. Every field has a default
// when left empty: a zero amount, today, and the first category and payment
// method.
func ParseExpenseForm(form ExpenseForm, today core.Date) (core.Record, error) {
	var (
		amount core.Money
		err    error
	)
	if strings.TrimSpace(form.Amount) != "" {
		if amount, err = core.ParseAmount(form.Amount); err != nil {
			msg := "Amount must be a number"
			if errors.Is(err, core.ErrNegativeAmount) {
				msg = "Amount must be zero or greater"
			}
			return core.Record{}, &FormError{Field: "amount", Message: msg, Err: err}
		}
	}

	category := core.Categories[0]
	if form.Category != "" {
		if category, err = core.ParseCategory(form.Category); err != nil {
			msg := "Unknown category " + strconv.Quote(form.Category) + didYouMean(form.Category, core.Categories)
			return core.Record{}, &FormError{Field: "category", Message: msg, Err: err}
		}
	}

	date := today
	if form.Date != "" {
		if date, err = core.ParseDate(form.Date); err != nil {
			return core.Record{}, &FormError{Field: "date", Message: "Date must be in YYYY-MM-DD format", Err: err}
		}
	}

	payment := core.PaymentMethods[0]
	if form.PaymentMethod != "" {
		if payment, err = core.ParsePaymentMethod(form.PaymentMethod); err != nil {
			msg := "Unknown payment method " + strconv.Quote(form.PaymentMethod) + didYouMean(form.PaymentMethod, core.PaymentMethods)
			return core.Record{}, &FormError{Field: "payment_method", Message: msg, Err: err}
		}
	}

	return core.Record{
		Date:          date,
		Category:      category,
		Amount:        amount,
		PaymentMethod: payment,
	}, nil
}

// maxSuggestDistance bounds how far a typo may be from a known option.
const maxSuggestDistance = 2

// didYouMean returns a hint naming the closest option to input, or "" when
// nothing is close enough.
func didYouMean[T ~string](input string, options []T) string {
	needle := strings.ToLower(strings.TrimSpace(input))
	best, bestDist := "", maxSuggestDistance+1
	for _, o := range options {
		if d := levenshtein.ComputeDistance(needle, strings.ToLower(string(o))); d < bestDist {
			best, bestDist = string(o), d
		}
	}
	if best == "" {
		return ""
	}
	return ", did you mean " + strconv.Quote(best) + "?"
}

// ReadExpenseForm extracts the expense fields from a form-encoded or JSON body.
func ReadExpenseForm(w http.ResponseWriter, r *http.Request) (ExpenseForm, error) {
	p := NewRequestBodyParser(http.MaxBytesReader(w, r.Body, maxBodyBytes), r.Header.Get("Content-Type"))
	if err := p.Parse(); err != nil {
		return ExpenseForm{}, err
	}
	return ExpenseForm{
		Amount:        p.Get("amount"),
		Category:      p.Get("category"),
		Date:          p.Get("date"),
		PaymentMethod: p.Get("payment_method"),
	}, nil
}

// RequestBodyParser handles both JSON and form-encoded bodies.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and keeps it for parsing.
func NewRequestBodyParser(body io.Reader, contentType string) *RequestBodyParser {
	p := &RequestBodyParser{contentType: contentType}
	if body != nil {
		p.body, p.err = io.ReadAll(body)
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
