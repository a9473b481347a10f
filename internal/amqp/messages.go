package amqp

import (
	"encoding/json"
	"time"

	"expensetracker/internal/core"
)

// ExpenseAddedMessage announces a record appended through the entry form.
type ExpenseAddedMessage struct {
	Date          string    `json:"date"`
	Category      string    `json:"category"`
	AmountCents   int64     `json:"amount_cents"`
	PaymentMethod string    `json:"payment_method"`
	RowCount      int       `json:"row_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewExpenseAddedMessage builds the message for r, rowCount being the table size after the append.
func NewExpenseAddedMessage(r core.Record, rowCount int) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		Date:          r.Date.String(),
		Category:      string(r.Category),
		AmountCents:   r.Amount.Cents,
		PaymentMethod: string(r.PaymentMethod),
		RowCount:      rowCount,
		Timestamp:     time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseAddedMessageFromJSON creates a message from JSON bytes
func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Record rebuilds the appended record. Category and payment method are kept
// verbatim, as the store does for rows it reads back.
func (m *ExpenseAddedMessage) Record() (core.Record, error) {
	date, err := core.ParseDate(m.Date)
	if err != nil {
		return core.Record{}, err
	}
	if m.AmountCents < 0 {
		return core.Record{}, core.ErrNegativeAmount
	}
	return core.Record{
		Date:          date,
		Category:      core.Category(m.Category),
		Amount:        core.Money{Cents: m.AmountCents},
		PaymentMethod: core.PaymentMethod(m.PaymentMethod),
	}, nil
}
