package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"expensetracker/internal/core"
)

// Header is the exact column row of the expenses file.
var Header = []string{"Date", "Category", "Amount", "Payment Method"}

var (
	ErrEmptyFile      = errors.New("empty file")
	ErrSchemaMismatch = errors.New("header does not match expected columns")
	ErrMalformedRow   = errors.New("malformed row")
)

const utf8BOM = "\ufeff"

// EncodeCSV writes the header followed by one row per record.
func EncodeCSV(w io.Writer, t core.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t {
		row := []string{r.Date.String(), string(r.Category), r.Amount.String(), string(r.PaymentMethod)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SkippedRow is a data row that could not be turned into a record.
type SkippedRow struct {
	Line int
	Raw  []string
	Err  error
}

// DecodeCSV parses a table written by EncodeCSV.
//
// Only the header decides whether the file is usable: an empty file or a
// wrong header is reported through ErrEmptyFile or ErrSchemaMismatch. Data
// rows are coerced leniently. Category and payment method are taken verbatim,
// a missing amount reads as zero, and short rows are padded. Rows that still
// cannot be read are returned as skipped instead of failing the whole table.
func DecodeCSV(r io.Reader) (core.Table, []SkippedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	head[0] = strings.TrimPrefix(head[0], utf8BOM)
	if len(head) != len(Header) {
		return nil, nil, fmt.Errorf("%w: got %q", ErrSchemaMismatch, strings.Join(head, ","))
	}
	for i := range Header {
		if head[i] != Header[i] {
			return nil, nil, fmt.Errorf("%w: got %q", ErrSchemaMismatch, strings.Join(head, ","))
		}
	}

	t := core.Table{}
	var skipped []SkippedRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, nil, fmt.Errorf("read rows: %w", err)
			}
			skipped = append(skipped, SkippedRow{Line: perr.Line, Raw: rec, Err: fmt.Errorf("%w: %v", ErrMalformedRow, err)})
			continue
		}
		line, _ := cr.FieldPos(0)
		row, err := decodeRow(rec)
		if err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Raw: rec, Err: err})
			continue
		}
		t = append(t, row)
	}
	return t, skipped, nil
}

func decodeRow(rec []string) (core.Record, error) {
	if len(rec) > len(Header) {
		return core.Record{}, fmt.Errorf("%w: %d fields, want %d", ErrMalformedRow, len(rec), len(Header))
	}
	for len(rec) < len(Header) {
		rec = append(rec, "")
	}

	date, err := core.ParseStoredDate(rec[0])
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	var amount core.Money
	if strings.TrimSpace(rec[2]) != "" {
		if amount, err = core.ParseStoredAmount(rec[2]); err != nil {
			return core.Record{}, fmt.Errorf("%w: amount %q: %v", ErrMalformedRow, rec[2], err)
		}
	}
	return core.Record{
		Date:          date,
		Category:      core.Category(rec[1]),
		Amount:        amount,
		PaymentMethod: core.PaymentMethod(rec[3]),
	}, nil
}
