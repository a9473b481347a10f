package storage

import (
	"context"

	"expensetracker/internal/core"
)

// TableStore is the durable home of the expense table.
//
// Load always yields a usable table: a missing, empty or wrongly headed store
// is reset to an empty one, while data rows are coerced and never cause a
// reset. Save replaces the whole table; a failed Save leaves the
// previously persisted table in place.
type TableStore interface {
	Load(ctx context.Context) (core.Table, error)
	Save(ctx context.Context, t core.Table) error
}
