// Package worker keeps a replica store in step with the primary expense table.
package worker

import (
	"context"
	"fmt"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// MirrorWorker applies expense-added events to a replica store. The primary
// store stays the source of truth: whenever the replica falls out of step it
// is rebuilt from the primary table.
type MirrorWorker struct {
	primary storage.TableStore
	replica storage.TableStore
	logger  *applog.Logger
}

func NewMirrorWorker(primary, replica storage.TableStore, logger *applog.Logger) *MirrorWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &MirrorWorker{
		primary: primary,
		replica: replica,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleExpenseAdded processes a single expense-added message from AMQP.
// Redelivered messages are ignored once the replica already holds the row.
func (w *MirrorWorker) HandleExpenseAdded(ctx context.Context, msg *amqp.ExpenseAddedMessage) error {
	rec, err := msg.Record()
	if err != nil {
		w.logger.WarnContext(ctx, "Dropping undecodable expense message",
			applog.FieldDate, msg.Date,
			applog.FieldError, err)
		return nil
	}

	replica, err := w.replica.Load(ctx)
	if err != nil {
		return fmt.Errorf("load replica: %w", err)
	}

	switch {
	case replica.Len() >= msg.RowCount:
		w.logger.DebugContext(ctx, "Replica already holds row, skipping",
			applog.FieldRowCount, replica.Len(),
			"message_row_count", msg.RowCount)
		return nil
	case replica.Len()+1 == msg.RowCount:
		if err := w.replica.Save(ctx, replica.Append(rec)); err != nil {
			return fmt.Errorf("save replica: %w", err)
		}
		fields := applog.NewFields().WithRecord(rec)
		fields[applog.FieldRowCount] = msg.RowCount
		w.logger.InfoContext(ctx, "Mirrored expense", fields.ToSlice()...)
		return nil
	default:
		w.logger.WarnContext(ctx, "Replica out of step, rebuilding from primary",
			applog.FieldRowCount, replica.Len(),
			"message_row_count", msg.RowCount)
		_, err := w.Reconcile(ctx)
		return err
	}
}

// Reconcile copies the primary table onto the replica when the two differ and
// reports whether a copy happened. It runs at startup and periodically to
// recover from lost messages.
func (w *MirrorWorker) Reconcile(ctx context.Context) (bool, error) {
	primary, err := w.primary.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load primary: %w", err)
	}
	replica, err := w.replica.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load replica: %w", err)
	}

	if sameTable(primary, replica) {
		return false, nil
	}

	if err := w.replica.Save(ctx, primary); err != nil {
		return false, fmt.Errorf("save replica: %w", err)
	}

	w.logger.InfoContext(ctx, "Replica rebuilt from primary",
		"primary_rows", primary.Len(),
		"replica_rows", replica.Len())
	return true, nil
}

func sameTable(a, b core.Table) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Date.String() != b[i].Date.String() ||
			a[i].Category != b[i].Category ||
			a[i].Amount != b[i].Amount ||
			a[i].PaymentMethod != b[i].PaymentMethod {
			return false
		}
	}
	return true
}
