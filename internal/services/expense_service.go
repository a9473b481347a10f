package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// ErrSaveFailed marks an add that could not be persisted. The record was not added.
var ErrSaveFailed = errors.New("save expense table")

// Publisher announces appended records to interested parties.
type Publisher interface {
	PublishExpenseAdded(ctx context.Context, r core.Record, rowCount int) error
}

// DashboardView is what the dashboard page renders.
type DashboardView struct {
	Summary core.Summary
	Trend   []core.PeriodAmount
	Empty   bool
}

// ReportView is what the reports page renders.
type ReportView struct {
	Summary    core.Summary
	Table      core.Table
	Categories []core.CategoryAmount
	Empty      bool
}

// ExpenseService runs page queries and the add command against a TableStore.
// Every call reloads the table; nothing is kept between calls.
type ExpenseService struct {
	store     storage.TableStore
	publisher Publisher
	now       func() time.Time
}

func NewExpenseService(store storage.TableStore, publisher Publisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock overrides the time source used for the current-month figures.
func (s *ExpenseService) WithClock(now func() time.Time) *ExpenseService {
	s.now = now
	return s
}

// Now returns the service's notion of the current time.
func (s *ExpenseService) Now() time.Time {
	return s.now()
}

func (s *ExpenseService) load(ctx context.Context) (core.Table, error) {
	t, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expense table: %w", err)
	}
	return t, nil
}

// Overview returns the quick stats shown on every page.
func (s *ExpenseService) Overview(ctx context.Context) (core.Summary, error) {
	t, err := s.load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(t, s.now()), nil
}

// Dashboard computes the summary figures and the monthly trend.
func (s *ExpenseService) Dashboard(ctx context.Context) (DashboardView, error) {
	t, err := s.load(ctx)
	if err != nil {
		return DashboardView{}, err
	}
	return DashboardView{
		Summary: core.Summarize(t, s.now()),
		Trend:   core.MonthlyTrend(t),
		Empty:   t.IsEmpty(),
	}, nil
}

// Report returns the full table with per-category totals.
func (s *ExpenseService) Report(ctx context.Context) (ReportView, error) {
	t, err := s.load(ctx)
	if err != nil {
		return ReportView{}, err
	}
	return ReportView{
		Summary:    core.Summarize(t, s.now()),
		Table:      t,
		Categories: core.CategoryTotals(t),
		Empty:      t.IsEmpty(),
	}, nil
}

// Table returns the current table, e.g. for export.
func (s *ExpenseService) Table(ctx context.Context) (core.Table, error) {
	return s.load(ctx)
}

// AddExpense appends r and persists the whole table before returning.
//
// On a save failure the returned table is the one that was loaded, and the
// error wraps ErrSaveFailed. Validation errors come from core.
func (s *ExpenseService) AddExpense(ctx context.Context, r core.Record) (core.Table, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	next := t.Append(r)
	if err := s.store.Save(ctx, next); err != nil {
		return t, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	slog.InfoContext(ctx, "Expense added",
		"date", r.Date.String(),
		"category", r.Category,
		"amount_cents", r.Amount.Cents,
		"payment_method", r.PaymentMethod,
		"rows", len(next))

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseAdded(ctx, r, len(next)); err != nil {
			// the record is already persisted
			slog.ErrorContext(ctx, "Failed to publish expense added message", "error", err)
		}
	}

	return next, nil
}

// Close releases the store and publisher when they hold resources.
func (s *ExpenseService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
