package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the table in a SQLite database. Insertion order is the
// row id order.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrateExpenses(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Expense database ready", "path", dbPath, "schema_version", version)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements TableStore
func (s *SQLiteStore) Load(ctx context.Context) (core.Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, category, amount_cents, payment_method FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	t := core.Table{}
	for rows.Next() {
		var (
			date, category, method string
			cents                  int64
		)
		if err := rows.Scan(&date, &category, &cents, &method); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("expense row: %w", err)
		}
		t = append(t, core.Record{
			Date:          d,
			Category:      core.Category(category),
			Amount:        core.Money{Cents: cents},
			PaymentMethod: core.PaymentMethod(method),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return t, nil
}

// Save implements TableStore. The whole table is replaced in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, t core.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (date, category, amount_cents, payment_method) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t {
		if _, err := stmt.ExecContext(ctx, r.Date.String(), string(r.Category), r.Amount.Cents, string(r.PaymentMethod)); err != nil {
			return fmt.Errorf("insert expense %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Expense table saved to SQLite", "rows", len(t))
	return nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
