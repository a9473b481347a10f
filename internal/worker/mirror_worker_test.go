package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/memory"
)

func rec(date string, cat core.Category, cents int64, pm core.PaymentMethod) core.Record {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Record{Date: d, Category: cat, Amount: core.Money{Cents: cents}, PaymentMethod: pm}
}

func message(r core.Record, rowCount int) *amqp.ExpenseAddedMessage {
	return amqp.NewExpenseAddedMessage(r, rowCount)
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (core.Table, error) { return nil, errors.New("disk gone") }
func (brokenStore) Save(context.Context, core.Table) error  { return errors.New("disk gone") }

func TestMirrorWorker_AppendsNextRow(t *testing.T) {
	first := rec("2024-03-01", core.Food, 1000, core.Cash)
	second := rec("2024-03-02", core.Bills, 2500, core.Card)

	primary := memory.New(core.Table{first, second})
	replica := memory.New(core.Table{first})
	w := NewMirrorWorker(primary, replica, nil)

	if err := w.HandleExpenseAdded(context.Background(), message(second, 2)); err != nil {
		t.Fatalf("HandleExpenseAdded: %v", err)
	}

	got, _ := replica.Load(context.Background())
	if len(got) != 2 || got[1].Amount.Cents != 2500 || got[1].Category != core.Bills {
		t.Fatalf("replica = %+v", got)
	}
}

func TestMirrorWorker_IgnoresRedelivery(t *testing.T) {
	first := rec("2024-03-01", core.Food, 1000, core.Cash)
	replica := memory.New(core.Table{first})
	w := NewMirrorWorker(memory.New(core.Table{first}), replica, nil)

	if err := w.HandleExpenseAdded(context.Background(), message(first, 1)); err != nil {
		t.Fatalf("HandleExpenseAdded: %v", err)
	}
	if replica.Saves() != 0 {
		t.Errorf("replica saved %d times on a redelivered message", replica.Saves())
	}
}

func TestMirrorWorker_RebuildsWhenBehind(t *testing.T) {
	table := core.Table{
		rec("2024-03-01", core.Food, 1000, core.Cash),
		rec("2024-03-02", core.Transport, 300, core.UPI),
		rec("2024-03-03", core.Others, 700, core.Other),
	}
	replica := memory.New(nil)
	w := NewMirrorWorker(memory.New(table), replica, nil)

	if err := w.HandleExpenseAdded(context.Background(), message(table[2], 3)); err != nil {
		t.Fatalf("HandleExpenseAdded: %v", err)
	}

	got, _ := replica.Load(context.Background())
	if !sameTable(got, table) {
		t.Fatalf("replica = %+v, want %+v", got, table)
	}
}

func TestMirrorWorker_DropsUndecodableMessage(t *testing.T) {
	replica := memory.New(nil)
	w := NewMirrorWorker(memory.New(nil), replica, nil)

	msg := &amqp.ExpenseAddedMessage{Date: "yesterday", RowCount: 1}
	if err := w.HandleExpenseAdded(context.Background(), msg); err != nil {
		t.Fatalf("undecodable message should be dropped, got %v", err)
	}
	if replica.Saves() != 0 {
		t.Error("replica written for an undecodable message")
	}
}

func TestMirrorWorker_ReplicaFailureIsRetried(t *testing.T) {
	w := NewMirrorWorker(memory.New(nil), brokenStore{}, nil)
	r := rec("2024-03-01", core.Food, 1000, core.Cash)
	if err := w.HandleExpenseAdded(context.Background(), message(r, 1)); err == nil {
		t.Fatal("expected error so the message is requeued")
	}
}

func TestMirrorWorker_Reconcile(t *testing.T) {
	table := core.Table{rec("2024-03-01", core.Food, 1000, core.Cash)}
	replica := memory.New(core.Table{rec("2024-03-01", core.Food, 999, core.Cash)})
	w := NewMirrorWorker(memory.New(table), replica, nil)

	copied, err := w.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !copied {
		t.Fatal("expected a copy when amounts differ")
	}

	copied, err = w.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if copied {
		t.Error("second Reconcile copied again")
	}
}

func TestMirrorWorker_ReconcileLeavesCSVPrimaryIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.csv")
	content := "Date,Category,Amount,Payment Method\n" +
		"2024-01-05,Food,10.00,Cash\n" +
		"2024-01-06,Food,-5.00,Cash\n" +
		"2024-1-7,Food,3.00,Cash\n" +
		"2024-01-08,Food,lots,Cash\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	replica := memory.New(nil)
	w := NewMirrorWorker(storage.NewCSVStore(path), replica, nil)

	if _, err := w.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read primary: %v", err)
	}
	if string(got) != content {
		t.Fatalf("primary rewritten by the mirror:\n%s", got)
	}

	mirrored, _ := replica.Load(context.Background())
	if len(mirrored) != 3 || mirrored[1].Amount.Cents != -500 || mirrored[2].Date.String() != "2024-01-07" {
		t.Fatalf("replica = %+v", mirrored)
	}
}
