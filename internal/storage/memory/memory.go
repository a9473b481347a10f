package memory

import (
	"context"
	"os"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// Store is an in-process TableStore, used for tests and throwaway demos.
type Store struct {
	mu    sync.Mutex
	items core.Table
	saves int
}

func New(seed core.Table) *Store {
	s := &Store{}
	s.items = append(core.Table{}, seed...)
	return s
}

// NewFromFile seeds the store from a CSV file in the store format. A missing
// file or one with the wrong header yields an empty store; unreadable rows are
// left out.
func NewFromFile(path string) *Store {
	f, err := os.Open(path)
	if err != nil {
		return New(nil)
	}
	defer f.Close()
	t, _, err := storage.DecodeCSV(f)
	if err != nil {
		return New(nil)
	}
	return New(t)
}

// Load returns a copy of the stored table.
func (s *Store) Load(_ context.Context) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(core.Table{}, s.items...), nil
}

// Save replaces the stored table with a copy of t.
func (s *Store) Save(_ context.Context, t core.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(core.Table{}, t...)
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
