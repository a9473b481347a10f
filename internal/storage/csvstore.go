package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"expensetracker/internal/core"
)

// CSVStore keeps the table in a single comma-separated file.
//
// The mutex only serializes access inside this process. Two processes
// sharing the file race with last-writer-wins semantics.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the table, resetting the file to a header-only one when it is
// missing, empty or has the wrong columns. Data rows never trigger a reset:
// unreadable rows are left out of the table and the file is copied to
// BackupPath first, so the next Save cannot lose them for good.
func (s *CSVStore) Load(ctx context.Context) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		reason := "unreadable"
		if errors.Is(err, os.ErrNotExist) {
			reason = "missing"
		}
		return s.reset(ctx, reason, err)
	}

	t, skipped, err := DecodeCSV(bytes.NewReader(data))
	switch {
	case errors.Is(err, ErrEmptyFile):
		return s.reset(ctx, "empty", err)
	case errors.Is(err, ErrSchemaMismatch):
		return s.reset(ctx, "schema_mismatch", err)
	case err != nil:
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	if len(skipped) > 0 {
		for _, row := range skipped {
			slog.WarnContext(ctx, "Skipping unreadable expense row",
				"path", s.path,
				"line", row.Line,
				"row", strings.Join(row.Raw, ","),
				"error", row.Err)
		}
		if err := s.backup(data); err != nil {
			return nil, fmt.Errorf("back up store with %d unreadable rows: %w", len(skipped), err)
		}
		slog.WarnContext(ctx, "Expense store has unreadable rows, original kept in backup",
			"path", s.path,
			"backup", s.BackupPath(),
			"skipped", len(skipped),
			"rows", len(t))
	}
	return t, nil
}

// BackupPath is where Load keeps a copy of a file holding unreadable rows.
func (s *CSVStore) BackupPath() string {
	return s.path + ".bak"
}

func (s *CSVStore) backup(data []byte) error {
	if prev, err := os.ReadFile(s.BackupPath()); err == nil && bytes.Equal(prev, data) {
		return nil
	}
	return os.WriteFile(s.BackupPath(), data, 0o644)
}

// Save rewrites the whole file with t.
func (s *CSVStore) Save(ctx context.Context, t core.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(t); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Expense table saved", "path", s.path, "rows", len(t))
	return nil
}

func (s *CSVStore) reset(ctx context.Context, reason string, cause error) (core.Table, error) {
	slog.WarnContext(ctx, "Resetting expense store", "path", s.path, "reason", reason, "cause", cause)
	if err := s.write(core.Table{}); err != nil {
		return nil, fmt.Errorf("reset store (%s): %w", reason, err)
	}
	return core.Table{}, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (s *CSVStore) write(t core.Table) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".expenses-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := EncodeCSV(tmp, t); err != nil {
		tmp.Close()
		return fmt.Errorf("encode table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
