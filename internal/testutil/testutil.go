// Package testutil provides helper functions for testing.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazuruo/rewind/internal/history"
)

// TempDir creates a temporary directory and registers a cleanup function.
// The directory is automatically deleted when the test completes.
func TempDir(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "rewind-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("failed to cleanup temp dir %s: %v", dir, err)
		}
	})

	return dir
}

// WriteFile writes content to name inside a temporary directory and returns
// the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(TempDir(t), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}

	return path
}

// Call is one recorded FakeStore invocation.
type Call struct {
	Method string // "List", "Search" or "Count"
	Mode   history.SearchMode
	Query  string
	Limit  int
	Unique bool
}

// FakeStore is an in-memory history.Store that records every call.
// Search does a case-sensitive substring match regardless of mode.
type FakeStore struct {
	mu      sync.Mutex
	Records []history.History
	Calls   []Call

	// Err, when set, is returned by every method.
	Err error
	// CountErr, when set, is returned by Count only.
	CountErr error
}

var _ history.Store = (*FakeStore)(nil)

// NewFakeStore returns a store holding records, newest first.
func NewFakeStore(records ...history.History) *FakeStore {
	return &FakeStore{Records: records}
}

func (f *FakeStore) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, c)
}

// List implements history.Store.
func (f *FakeStore) List(_ context.Context, limit int, unique bool) ([]history.History, error) {
	f.record(Call{Method: "List", Limit: limit, Unique: unique})
	if f.Err != nil {
		return nil, f.Err
	}
	return clip(f.Records, limit), nil
}

// Search implements history.Store.
func (f *FakeStore) Search(_ context.Context, mode history.SearchMode, query string, limit int) ([]history.History, error) {
	f.record(Call{Method: "Search", Mode: mode, Query: query, Limit: limit})
	if f.Err != nil {
		return nil, f.Err
	}

	var out []history.History
	for _, h := range f.Records {
		if strings.Contains(h.Command, query) {
			out = append(out, h)
		}
	}
	return clip(out, limit), nil
}

// Count implements history.Store.
func (f *FakeStore) Count(context.Context) (int64, error) {
	f.record(Call{Method: "Count"})
	if f.Err != nil {
		return 0, f.Err
	}
	if f.CountErr != nil {
		return 0, f.CountErr
	}
	return int64(len(f.Records)), nil
}

// CallsTo returns the recorded calls to method.
func (f *FakeStore) CallsTo(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func clip(records []history.History, limit int) []history.History {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

// Record builds a history record with a successful one-second run that
// finished ago before now.
func Record(cmd string, now time.Time, ago time.Duration) history.History {
	return history.History{
		ID:        cmd,
		Timestamp: now.Add(-ago),
		Duration:  int64(time.Second),
		Exit:      0,
		Command:   cmd,
		Cwd:       "/work",
		Session:   "test",
		Hostname:  "test",
	}
}
