package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) KV{
		"memory": func(*testing.T) KV { return NewMemory() },
		"sqlite": func(t *testing.T) KV { return testSQLite(t) },
	}

	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := mk(t)

			if _, ok, err := kv.Get(ctx, ProgressKey); err != nil || ok {
				t.Fatalf("Get on empty store = %v, %v", ok, err)
			}

			if err := kv.Put(ctx, ProgressKey, `{"planets":[]}`); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := kv.Put(ctx, ProgressKey, `{"planets":[{}]}`); err != nil {
				t.Fatalf("second Put: %v", err)
			}
			v, ok, err := kv.Get(ctx, ProgressKey)
			if err != nil || !ok {
				t.Fatalf("Get = %v, %v", ok, err)
			}
			if v != `{"planets":[{}]}` {
				t.Errorf("Get = %q, want last write", v)
			}

			if err := kv.Delete(ctx, ProgressKey); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := kv.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete missing: %v", err)
			}
			if _, ok, _ := kv.Get(ctx, ProgressKey); ok {
				t.Error("key survived Delete")
			}

			if err := kv.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if err := kv.Put(ctx, "k", "v"); !errors.Is(err, ErrClosed) {
				t.Errorf("Put after Close = %v, want ErrClosed", err)
			}
			if _, _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
				t.Errorf("Get after Close = %v, want ErrClosed", err)
			}
		})
	}
}

func TestSQLite_WALAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "progress.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	if err := s.Put(ctx, ProgressKey, "saved"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, ok, err := s2.Get(ctx, ProgressKey)
	if err != nil || !ok || v != "saved" {
		t.Errorf("after reopen Get = %q, %v, %v", v, ok, err)
	}
}

func TestSQLite_ConcurrentPut(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Put(ctx, ProgressKey, "x"); err != nil {
				t.Errorf("Put: %v", err)
			}
		}()
	}
	wg.Wait()

	if _, ok, err := s.Get(ctx, ProgressKey); err != nil || !ok {
		t.Errorf("Get = %v, %v", ok, err)
	}
}
