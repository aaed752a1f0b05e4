package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/picverb/internal/ledger"
)

var (
	_ ledger.Storage = (*Store)(nil)
	_ ledger.Storage = (*Memory)(nil)
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "picverb.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestStoreSetGetRemove(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := st.Set(ctx, "k", []byte(`{"total":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, "k", []byte(`{"total":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := st.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"total":2}` {
		t.Fatalf("unexpected value %q", got)
	}
	if err := st.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := st.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picverb.db")
	ctx := context.Background()
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Set(ctx, ledger.Key, []byte("raw")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	got, ok, err := st.Get(ctx, ledger.Key)
	if err != nil || !ok || string(got) != "raw" {
		t.Fatalf("unexpected value %q ok=%v err=%v", got, ok, err)
	}
}

func TestStoreClosed(t *testing.T) {
	st := openTemp(t)
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	ctx := context.Background()
	if _, _, err := st.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Get, got %v", err)
	}
	if err := st.Set(ctx, "k", nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Set, got %v", err)
	}
	if err := st.Remove(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Remove, got %v", err)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	value := []byte("abc")
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'x'
	got, ok, _ := m.Get(ctx, "k")
	if !ok || string(got) != "abc" {
		t.Fatalf("unexpected value %q", got)
	}
	if err := m.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
}
