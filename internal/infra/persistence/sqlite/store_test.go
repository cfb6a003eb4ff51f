package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"workmgmt/pkg/domain"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := NewStore(path, "")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty database, got ok=%v err=%v", ok, err)
	}
	doc := domain.SampleDocument()
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	doc.Organizations[0].Name = "Renamed"
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	got, ok, err := reloaded.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatalf("reloaded document differs from saved document")
	}
	var rows int
	if err := reloaded.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single record row, got %d", rows)
	}
	if reloaded.Key() != domain.DefaultRecordKey || reloaded.Path() != path {
		t.Fatalf("unexpected key/path %s %s", reloaded.Key(), reloaded.Path())
	}
}

func TestSQLiteStoreRejectsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(filepath.Join(t.TempDir(), "state.db"), "custom")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.DB().Exec(`INSERT INTO state(bucket,payload) VALUES(?,?)`, "custom", []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := store.Load(ctx); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSQLiteStoreKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	a, err := NewStore(path, "a")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	if err := a.Save(ctx, domain.SampleDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := NewStore(path, "b")
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	if _, ok, err := b.Load(ctx); err != nil || ok {
		t.Fatalf("expected key b to be empty, got ok=%v err=%v", ok, err)
	}
}
