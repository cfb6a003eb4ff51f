package postgres

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"testing"

	"workmgmt/internal/infra/persistence/postgres/testutil"
	"workmgmt/pkg/domain"
)

func openStub(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		if driverName != defaultDriver {
			t.Fatalf("unexpected driver %s", driverName)
		}
		if dsn != DefaultDSN {
			t.Fatalf("expected default dsn, got %s", dsn)
		}
		return db, nil
	})
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "", "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	_, conn := openStub(t)
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS state") && strings.Contains(stmt, "JSONB") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got execs: %v", conn.Execs)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty state, got ok=%v err=%v", ok, err)
	}
	doc := domain.SampleDocument()
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc.Organizations[0].Description = "second write"
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rows := conn.Rows("state")
	if len(rows) != 1 || rows[0]["bucket"] != domain.DefaultRecordKey {
		t.Fatalf("expected a single upserted record, got %v", rows)
	}
	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatalf("loaded document differs from saved document")
	}
}

func TestLoadIgnoresOtherBuckets(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)
	conn.Tables["state"] = []map[string]any{{"bucket": "other", "payload": []byte(`{"state":{"organizations":[]},"version":1}`)}}
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected no record for default key, got ok=%v err=%v", ok, err)
	}
}

func TestLoadRejectsNewerRecordVersion(t *testing.T) {
	store, conn := openStub(t)
	conn.Tables["state"] = []map[string]any{{"bucket": domain.DefaultRecordKey, "payload": []byte(`{"state":{"organizations":[]},"version":7}`)}}
	if _, _, err := store.Load(context.Background()); !errors.Is(err, domain.ErrUnsupportedRecordVersion) {
		t.Fatalf("expected unsupported version, got %v", err)
	}
}

func TestLoadSurfacesRowErrors(t *testing.T) {
	store, conn := openStub(t)
	conn.RowsErr = errors.New("broken cursor")
	if _, _, err := store.Load(context.Background()); err == nil || !strings.Contains(err.Error(), "iterate state") {
		t.Fatalf("expected iterate error, got %v", err)
	}
	conn.RowsErr = nil
	conn.FailTables = map[string]bool{"state": true}
	if _, _, err := store.Load(context.Background()); err == nil || !strings.Contains(err.Error(), "select state") {
		t.Fatalf("expected select error, got %v", err)
	}
}

func TestSaveFailures(t *testing.T) {
	ctx := context.Background()
	doc := domain.SampleDocument()

	store, conn := openStub(t)
	conn.FailBegin = true
	if err := store.Save(ctx, doc); err == nil || !strings.Contains(err.Error(), "begin tx") {
		t.Fatalf("expected begin error, got %v", err)
	}

	store, conn = openStub(t)
	conn.FailTables = map[string]bool{"state": true}
	if err := store.Save(ctx, doc); err == nil || !strings.Contains(err.Error(), "upsert") {
		t.Fatalf("expected upsert error, got %v", err)
	}

	store, conn = openStub(t)
	conn.FailCommit = true
	if err := store.Save(ctx, doc); err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit error, got %v", err)
	}
}

func TestNewStoreOpenAndPingFailures(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("no driver") })
	if _, err := NewStore(context.Background(), "postgres://x", ""); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open error, got %v", err)
	}
	restore()

	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore = OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), "postgres://x", ""); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestNewStoreTableFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailExec = true
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), "postgres://x", "custom"); err == nil || !strings.Contains(err.Error(), "ensure state table") {
		t.Fatalf("expected table error, got %v", err)
	}
}
