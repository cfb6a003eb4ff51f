package memory_test

import (
	"context"
	"fmt"
	"testing"

	"workmgmt/internal/infra/persistence/memory"
	"workmgmt/pkg/domain"
)

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newSampleStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(nil)
	store.SetIDGenerator(sequentialIDs())
	store.ImportState(domain.SampleDocument())
	return store
}

func run(t *testing.T, store *memory.Store, fn func(tx domain.Transaction) error) {
	t.Helper()
	if _, err := store.RunInTransaction(context.Background(), fn); err != nil {
		t.Fatalf("run in transaction: %v", err)
	}
}
