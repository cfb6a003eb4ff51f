package memory

import (
	"context"
	"sync"

	"workmgmt/pkg/domain"
)

var _ domain.Backend = (*Backend)(nil)

// Backend keeps the encoded record in process memory. The record still goes
// through the persisted JSON format so round-trips behave like durable drivers.
type Backend struct {
	mu     sync.Mutex
	record []byte
	saves  int
}

// NewBackend returns an empty volatile backend.
func NewBackend() *Backend { return &Backend{} }

// Load decodes the held record, if any.
func (b *Backend) Load(ctx context.Context) (Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.record == nil {
		return Document{}, false, nil
	}
	doc, err := domain.DecodeRecord(b.record)
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

// Save replaces the held record.
func (b *Backend) Save(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := domain.EncodeRecord(doc)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record = data
	b.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (b *Backend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// Close implements domain.Backend.
func (b *Backend) Close() error { return nil }
