// Package blobrecord persists the hierarchy document as a single JSON object
// in a blob store (filesystem, memory or S3).
package blobrecord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"workmgmt/internal/blob"
	"workmgmt/pkg/domain"
)

var _ domain.Backend = (*Store)(nil)

const (
	contentType  = "application/json"
	objectSuffix = ".json"
)

// Store reads and replaces one object named after the record key.
type Store struct {
	blobs blob.Store
	key   string
}

// NewStore wraps blobs. An empty key falls back to domain.DefaultRecordKey.
func NewStore(blobs blob.Store, key string) *Store {
	if key == "" {
		key = domain.DefaultRecordKey
	}
	return &Store{blobs: blobs, key: key + objectSuffix}
}

// ObjectKey returns the blob key holding the record.
func (s *Store) ObjectKey() string { return s.key }

// Load fetches and decodes the record object.
func (s *Store) Load(ctx context.Context) (domain.Document, bool, error) {
	_, rc, err := s.blobs.Get(ctx, s.key)
	if errors.Is(err, blob.ErrNotFound) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, fmt.Errorf("get %s: %w", s.key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.Document{}, false, fmt.Errorf("read %s: %w", s.key, err)
	}
	doc, err := domain.DecodeRecord(data)
	if err != nil {
		return domain.Document{}, false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return doc, true, nil
}

// Save replaces the record object.
func (s *Store) Save(ctx context.Context, doc domain.Document) error {
	data, err := domain.EncodeRecord(doc)
	if err != nil {
		return err
	}
	_, err = s.blobs.Put(ctx, s.key, bytes.NewReader(data), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"record-version": strconv.Itoa(domain.RecordVersion)},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", s.key, err)
	}
	return nil
}

// Size reports the stored record size in bytes, or false when absent.
func (s *Store) Size(ctx context.Context) (int64, bool, error) {
	info, err := s.blobs.Head(ctx, s.key)
	if errors.Is(err, blob.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return info.Size, true, nil
}

// Delete removes the record object. It reports false when there was none.
func (s *Store) Delete(ctx context.Context) (bool, error) {
	ok, err := s.blobs.Delete(ctx, s.key)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", s.key, err)
	}
	return ok, nil
}

// Records lists every record object in the blob store, including those
// written under other record keys.
func (s *Store) Records(ctx context.Context) ([]blob.Info, error) {
	infos, err := s.blobs.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]blob.Info, 0, len(infos))
	for _, info := range infos {
		if strings.HasSuffix(info.Key, objectSuffix) {
			out = append(out, info)
		}
	}
	return out, nil
}

// Close implements domain.Backend; the blob store holds no resources.
func (s *Store) Close() error { return nil }
