// Package sqlite persists the hierarchy document as a single JSON record in a
// local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"workmgmt/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.Backend = (*Store)(nil)

// DefaultPath is used when no database path is configured.
const DefaultPath = "workmgmt.db"

// Store keeps the encoded document in the state table under one bucket.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
	key  string
}

// NewStore opens (creating when needed) the SQLite database at path. An empty
// key falls back to domain.DefaultRecordKey.
func NewStore(path, key string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if key == "" {
		key = domain.DefaultRecordKey
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path, key: key}, nil
}

// Load reads the record stored under the configured key.
func (s *Store) Load(ctx context.Context) (domain.Document, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, fmt.Errorf("select state: %w", err)
	}
	doc, err := domain.DecodeRecord(payload)
	if err != nil {
		return domain.Document{}, false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return doc, true, nil
}

// Save upserts the encoded document.
func (s *Store) Save(ctx context.Context, doc domain.Document) (retErr error) {
	data, err := domain.EncodeRecord(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, s.key, data); err != nil {
		return fmt.Errorf("upsert %s: %w", s.key, err)
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Key returns the bucket the record is stored under.
func (s *Store) Key() string { return s.key }
