package core

import (
	"context"
	"fmt"

	"workmgmt/internal/blob"
	"workmgmt/internal/config"
	"workmgmt/internal/infra/persistence/blobrecord"
	"workmgmt/internal/infra/persistence/memory"
	"workmgmt/internal/infra/persistence/postgres"
	"workmgmt/internal/infra/persistence/sqlite"
	"workmgmt/pkg/domain"
)

// OpenBackend selects the durable record backend from the storage config.
// Defaults to sqlite when the driver is unset.
//
//	storage.driver: memory|sqlite|postgres|blob
//	sqlite.path: database file (default ./workmgmt.db)
//	postgres.dsn: connection string when driver=postgres
//	blob.*: object store holding <record_key>.json when driver=blob
func OpenBackend(ctx context.Context, cfg *config.Config) (domain.Backend, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}
	driver := cfg.Storage.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}
	key := cfg.Storage.RecordKey
	switch driver {
	case config.DriverMemory:
		return memory.NewBackend(), nil
	case config.DriverSQLite:
		return sqlite.NewStore(cfg.SQLite.Path, key)
	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.Postgres.DSN, key)
	case config.DriverBlob:
		blobs, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return blobrecord.NewStore(blobs, key), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
