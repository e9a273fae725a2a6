// Package kv provides the key-value backends that hold the durable blob.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Store reads and writes opaque values under string keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Driver string
	// Path is the data directory for the file driver and the database file
	// for the sqlite driver.
	Path string
	// DB is an open PostgreSQL handle for the postgres driver.
	DB *sql.DB
}

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case DriverFile, "":
		s, err = NewFileStore(cfg.Path)
	case DriverSQLite:
		s, err = OpenSQLite(ctx, cfg.Path)
	case DriverPostgres:
		if cfg.DB == nil {
			return nil, errors.New("postgres driver requires a database handle")
		}
		s, err = NewPostgresStore(ctx, cfg.DB)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
