// Package app wires configuration into the storage, store and reader
// service shared by the api server and the companion CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/taiwoajasa245/verse-companion/internal/catalog"
	"github.com/taiwoajasa245/verse-companion/internal/database"
	"github.com/taiwoajasa245/verse-companion/internal/explain"
	"github.com/taiwoajasa245/verse-companion/internal/kv"
	"github.com/taiwoajasa245/verse-companion/internal/proxy"
	"github.com/taiwoajasa245/verse-companion/internal/reader"
	"github.com/taiwoajasa245/verse-companion/internal/store"
	"github.com/taiwoajasa245/verse-companion/pkg/config"
)

// App holds the components built from one configuration.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      database.Service // nil unless the postgres driver is used
	Store   *store.Store
	Catalog *catalog.Catalog
	Reader  *reader.ReaderService
	Bible   *proxy.Client

	blobs kv.Store
}

// Option adjusts an App before its store is opened.
type Option func(*settings)

type settings struct {
	opener explain.Opener
}

// WithOpener replaces the browser used for explanations.
func WithOpener(o explain.Opener) Option {
	return func(s *settings) { s.opener = o }
}

// New opens storage and the store. Close releases them.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var set settings
	for _, opt := range opts {
		opt(&set)
	}

	a := &App{Config: cfg, Log: log, Catalog: catalog.Default()}

	kvCfg := kv.Config{Driver: cfg.StorageDriver, Path: StorageLocation(cfg)}
	if cfg.StorageDriver == kv.DriverPostgres {
		db, err := database.New(ctx, database.Options{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			Database: cfg.DBName,
			Username: cfg.DBUser,
			Password: cfg.DBPassword,
			Schema:   cfg.DBSchema,
		}, log)
		if err != nil {
			return nil, err
		}
		a.DB = db
		kvCfg.DB = db.DB()
	}

	blobs, err := kv.Open(ctx, kvCfg)
	if err != nil {
		a.closeStorage()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageDriver, err)
	}
	a.blobs = blobs

	st, err := store.Open(ctx, blobs, a.Catalog,
		store.WithKey(cfg.StorageKey),
		store.WithDefaultTranslation(cfg.DefaultTranslation),
		store.WithLogger(log.Named("store")),
	)
	if err != nil {
		a.closeStorage()
		return nil, err
	}
	a.Store = st

	launcher := explain.NewLauncher(cfg.ChatAssistantURL, set.opener, st, log.Named("explain"))
	a.Reader = reader.NewReaderService(st, a.Catalog, launcher, cfg.ChatAssistantURL, log.Named("reader"))
	a.Bible = proxy.NewClient(cfg.BibleAPIURL, cfg.UpstreamTimeout)
	return a, nil
}

// StorageLocation resolves STORAGE_PATH for the selected driver: a directory
// for file storage, a database file for sqlite.
func StorageLocation(cfg *config.Config) string {
	if cfg.StorageDriver == kv.DriverSQLite && filepath.Ext(cfg.StoragePath) == "" {
		return filepath.Join(cfg.StoragePath, "companion.db")
	}
	return cfg.StoragePath
}

// Close drains pending store writes, then closes storage.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if err := a.closeStorage(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeStorage() error {
	var errs []error
	if c, ok := a.blobs.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}
