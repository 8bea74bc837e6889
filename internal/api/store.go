package api

import (
	"context"
	"fmt"
	"io"

	"vidsweep/internal/config"
	"vidsweep/internal/content"
	"vidsweep/internal/content/postgres"
	"vidsweep/internal/content/sqlite"
)

// Store is a content store that owns its connection.
type Store interface {
	content.Store
	io.Closer
}

// OpenStore opens the backend selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	switch cfg.Store.Driver {
	case config.DriverSQLite, "":
		store, err := sqlite.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
