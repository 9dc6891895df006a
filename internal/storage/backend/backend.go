// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/hongminglow/telecon-hub-be/internal/config"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
	"github.com/hongminglow/telecon-hub-be/internal/storage/jsonfile"
	"github.com/hongminglow/telecon-hub-be/internal/storage/postgres"
)

// Open returns the JSON file store or the Postgres store named by
// cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverJSON:
		return jsonfile.Open(cfg.DataDir)
	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
