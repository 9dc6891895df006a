package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/hongminglow/telecon-hub-be/internal/config"
	"github.com/hongminglow/telecon-hub-be/internal/logging"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
	"github.com/hongminglow/telecon-hub-be/internal/storage/backend"
)

// openStore loads configuration and opens the configured backend.
func openStore(ctx context.Context) (storage.Store, config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadStorage()
	if err != nil {
		return nil, config.Config{}, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel, "console")
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, config.Config{}, logger, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return store, cfg, logger, nil
}
