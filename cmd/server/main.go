package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/config"
	"github.com/hongminglow/telecon-hub-be/internal/logging"
	"github.com/hongminglow/telecon-hub-be/internal/server"
	"github.com/hongminglow/telecon-hub-be/internal/storage/backend"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Logger = logger
	if envErr != nil {
		logger.Info().Msg("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("init store")
	}
	defer store.Close()

	svc := bank.New(store,
		bank.WithLogger(logger.With().Str("component", "bank").Logger()),
		bank.WithWelcomeDeposit(cfg.WelcomeDeposit),
		bank.WithCardLimit(cfg.DefaultCardLimit),
		bank.WithMerchantCity(cfg.PixMerchantCity),
	)
	srv := server.New(cfg, svc, logger)

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("driver", cfg.StoreDriver).Msg("telecon hub backend listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
