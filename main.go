package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"taskly-be/internal/config"
	"taskly-be/internal/logger"
	"taskly-be/internal/server"
	"taskly-be/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("server stopped with error", zap.Error(err))
		_ = appLogger.Sync()
		os.Exit(1)
	}
	appLogger.Info("server stopped")
}

func run(cfg *config.Config, appLogger *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the configured store; failure here is fatal
	store, err := storage.Open(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err = multierr.Append(err, store.Close(closeCtx))
	}()

	srv, err := server.New(cfg, appLogger, store)
	if err != nil {
		return err
	}

	// store is closed by the deferred call only after Run has drained
	return srv.Run(ctx)
}
