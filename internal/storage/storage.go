// Package storage opens the configured backend and hands out its repositories.
package storage

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"taskly-be/internal/config"
	"taskly-be/internal/database"
	"taskly-be/internal/repository"
)

// Storage is the process-wide store handle. It is opened once at startup and
// closed once after the HTTP server has drained.
type Storage struct {
	Users repository.UserRepository
	Tasks repository.TaskRepository

	closeFn   func(ctx context.Context) error
	closeOnce sync.Once
	closeErr  error
}

// Open connects to the backend selected by cfg.StoreDriver
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Storage, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewMemory returns a store that lives in process memory
func NewMemory() *Storage {
	return &Storage{
		Users:   repository.NewMemoryUserRepository(),
		Tasks:   repository.NewMemoryTaskRepository(),
		closeFn: func(context.Context) error { return nil },
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Storage, error) {
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info("connected to postgres")

	if err := database.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("database migrations completed")

	return &Storage{
		Users:   repository.NewUserRepository(db),
		Tasks:   repository.NewTaskRepository(db),
		closeFn: func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Storage, error) {
	client, err := database.NewMongoConnection(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	log.Info("connected to mongo", zap.String("database", cfg.MongoDatabase))

	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Storage{
		Users:   repository.NewMongoUserRepository(db),
		Tasks:   repository.NewMongoTaskRepository(db),
		closeFn: client.Disconnect,
	}, nil
}

// Close releases the underlying connection. Later calls return the first result.
func (s *Storage) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = s.closeFn(ctx)
	})
	return s.closeErr
}
