// Package backend opens the configured Store implementation.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/storage"
	"github.com/cory-johannsen/angler/internal/storage/file"
	"github.com/cory-johannsen/angler/internal/storage/postgres"
	"github.com/cory-johannsen/angler/internal/storage/redis"
	"github.com/cory-johannsen/angler/internal/storage/sqlite"
	"github.com/cory-johannsen/angler/migrations"
)

// Open returns the Store selected by cfg.Storage.Backend.
//
// Precondition: cfg must be validated.
// Postcondition: Returns a ready Store or a non-nil error; the caller closes the Store.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, error) {
	logger = logger.With(zap.String("backend", cfg.Storage.Backend))
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory store; records are lost on restart")
		return storage.NewMemory(), nil
	case config.BackendFile:
		s, err := file.Open(cfg.Storage.FilePath)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", zap.String("path", cfg.Storage.FilePath))
		return s, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", zap.String("path", cfg.Storage.SQLitePath))
		return s, nil
	case config.BackendRedis:
		s, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", zap.String("addr", cfg.Redis.Addr))
		return s, nil
	case config.BackendPostgres:
		if cfg.Database.AutoMigrate {
			res, err := migrations.Apply(cfg.Database.DSN(), migrations.Up, 0)
			if err != nil {
				return nil, err
			}
			logger.Info("schema migrated", zap.Uint("version", res.Version), zap.Bool("changed", res.Changed))
		}
		s, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("store opened", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
