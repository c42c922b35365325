package storage

import (
	"context"
	"fmt"

	"recipe-planner/internal/config"
	"recipe-planner/internal/database"
	"recipe-planner/internal/logger"
)

// Open builds the Store selected by cfg.StoreDriver. The returned close
// function releases the underlying connection, if any.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemoryStore(), noop, nil
	case config.DriverFile:
		s, err := NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.DriverRedis:
		s, err := NewRedisStore(ctx, cfg.RedisURL, "recipe-planner:")
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverSQLite, "":
		db, err := database.NewDB(cfg.DatabasePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return NewSQLiteStore(db.SQL), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
