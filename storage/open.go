package storage

import (
	"context"
	"fmt"

	"github.com/mmdatafocus/shop_ledger/config"
)

// Open builds the store selected by kind (see config.StoreKind), connecting
// the shared Redis or SQL client when needed.
func Open(ctx context.Context, kind string) (KeyValueStore, error) {
	switch kind {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreFile:
		return NewFileStore(config.DataDir())
	case config.StoreRedis:
		if config.GetRedisDB() == nil {
			if err := config.ConnectRedisWithRetry(ctx, 5); err != nil {
				return nil, err
			}
		}
		return NewRedisStore(config.GetRedisDB(), config.RedisKeyPrefix()), nil
	case config.StoreMySQL:
		if config.GetDB() == nil {
			if err := config.ConnectDatabaseWithRetry(5); err != nil {
				return nil, err
			}
		}
		return openGorm(ctx)
	case config.StorePostgres:
		if config.GetDB() == nil {
			if err := config.ConnectPostgresWithRetry(5); err != nil {
				return nil, err
			}
		}
		return openGorm(ctx)
	}
	return nil, fmt.Errorf("storage: unknown store kind %q", kind)
}

func openGorm(ctx context.Context) (*GormStore, error) {
	s := NewGormStore(config.GetDB())
	if err := s.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return s, nil
}
