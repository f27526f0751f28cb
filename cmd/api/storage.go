package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/rocketshoes-cart/internal/storage"
	"github.com/angelmondragon/rocketshoes-cart/pkg/config"
	"github.com/angelmondragon/rocketshoes-cart/pkg/db"
	"github.com/angelmondragon/rocketshoes-cart/pkg/logger"
	"github.com/angelmondragon/rocketshoes-cart/pkg/migrate"
	"github.com/angelmondragon/rocketshoes-cart/pkg/redis"
)

type closer func() error

// cartStorage is the selected cart backend plus the handle the readiness
// probe pings.
type cartStorage interface {
	storage.KV
	Ping(ctx context.Context) error
}

// openStorage builds the KV backend selected by ROCKETSHOES_STORAGE_DRIVER.
// The returned closers release whatever connection the backend holds.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (cartStorage, []closer, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return storage.NewMemory(), nil, nil

	case config.StorageDriverRedis:
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		kv, err := storage.NewRedis(redisClient)
		if err != nil {
			_ = redisClient.Close()
			return nil, nil, err
		}
		return kv, []closer{redisClient.Close}, nil

	case config.StorageDriverSQL:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			_ = dbClient.Close()
			return nil, nil, fmt.Errorf("dev migrations: %w", err)
		}
		kv, err := storage.NewSQL(dbClient)
		if err != nil {
			_ = dbClient.Close()
			return nil, nil, err
		}
		return kv, []closer{dbClient.Close}, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
