package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rocketshoes-cart/internal/storage"
	"github.com/angelmondragon/rocketshoes-cart/pkg/config"
)

func TestOpenStorageMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverMemory}}

	kv, closers, err := openStorage(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, kv)
	assert.Empty(t, closers)
}

func TestOpenStorageSQLite(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Env: config.AppEnvProd},
		Storage: config.StorageConfig{Driver: config.StorageDriverSQL},
		DB: config.DBConfig{
			Driver: config.DBDriverSQLite,
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		},
	}

	kv, closers, err := openStorage(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.SQL{}, kv)
	require.Len(t, closers, 1)
	assert.NoError(t, kv.Ping(context.Background()))
	assert.NoError(t, closers[0]())
}

func TestOpenStorageRedisUnreachable(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverRedis},
		Redis:   config.RedisConfig{Address: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond},
	}

	_, _, err := openStorage(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpenStorageUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "etcd"}}

	_, _, err := openStorage(context.Background(), cfg, nil)
	assert.Error(t, err)
}
