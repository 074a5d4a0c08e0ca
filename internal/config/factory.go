package config

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"task-manager/internal/logging"
	"task-manager/internal/storage"
	"task-manager/internal/storage/file"
	"task-manager/internal/storage/memory"
	"task-manager/internal/storage/redis"
	"task-manager/internal/storage/sqlite"
)

// CreatePersister builds the storage adapter selected by the configuration.
// The caller owns the returned adapter and must Close it.
func CreatePersister(config *Config, logger *zap.Logger) (*storage.Adapter, error) {
	logger = logging.OrNop(logger)

	backend, err := createBackend(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", config.Storage.Backend, err)
	}

	logger.Debug("storage ready",
		zap.String("backend", config.Storage.Backend),
		zap.String("key", config.Storage.Key))

	return storage.NewAdapter(backend,
		storage.WithKey(config.Storage.Key),
		storage.WithLogger(logger),
		storage.WithTimeouts(config.Storage.ReadTimeout, config.Storage.WriteTimeout),
	), nil
}

func createBackend(config *Config) (storage.Backend, error) {
	switch config.Storage.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(config.Storage.Dir, fs.FileMode(config.Storage.DirPermissions)); err != nil {
			return nil, err
		}
		return sqlite.New(config.GetDatabasePath())
	case BackendFile:
		return file.New(config.Storage.Dir, fs.FileMode(config.Storage.DirPermissions))
	case BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), config.Storage.ReadTimeout)
		defer cancel()
		return redis.Dial(ctx, config.Storage.RedisAddr)
	case BackendMemory:
		return memory.New(), nil
	default:
		return nil, &ConfigError{Field: "storage.backend", Message: "unknown backend " + config.Storage.Backend}
	}
}
