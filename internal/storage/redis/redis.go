// Package redis stores task blobs in Redis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "task-manager/internal/errors"
	"task-manager/internal/storage"
)

// DefaultPrefix namespaces keys written by this backend.
const DefaultPrefix = "tm:"

// Client is the subset of the go-redis client the backend uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// Backend implements storage.Backend on Redis strings. Values never expire.
type Backend struct {
	client Client
	prefix string
}

// New wraps an existing client.
func New(client Client, prefix string) *Backend {
	return &Backend{client: client, prefix: prefix}
}

// Dial connects to the Redis server at addr and verifies it answers.
func Dial(ctx context.Context, addr string) (*Backend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.NewPersistenceError("connect to redis", addr, err)
	}
	return New(client, DefaultPrefix), nil
}

// Get implements storage.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("redis get", key, err)
	}
	return data, nil
}

// Put implements storage.Backend.
func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.prefix+key, value, 0).Err(); err != nil {
		return apperrors.NewPersistenceError("redis set", key, err)
	}
	return nil
}

// Close implements storage.Backend.
func (b *Backend) Close() error {
	return b.client.Close()
}
