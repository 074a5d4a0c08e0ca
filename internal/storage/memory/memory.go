// Package memory provides a non-durable storage backend for tests and
// throwaway sessions, with hooks for injecting failures.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"task-manager/internal/storage"
)

// Backend keeps values in a map.
type Backend struct {
	mu      sync.Mutex
	values  map[string][]byte
	updated map[string]time.Time
	puts    int
	now     func() time.Time

	// GetErr and PutErr, when set, are returned instead of touching the map.
	GetErr error
	PutErr error
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{
		values:  make(map[string][]byte),
		updated: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Get implements storage.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.GetErr != nil {
		return nil, b.GetErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, ok := b.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return slices.Clone(value), nil
}

// Put implements storage.Backend.
func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.PutErr != nil {
		return b.PutErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.values[key] = slices.Clone(value)
	b.updated[key] = b.now()
	b.puts++
	return nil
}

// UpdatedAt implements storage.Timestamped.
func (b *Backend) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.GetErr != nil {
		return time.Time{}, b.GetErr
	}
	updated, ok := b.updated[key]
	if !ok {
		return time.Time{}, storage.ErrNotFound
	}
	return updated, nil
}

// Close implements storage.Backend.
func (b *Backend) Close() error {
	return nil
}

// Set stores raw bytes under key, bypassing failure injection. Tests use it
// to plant corrupt data.
func (b *Backend) Set(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = slices.Clone(value)
	b.updated[key] = b.now()
}

// Raw returns the bytes stored under key.
func (b *Backend) Raw(key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.values[key]
	return slices.Clone(value), ok
}

// Puts returns the number of successful writes.
func (b *Backend) Puts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts
}
