// Package storage persists the task collection as a single blob under one key
// of a durable key-value backend.
package storage

import (
	"context"
	"errors"
	"time"

	"task-manager/internal/domain"
)

// DefaultKey is the key the task collection is stored under.
const DefaultKey = "task-manager-storage"

// ErrNotFound is returned by a Backend when no value exists for a key.
var ErrNotFound = errors.New("storage: key not found")

// Persister is the save/load contract the task store depends on.
type Persister interface {
	// Load returns the previously saved collection, or an empty one if nothing
	// usable is stored. It never fails.
	Load(ctx context.Context) []domain.Task
	// Save overwrites the stored collection. A returned error is recoverable.
	Save(ctx context.Context, tasks []domain.Task) error
}

// Backend is a durable byte-oriented key-value store.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Timestamped is implemented by backends that record when a key was last written.
type Timestamped interface {
	// UpdatedAt returns the time of the last Put under key, or ErrNotFound.
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// SaveTimer is implemented by persisters that know when the collection was last written.
type SaveTimer interface {
	LastSaved(ctx context.Context) (time.Time, bool)
}

// unavailable stands in for storage that could not be opened.
type unavailable struct {
	err error
}

// Unavailable returns a Persister for storage that failed to open. Load yields
// an empty collection and every Save returns err.
func Unavailable(err error) Persister {
	return unavailable{err: err}
}

func (u unavailable) Load(context.Context) []domain.Task {
	return []domain.Task{}
}

func (u unavailable) Save(context.Context, []domain.Task) error {
	return u.err
}
