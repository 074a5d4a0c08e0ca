package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/domain"
	apperrors "task-manager/internal/errors"
	"task-manager/internal/logging"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

// Adapter implements Persister on top of a Backend. Read failures degrade to
// an empty collection; write failures are logged and returned as recoverable errors.
type Adapter struct {
	backend      Backend
	key          string
	logger       *zap.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey overrides the key the collection is stored under.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger used to report degraded reads and failed writes.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logging.OrNop(logger)
	}
}

// WithTimeouts bounds each backend read and write. Non-positive values keep the defaults.
func WithTimeouts(read, write time.Duration) Option {
	return func(a *Adapter) {
		if read > 0 {
			a.readTimeout = read
		}
		if write > 0 {
			a.writeTimeout = write
		}
	}
}

// NewAdapter creates an Adapter over backend.
func NewAdapter(backend Backend, opts ...Option) *Adapter {
	a := &Adapter{
		backend:      backend,
		key:          DefaultKey,
		logger:       zap.NewNop(),
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the key the collection is stored under.
func (a *Adapter) Key() string {
	return a.key
}

// Load reads and decodes the stored collection. A missing, unreadable or
// corrupt value yields an empty collection.
func (a *Adapter) Load(ctx context.Context) []domain.Task {
	ctx, cancel := context.WithTimeout(ctx, a.readTimeout)
	defer cancel()

	data, err := a.backend.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			a.logger.Debug("no saved tasks", zap.String("key", a.key))
		} else {
			a.logger.Warn("loading tasks failed, starting empty",
				zap.String("key", a.key), zap.Error(a.wrap(ctx, "load", err)))
		}
		return []domain.Task{}
	}

	tasks, err := Decode(data)
	if err != nil {
		a.logger.Warn("saved tasks are unreadable, starting empty",
			zap.String("key", a.key), zap.Int("bytes", len(data)), zap.Error(err))
		return []domain.Task{}
	}

	a.logger.Debug("loaded tasks", zap.String("key", a.key), zap.Int("count", len(tasks)))
	return tasks
}

// Save encodes and writes the whole collection under the key.
func (a *Adapter) Save(ctx context.Context, tasks []domain.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		a.logger.Error("encoding tasks failed", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.writeTimeout)
	defer cancel()

	if err := a.backend.Put(ctx, a.key, data); err != nil {
		wrapped := a.wrap(ctx, "save", err)
		a.logger.Error("saving tasks failed", zap.String("key", a.key), zap.Error(wrapped))
		return wrapped
	}

	a.logger.Debug("saved tasks", zap.String("key", a.key), zap.Int("count", len(tasks)))
	return nil
}

// LastSaved reports when the collection was last written. It is false when
// nothing is stored yet or the backend does not record write times.
func (a *Adapter) LastSaved(ctx context.Context) (time.Time, bool) {
	ts, ok := a.backend.(Timestamped)
	if !ok {
		return time.Time{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, a.readTimeout)
	defer cancel()

	savedAt, err := ts.UpdatedAt(ctx, a.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Debug("reading save time failed", zap.String("key", a.key), zap.Error(err))
		}
		return time.Time{}, false
	}
	return savedAt, true
}

// Close releases the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}

func (a *Adapter) wrap(ctx context.Context, operation string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		timeout := a.writeTimeout
		if operation == "load" {
			timeout = a.readTimeout
		}
		timeoutErr := apperrors.NewTimeoutError(operation+" tasks", timeout.String()).WithContext("key", a.key)
		timeoutErr.Cause = err
		return timeoutErr
	}
	return apperrors.NewPersistenceError(operation+" tasks", a.key, err)
}
