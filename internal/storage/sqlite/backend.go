// Package sqlite is the default durable storage backend: a single key-value
// table in a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"task-manager/internal/logging"
	"task-manager/internal/storage/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Backend implements storage.Backend on a SQLite database.
type Backend struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the database at dbPath and applies pending migrations.
func New(dbPath string) (*Backend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, HandleDatabaseError("open database", dbPath, err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, HandleDatabaseError("run migrations", dbPath, err)
	}
	if versions, err := migrations.AppliedVersions(db); err == nil {
		logging.Debugf("sqlite schema at %s: versions %v", dbPath, versions)
	}

	return &Backend{db: db, now: time.Now}, nil
}

// Get returns the value stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT key, value, updated_at FROM kv_store WHERE key = ?`

	entry, err := QuerySingle(ctx, b.db, query, ScanEntry, key)
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// Put upserts value under key.
func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	return ExecuteWithRowsAffected(ctx, b.db, query, key, key, value, FormatTimeForDB(b.now()))
}

// Entry returns the stored row for key, including when it was last written.
func (b *Backend) Entry(ctx context.Context, key string) (*Entry, error) {
	query := `SELECT key, value, updated_at FROM kv_store WHERE key = ?`
	return QuerySingle(ctx, b.db, query, ScanEntry, key)
}

// UpdatedAt implements storage.Timestamped.
func (b *Backend) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	entry, err := b.Entry(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	return entry.UpdatedAt, nil
}

// Close closes the database connection
func (b *Backend) Close() error {
	return b.db.Close()
}
