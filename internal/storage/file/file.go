// Package file stores each key as a JSON document in a directory.
package file

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	apperrors "task-manager/internal/errors"
	"task-manager/internal/storage"
)

// Backend writes one file per key under Dir.
type Backend struct {
	dir  string
	perm os.FileMode
}

// New creates the directory if needed and returns a Backend rooted at it.
func New(dir string, perm os.FileMode) (*Backend, error) {
	if perm == 0 {
		perm = 0o755
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return nil, apperrors.NewPersistenceError("create storage directory", dir, err)
	}
	return &Backend{dir: dir, perm: perm}, nil
}

// Path returns the file that holds key.
func (b *Backend) Path(key string) string {
	return filepath.Join(b.dir, url.PathEscape(key)+".json")
}

// Get implements storage.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("read file", key, err)
	}
	return data, nil
}

// Put writes value to a temporary file and renames it over the key's file,
// so readers see either the old or the new document.
func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, ".tm-*.tmp")
	if err != nil {
		return apperrors.NewPersistenceError("create temp file", key, err)
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return apperrors.NewPersistenceError("write temp file", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewPersistenceError("sync temp file", key, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewPersistenceError("close temp file", key, err)
	}
	if err := os.Rename(tmpName, b.Path(key)); err != nil {
		return apperrors.NewPersistenceError("replace file", key, err)
	}
	renamed = true
	return nil
}

// UpdatedAt implements storage.Timestamped using the file's modification time.
func (b *Backend) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(b.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, storage.ErrNotFound
	}
	if err != nil {
		return time.Time{}, apperrors.NewPersistenceError("stat file", key, err)
	}
	return info.ModTime(), nil
}

// Close implements storage.Backend.
func (b *Backend) Close() error {
	return nil
}
