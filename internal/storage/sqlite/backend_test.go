package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestBackend_GetMissingKey(t *testing.T) {
	backend := setupTestBackend(t)

	value, err := backend.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Nil(t, value)
}

func TestBackend_PutThenGet(t *testing.T) {
	backend := setupTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "k", []byte("first")))
	require.NoError(t, backend.Put(ctx, "k", []byte("second")))
	require.NoError(t, backend.Put(ctx, "other", []byte("x")))

	value, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)
}

func TestBackend_EntryRecordsWriteTime(t *testing.T) {
	backend := setupTestBackend(t)
	written := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return written }
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "k", []byte("v")))

	entry, err := backend.Entry(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "k", entry.Key)
	assert.True(t, written.Equal(entry.UpdatedAt))
}

func TestBackend_UpdatedAt(t *testing.T) {
	backend := setupTestBackend(t)
	ctx := context.Background()

	_, err := backend.UpdatedAt(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	written := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return written }
	require.NoError(t, backend.Put(ctx, "k", []byte("v")))

	updated, err := backend.UpdatedAt(ctx, "k")
	require.NoError(t, err)
	assert.True(t, written.Equal(updated))

	var _ storage.Timestamped = backend
}

func TestBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tm.db")
	ctx := context.Background()

	first, err := New(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, storage.DefaultKey, []byte(`{"tasks":[]}`)))
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err)
	defer second.Close()

	value, err := second.Get(ctx, storage.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[]}`, string(value))
}

func TestBackend_CancelledContext(t *testing.T) {
	backend := setupTestBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, backend.Put(ctx, "k", []byte("v")))
}

func TestBackend_WithAdapter(t *testing.T) {
	backend := setupTestBackend(t)
	adapter := storage.NewAdapter(backend)
	ctx := context.Background()
	due := int64(1_700_000_000_000)

	tasks := []domain.Task{
		{ID: "a", Title: "Buy milk", Status: domain.StatusPending, Priority: domain.PriorityMedium, CreatedAt: 1000, UpdatedAt: 1000},
		{ID: "b", Title: "Ship", Description: "release", Status: domain.StatusCompleted, Priority: domain.PriorityHigh,
			Tags: []string{"work"}, CreatedAt: 2000, UpdatedAt: 3000, DueDate: &due},
	}

	require.NoError(t, adapter.Save(ctx, tasks))
	assert.Equal(t, tasks, adapter.Load(ctx))
}
