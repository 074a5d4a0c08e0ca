package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"task-manager/internal/domain"
	apperrors "task-manager/internal/errors"
	"task-manager/internal/storage"
	"task-manager/internal/storage/memory"
)

// fakeClock advances by step on every reading.
type fakeClock struct {
	current time.Time
	step    time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.current = c.current.Add(c.step)
	return c.current
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *memory.Backend) {
	t.Helper()
	backend := memory.New()
	clock := &fakeClock{current: time.UnixMilli(1_700_000_000_000), step: time.Millisecond}
	opts = append([]Option{WithClock(clock.Now), WithIDGenerator(sequentialIDs())}, opts...)
	return New(storage.NewAdapter(backend), opts...), backend
}

func strPtr(s string) *string { return &s }

func TestStore_BuyMilkScenario(t *testing.T) {
	s, _ := newTestStore(t)

	fields := domain.TaskFields{Title: "Buy milk", Priority: domain.PriorityLow}
	a := s.Create(fields)
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, domain.Stats{Total: 1, Pending: 1}, s.Stats())

	require.True(t, s.ToggleStatus(a.ID))
	got, ok := s.GetByID(a.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, domain.Stats{Total: 1, InProgress: 1}, s.Stats())

	assert.Empty(t, s.Filter(domain.Filters{Status: domain.StatusCompleted}))

	assert.True(t, s.Delete(a.ID))
	assert.Equal(t, domain.Stats{}, s.Stats())
}

func TestStore_Create(t *testing.T) {
	s, backend := newTestStore(t)
	due := int64(0)
	tags := []string{"home", "home", "errand"}

	task := s.Create(domain.TaskFields{
		Title:       "Buy milk",
		Description: "semi-skimmed",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityHigh,
		Tags:        tags,
		DueDate:     &due,
	})

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, []string{"home", "home", "errand"}, task.Tags)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, int64(0), *task.DueDate)

	tags[0] = "changed"
	due = 99
	stored, _ := s.GetByID(task.ID)
	assert.Equal(t, "home", stored.Tags[0], "caller slices must not alias store state")
	assert.Equal(t, int64(0), *stored.DueDate)

	assert.Equal(t, 1, backend.Puts())
}

func TestStore_CreateDefaults(t *testing.T) {
	tests := []struct {
		name             string
		fields           domain.TaskFields
		expectedStatus   domain.Status
		expectedPriority domain.Priority
	}{
		{"empty enums", domain.TaskFields{Title: "a"}, domain.StatusPending, domain.PriorityMedium},
		{"unknown enums", domain.TaskFields{Title: "a", Status: "done", Priority: "urgent"}, domain.StatusPending, domain.PriorityMedium},
		{"explicit enums", domain.TaskFields{Title: "a", Status: domain.StatusCompleted, Priority: domain.PriorityLow}, domain.StatusCompleted, domain.PriorityLow},
		{"NewTaskFields", domain.NewTaskFields("a"), domain.StatusPending, domain.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			task := s.Create(tt.fields)
			assert.Equal(t, tt.expectedStatus, task.Status)
			assert.Equal(t, tt.expectedPriority, task.Priority)
		})
	}
}

func TestStore_CreateAppendsInOrder(t *testing.T) {
	s, _ := newTestStore(t)
	for _, title := range []string{"one", "two", "three"} {
		s.Create(domain.NewTaskFields(title))
	}

	var titles []string
	for _, task := range s.Tasks() {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"one", "two", "three"}, titles)
}

func TestStore_CreateRegeneratesDuplicateIDs(t *testing.T) {
	s, _ := newTestStore(t, WithIDGenerator(func() string { return "same" }))

	first := s.Create(domain.NewTaskFields("a"))
	second := s.Create(domain.NewTaskFields("b"))

	assert.Equal(t, "same", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEmpty(t, second.ID)
}

func TestStore_Update(t *testing.T) {
	s, backend := newTestStore(t)
	original := s.Create(domain.TaskFields{Title: "draft", Tags: []string{"x"}})
	high := domain.PriorityHigh

	updated, ok := s.Update(original.ID, domain.TaskPatch{Title: strPtr("final"), Priority: &high})

	require.True(t, ok)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, []string{"x"}, updated.Tags)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, original.UpdatedAt)
	assert.Equal(t, 2, backend.Puts())
}

func TestStore_UpdateMissing(t *testing.T) {
	s, backend := newTestStore(t)
	s.Create(domain.NewTaskFields("a"))
	before := s.Tasks()

	task, ok := s.Update("nope", domain.TaskPatch{Title: strPtr("b")})

	assert.False(t, ok)
	assert.Equal(t, domain.Task{}, task)
	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, 1, backend.Puts(), "a miss must not persist")
}

func TestStore_UpdateKeepsPosition(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.Create(domain.NewTaskFields("a"))
	b := s.Create(domain.NewTaskFields("b"))
	c := s.Create(domain.NewTaskFields("c"))

	_, ok := s.Update(b.ID, domain.TaskPatch{Title: strPtr("B")})
	require.True(t, ok)

	tasks := s.Tasks()
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	assert.Equal(t, "B", tasks[1].Title)
}

func TestStore_UpdatedAtNeverGoesBackwards(t *testing.T) {
	current := time.UnixMilli(5_000)
	s, _ := newTestStore(t, WithClock(func() time.Time { return current }))
	task := s.Create(domain.NewTaskFields("a"))

	current = time.UnixMilli(1_000)
	updated, ok := s.Update(task.ID, domain.TaskPatch{Title: strPtr("b")})

	require.True(t, ok)
	assert.Equal(t, int64(5_000), updated.UpdatedAt)
	assert.GreaterOrEqual(t, updated.UpdatedAt, updated.CreatedAt)
}

func TestStore_Delete(t *testing.T) {
	s, backend := newTestStore(t)
	a := s.Create(domain.NewTaskFields("a"))
	s.Create(domain.NewTaskFields("b"))

	assert.False(t, s.Delete("missing"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, backend.Puts())

	assert.True(t, s.Delete(a.ID))
	assert.Equal(t, 1, s.Len())
	_, ok := s.GetByID(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 3, backend.Puts())

	assert.False(t, s.Delete(a.ID))
}

func TestStore_ToggleStatus(t *testing.T) {
	s, _ := newTestStore(t)
	task := s.Create(domain.NewTaskFields("a"))

	var seen []domain.Status
	for range 3 {
		require.True(t, s.ToggleStatus(task.ID))
		got, _ := s.GetByID(task.ID)
		seen = append(seen, got.Status)
	}

	assert.Equal(t, []domain.Status{domain.StatusInProgress, domain.StatusCompleted, domain.StatusPending}, seen)
	assert.False(t, s.ToggleStatus("missing"))
}

func TestStore_ToggleRefreshesUpdatedAt(t *testing.T) {
	s, _ := newTestStore(t)
	task := s.Create(domain.TaskFields{Title: "a", Status: domain.StatusInProgress})

	require.True(t, s.ToggleStatus(task.ID))

	got, _ := s.GetByID(task.ID)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Greater(t, got.UpdatedAt, task.UpdatedAt)
}

func TestStore_ReturnedTasksAreCopies(t *testing.T) {
	s, _ := newTestStore(t)
	task := s.Create(domain.TaskFields{Title: "a", Tags: []string{"x"}})

	task.Tags[0] = "mutated"
	got, _ := s.GetByID(task.ID)
	got.Title = "mutated"
	s.Tasks()[0].Tags[0] = "mutated"
	s.Filter(domain.Filters{})[0].Tags[0] = "mutated"

	again, _ := s.GetByID(task.ID)
	assert.Equal(t, "a", again.Title)
	assert.Equal(t, []string{"x"}, again.Tags)
}

func TestStore_FilterDoesNotMutate(t *testing.T) {
	s, _ := newTestStore(t)
	s.Create(domain.TaskFields{Title: "Write report", Tags: []string{"work"}})
	s.Create(domain.TaskFields{Title: "Buy milk", Priority: domain.PriorityLow})
	before := s.Tasks()

	filtered := s.Filter(domain.Filters{Keyword: "REPORT"})

	require.Len(t, filtered, 1)
	assert.Equal(t, "Write report", filtered[0].Title)
	assert.Equal(t, before, s.Tasks())
}

func TestStore_RandomOperationsKeepInvariants(t *testing.T) {
	s, _ := newTestStore(t, WithIDGenerator(func() string { return "fixed" }))
	rng := rand.New(rand.NewSource(42))
	created := map[string]int64{}

	for i := 0; i < 300; i++ {
		tasks := s.Tasks()
		switch op := rng.Intn(4); {
		case op == 0 || len(tasks) == 0:
			task := s.Create(domain.NewTaskFields(fmt.Sprintf("t%d", i)))
			created[task.ID] = task.CreatedAt
		case op == 1:
			target := tasks[rng.Intn(len(tasks))]
			updated, ok := s.Update(target.ID, domain.TaskPatch{Title: strPtr("u")})
			require.True(t, ok)
			assert.GreaterOrEqual(t, updated.UpdatedAt, target.UpdatedAt)
		case op == 2:
			require.True(t, s.ToggleStatus(tasks[rng.Intn(len(tasks))].ID))
		default:
			target := tasks[rng.Intn(len(tasks))]
			require.True(t, s.Delete(target.ID))
			assert.Equal(t, len(tasks)-1, s.Len())
		}

		ids := map[string]bool{}
		for _, task := range s.Tasks() {
			assert.False(t, ids[task.ID], "duplicate id %s", task.ID)
			ids[task.ID] = true
			assert.Equal(t, created[task.ID], task.CreatedAt)
			assert.GreaterOrEqual(t, task.UpdatedAt, task.CreatedAt)
		}
		stats := s.Stats()
		assert.Equal(t, s.Len(), stats.Total)
		assert.Equal(t, stats.Total, stats.Pending+stats.InProgress+stats.Completed)
	}
}

func TestStore_LoadsSavedCollection(t *testing.T) {
	backend := memory.New()
	first := New(storage.NewAdapter(backend))
	a := first.Create(domain.TaskFields{Title: "a", Tags: []string{"x"}})
	b := first.Create(domain.NewTaskFields("b"))
	first.ToggleStatus(b.ID)

	second := New(storage.NewAdapter(backend))

	assert.Equal(t, first.Tasks(), second.Tasks())
	got, ok := second.GetByID(a.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestStore_StartsEmptyOnCorruptData(t *testing.T) {
	backend := memory.New()
	backend.Set(storage.DefaultKey, []byte(`{"tasks":[{"id":"a","status":"bogus"}]}`))

	s := New(storage.NewAdapter(backend))

	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Tasks())
}

func TestStore_PersistFailureKeepsMemory(t *testing.T) {
	backend := memory.New()
	backend.PutErr = errors.New("quota exceeded")
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(storage.NewAdapter(backend), WithLogger(zap.New(core)))

	var failures []Event
	s.Subscribe(func(e Event) {
		if e.Type == EventPersistFailed {
			failures = append(failures, e)
		}
	})

	task := s.Create(domain.NewTaskFields("a"))

	require.Error(t, s.LastPersistError())
	_, ok := s.GetByID(task.ID)
	assert.True(t, ok)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].Err, backend.PutErr)
	assert.Equal(t, 1, logs.FilterMessage("changes kept in memory only").Len())

	backend.PutErr = nil
	require.True(t, s.ToggleStatus(task.ID))
	assert.NoError(t, s.LastPersistError())

	raw, ok := backend.Raw(storage.DefaultKey)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"in-progress"`)
}

func TestStore_WorksWithoutAnyStorage(t *testing.T) {
	backend := memory.New()
	backend.GetErr = errors.New("storage disabled")
	backend.PutErr = errors.New("storage disabled")
	s := New(storage.NewAdapter(backend))

	task := s.Create(domain.NewTaskFields("a"))
	assert.True(t, s.ToggleStatus(task.ID))
	assert.Equal(t, domain.Stats{Total: 1, InProgress: 1}, s.Stats())
	assert.True(t, s.Delete(task.ID))
}

type recordingPersister struct {
	saved [][]domain.Task
}

func (p *recordingPersister) Load(context.Context) []domain.Task { return nil }

func (p *recordingPersister) Save(_ context.Context, tasks []domain.Task) error {
	p.saved = append(p.saved, tasks)
	return nil
}

func TestStore_SavesFullCollectionOnEveryMutation(t *testing.T) {
	p := &recordingPersister{}
	s := New(p, WithIDGenerator(sequentialIDs()))

	a := s.Create(domain.NewTaskFields("a"))
	s.Create(domain.NewTaskFields("b"))
	s.Update(a.ID, domain.TaskPatch{Title: strPtr("A")})
	s.ToggleStatus(a.ID)
	s.Delete(a.ID)
	s.GetByID("task-2")
	s.Filter(domain.Filters{})
	s.Stats()

	require.Len(t, p.saved, 5)
	assert.Len(t, p.saved[1], 2)
	assert.Equal(t, "A", p.saved[2][0].Title)
	assert.Len(t, p.saved[4], 1)
	assert.Equal(t, "task-2", p.saved[4][0].ID)
	assert.NotNil(t, s.Tasks(), "nil load result must become an empty collection")
}

func TestStore_LastSaved(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok := s.LastSaved()
	assert.False(t, ok, "nothing written yet")

	s.Create(domain.NewTaskFields("a"))
	_, ok = s.LastSaved()
	assert.True(t, ok)

	_, ok = New(&recordingPersister{}).LastSaved()
	assert.False(t, ok, "persister without write times")
}

func TestStore_UnavailableStorage(t *testing.T) {
	openErr := apperrors.WrapError(errors.New("connection refused"), apperrors.ErrorTypeUnavailable, "storage unavailable")
	s := New(storage.Unavailable(openErr))

	assert.Zero(t, s.Len())
	task := s.Create(domain.NewTaskFields("kept in memory"))
	assert.ErrorIs(t, s.LastPersistError(), openErr)

	got, ok := s.GetByID(task.ID)
	require.True(t, ok)
	assert.Equal(t, "kept in memory", got.Title)
}
