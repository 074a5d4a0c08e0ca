// Package store owns the ordered in-memory task collection and mirrors every
// change to a storage.Persister.
//
// A Store is not safe for concurrent use. Create one per process and pass it
// to whatever needs it.
package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-manager/internal/domain"
	"task-manager/internal/logging"
	"task-manager/internal/services"
	"task-manager/internal/storage"
)

// Store is the authoritative task collection.
type Store struct {
	tasks     []domain.Task
	persister storage.Persister
	services  *services.ServiceContainer
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	subscribers    []subscriber
	nextSubID      int
	lastPersistErr error
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new task IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logging.OrNop(logger)
	}
}

// WithServices replaces the filter and stats implementations.
func WithServices(container *services.ServiceContainer) Option {
	return func(s *Store) {
		if container != nil {
			s.services = container
		}
	}
}

// New creates a Store and loads the previously saved collection from persister.
func New(persister storage.Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		services:  services.NewServiceContainer(),
		logger:    zap.NewNop(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tasks = persister.Load(context.Background())
	if s.tasks == nil {
		s.tasks = []domain.Task{}
	}
	s.logger.Debug("store ready", zap.Int("tasks", len(s.tasks)))
	return s
}

// Create appends a new task built from fields and returns it. An empty or
// unknown status becomes pending and an empty or unknown priority becomes medium.
func (s *Store) Create(fields domain.TaskFields) domain.Task {
	now := s.nowMillis()

	task := domain.Task{
		ID:          s.uniqueID(),
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Priority:    fields.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !task.Status.IsValid() {
		task.Status = domain.StatusPending
	}
	if !task.Priority.IsValid() {
		task.Priority = domain.PriorityMedium
	}
	if len(fields.Tags) > 0 {
		task.Tags = slices.Clone(fields.Tags)
	}
	if fields.DueDate != nil {
		due := *fields.DueDate
		task.DueDate = &due
	}

	s.tasks = append(s.tasks, task)
	s.publish(Event{Type: EventCreated, Task: task.Clone()})
	s.persist()
	return task.Clone()
}

// Update merges patch over the task with the given id. It reports false, and
// changes nothing, when no such task exists.
func (s *Store) Update(id string, patch domain.TaskPatch) (domain.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}

	prev := s.tasks[i]
	updated := patch.Apply(prev)
	updated.UpdatedAt = max(s.nowMillis(), prev.UpdatedAt)

	s.tasks[i] = updated
	s.publish(Event{Type: EventUpdated, Task: updated.Clone()})
	s.persist()
	return updated.Clone(), true
}

// Delete removes the task with the given id and reports whether it existed.
func (s *Store) Delete(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	removed := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.publish(Event{Type: EventDeleted, Task: removed})
	s.persist()
	return true
}

// ToggleStatus advances the task's status along
// pending -> in-progress -> completed -> pending.
func (s *Store) ToggleStatus(id string) bool {
	task, ok := s.GetByID(id)
	if !ok {
		return false
	}
	next := task.Status.Next()
	_, ok = s.Update(id, domain.TaskPatch{Status: &next})
	return ok
}

// GetByID returns a copy of the task with the given id.
func (s *Store) GetByID(id string) (domain.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Tasks returns a copy of the whole collection in insertion order.
func (s *Store) Tasks() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	for i, task := range s.tasks {
		out[i] = task.Clone()
	}
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Filter returns the tasks matching filters, in collection order.
func (s *Store) Filter(filters domain.Filters) []domain.Task {
	return s.services.SearchService.Filter(s.tasks, filters)
}

// Stats tallies the collection by status.
func (s *Store) Stats() domain.Stats {
	return s.services.ReportingService.Stats(s.tasks)
}

// LastPersistError returns the error from the most recent save, or nil if it succeeded.
func (s *Store) LastPersistError() error {
	return s.lastPersistErr
}

// LastSaved reports when the collection was last written to storage. It is
// false when nothing has been saved or the storage does not track write times.
func (s *Store) LastSaved() (time.Time, bool) {
	timer, ok := s.persister.(storage.SaveTimer)
	if !ok {
		return time.Time{}, false
	}
	return timer.LastSaved(context.Background())
}

func (s *Store) persist() {
	err := s.persister.Save(context.Background(), s.Tasks())
	s.lastPersistErr = err
	if err == nil {
		return
	}

	s.logger.Warn("changes kept in memory only", zap.Int("tasks", len(s.tasks)), zap.Error(err))
	s.publish(Event{Type: EventPersistFailed, Err: err})
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

// uniqueID draws from the configured generator and falls back to a random UUID
// if the generator repeats an ID already in the collection.
func (s *Store) uniqueID() string {
	id := s.newID()
	for id == "" || s.indexOf(id) >= 0 {
		id = uuid.NewString()
	}
	return id
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}
