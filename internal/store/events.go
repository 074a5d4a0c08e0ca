package store

import "task-manager/internal/domain"

// EventType identifies what changed in the store.
type EventType string

const (
	EventCreated       EventType = "created"
	EventUpdated       EventType = "updated"
	EventDeleted       EventType = "deleted"
	EventPersistFailed EventType = "persist_failed"
)

// Event is delivered to subscribers after each change. Task is a copy of the
// affected task (the removed task for EventDeleted); Err is set only for
// EventPersistFailed.
type Event struct {
	Type EventType
	Task domain.Task
	Err  error
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to be called synchronously, in registration order,
// after every change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publish(event Event) {
	for _, sub := range s.subscribers {
		sub.fn(event)
	}
}
