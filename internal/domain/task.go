package domain

import (
	"fmt"
	"slices"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in toggle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

// Next returns the status that follows s in the cycle
// pending -> in-progress -> completed -> pending.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// ParseStatus converts a string tag into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// Priority is the relative importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	return slices.Contains(Priorities, p)
}

// ParsePriority converts a string tag into a Priority.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(s)
	if !priority.IsValid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return priority, nil
}

// Task is a single tracked task. Timestamps are milliseconds since the Unix epoch.
// An empty Description means no description; a nil DueDate means no due date.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
	DueDate     *int64   `json:"dueDate,omitempty"`
}

// Clone returns a deep copy of the task so the copy shares no slices or pointers.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = slices.Clone(t.Tags)
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return c
}

// HasDescription reports whether the task carries a description.
func (t Task) HasDescription() bool {
	return t.Description != ""
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// TaskFields holds the caller-supplied attributes of a new task.
// ID and timestamps are assigned by the store.
type TaskFields struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Tags        []string
	DueDate     *int64
}

// NewTaskFields creates fields for a task with the given title and default status and priority.
func NewTaskFields(title string) TaskFields {
	return TaskFields{
		Title:    title,
		Status:   StatusPending,
		Priority: PriorityMedium,
	}
}

// TaskPatch is a partial update. Nil fields are left unchanged.
// A pointer to an empty description or an empty tag slice clears the field;
// ClearDueDate removes the due date and wins over DueDate.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	Tags         *[]string
	DueDate      *int64
	ClearDueDate bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.Tags == nil && p.DueDate == nil && !p.ClearDueDate
}

// Apply returns a copy of t with the patch merged over it. ID, CreatedAt and
// UpdatedAt are never touched, and unknown status or priority values are ignored.
func (p TaskPatch) Apply(t Task) Task {
	merged := t.Clone()
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.Status != nil && p.Status.IsValid() {
		merged.Status = *p.Status
	}
	if p.Priority != nil && p.Priority.IsValid() {
		merged.Priority = *p.Priority
	}
	if p.Tags != nil {
		if len(*p.Tags) == 0 {
			merged.Tags = nil
		} else {
			merged.Tags = slices.Clone(*p.Tags)
		}
	}
	if p.DueDate != nil {
		due := *p.DueDate
		merged.DueDate = &due
	}
	if p.ClearDueDate {
		merged.DueDate = nil
	}
	return merged
}
