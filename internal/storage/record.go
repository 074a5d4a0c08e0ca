package storage

import (
	"fmt"
	"slices"

	"task-manager/internal/domain"
)

// snapshot is the persisted envelope: {"tasks":[...]}.
type snapshot struct {
	Tasks []taskRecord `json:"tasks"`
}

// taskRecord is the wire form of a task. Enums travel as their string tags
// and timestamps as integer milliseconds.
type taskRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Tags        *[]string `json:"tags,omitempty"`
	CreatedAt   *int64    `json:"createdAt"`
	UpdatedAt   *int64    `json:"updatedAt"`
	DueDate     *int64    `json:"dueDate,omitempty"`
}

// toRecord converts a domain task to its wire form.
func toRecord(task domain.Task) taskRecord {
	createdAt, updatedAt := task.CreatedAt, task.UpdatedAt
	record := taskRecord{
		ID:        task.ID,
		Title:     task.Title,
		Status:    string(task.Status),
		Priority:  string(task.Priority),
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}
	if task.Tags != nil {
		tags := slices.Clone(task.Tags)
		record.Tags = &tags
	}
	if task.HasDescription() {
		description := task.Description
		record.Description = &description
	}
	if task.DueDate != nil {
		due := *task.DueDate
		record.DueDate = &due
	}
	return record
}

// fromRecord converts a wire record back to a domain task, rejecting records
// that break the task field contract.
func fromRecord(record taskRecord) (domain.Task, error) {
	if record.ID == "" {
		return domain.Task{}, fmt.Errorf("task record without id")
	}
	status, err := domain.ParseStatus(record.Status)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: %w", record.ID, err)
	}
	priority, err := domain.ParsePriority(record.Priority)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: %w", record.ID, err)
	}
	if record.CreatedAt == nil || record.UpdatedAt == nil {
		return domain.Task{}, fmt.Errorf("task %s: missing timestamps", record.ID)
	}
	if *record.UpdatedAt < *record.CreatedAt {
		return domain.Task{}, fmt.Errorf("task %s: updatedAt before createdAt", record.ID)
	}

	task := domain.Task{
		ID:        record.ID,
		Title:     record.Title,
		Status:    status,
		Priority:  priority,
		CreatedAt: *record.CreatedAt,
		UpdatedAt: *record.UpdatedAt,
	}
	if record.Description != nil {
		task.Description = *record.Description
	}
	if record.Tags != nil {
		task.Tags = slices.Clone(*record.Tags)
	}
	if record.DueDate != nil {
		due := *record.DueDate
		task.DueDate = &due
	}
	return task, nil
}
