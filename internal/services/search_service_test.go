package services

import (
	"testing"

	"task-manager/internal/domain"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: "1", Title: "Buy milk", Status: domain.StatusPending, Priority: domain.PriorityLow, Tags: []string{"home", "errand"}},
		{ID: "2", Title: "Write report", Description: "Quarterly MILK sales", Status: domain.StatusInProgress, Priority: domain.PriorityHigh, Tags: []string{"work"}, DueDate: int64Ptr(2000)},
		{ID: "3", Title: "Call plumber", Status: domain.StatusCompleted, Priority: domain.PriorityMedium, DueDate: int64Ptr(500)},
		{ID: "4", Title: "Plan trip", Description: "book hotel", Status: domain.StatusPending, Priority: domain.PriorityHigh, Tags: []string{"home"}, DueDate: int64Ptr(1000)},
	}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestSearchService_Filter(t *testing.T) {
	tests := []struct {
		name     string
		filters  domain.Filters
		expected []string
	}{
		{
			name:     "no filters returns everything in order",
			filters:  domain.Filters{},
			expected: []string{"1", "2", "3", "4"},
		},
		{
			name:     "status filter",
			filters:  domain.Filters{Status: domain.StatusPending},
			expected: []string{"1", "4"},
		},
		{
			name:     "status all is no filter",
			filters:  domain.Filters{Status: domain.StatusAll, Priority: domain.PriorityAll},
			expected: []string{"1", "2", "3", "4"},
		},
		{
			name:     "priority filter",
			filters:  domain.Filters{Priority: domain.PriorityHigh},
			expected: []string{"2", "4"},
		},
		{
			name:     "tag filter matches any",
			filters:  domain.Filters{Tags: []string{"work", "errand"}},
			expected: []string{"1", "2"},
		},
		{
			name:     "tasks without tags never match a tag filter",
			filters:  domain.Filters{Tags: []string{"home", "work", "errand"}},
			expected: []string{"1", "2", "4"},
		},
		{
			name:     "keyword matches title or description case-insensitively",
			filters:  domain.Filters{Keyword: "Milk"},
			expected: []string{"1", "2"},
		},
		{
			name:     "keyword matches description only",
			filters:  domain.Filters{Keyword: "HOTEL"},
			expected: []string{"4"},
		},
		{
			name:     "date range keeps tasks without due date",
			filters:  domain.Filters{DateRange: &domain.DateRange{Start: int64Ptr(600), End: int64Ptr(1500)}},
			expected: []string{"1", "4"},
		},
		{
			name:     "date range bounds are inclusive",
			filters:  domain.Filters{DateRange: &domain.DateRange{Start: int64Ptr(500), End: int64Ptr(2000)}},
			expected: []string{"1", "2", "3", "4"},
		},
		{
			name:     "open-ended date range",
			filters:  domain.Filters{DateRange: &domain.DateRange{End: int64Ptr(999)}},
			expected: []string{"1", "3"},
		},
		{
			name:     "filters combine conjunctively",
			filters:  domain.Filters{Status: domain.StatusPending, Priority: domain.PriorityHigh, Keyword: "trip"},
			expected: []string{"4"},
		},
		{
			name:     "no match",
			filters:  domain.Filters{Status: domain.StatusCompleted, Tags: []string{"home"}},
			expected: []string{},
		},
	}

	service := NewSearchService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.Filter(sampleTasks(), tt.filters)
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestSearchService_FilterDoesNotMutateInput(t *testing.T) {
	service := NewSearchService()
	tasks := sampleTasks()
	before := sampleTasks()

	result := service.Filter(tasks, domain.Filters{Tags: []string{"home"}, Keyword: "a"})
	for i := range result {
		result[i].Title = "changed"
		if len(result[i].Tags) > 0 {
			result[i].Tags[0] = "changed"
		}
	}

	assert.Equal(t, before, tasks)
}

func TestSearchService_FilterEmptyCollection(t *testing.T) {
	result := NewSearchService().Filter(nil, domain.Filters{Status: domain.StatusCompleted})

	assert.NotNil(t, result)
	assert.Empty(t, result)
}
