package services

import (
	"slices"
	"strings"

	"task-manager/internal/domain"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct{}

// NewSearchService creates a new SearchService instance
func NewSearchService() SearchService {
	return &searchServiceImpl{}
}

// Filter applies status, priority, tag, keyword and due-date filters in that order.
func (s *searchServiceImpl) Filter(tasks []domain.Task, filters domain.Filters) []domain.Task {
	keyword := strings.ToLower(filters.Keyword)

	result := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if !s.matchesStatus(task, filters) {
			continue
		}
		if !s.matchesPriority(task, filters) {
			continue
		}
		if !s.matchesTags(task, filters.Tags) {
			continue
		}
		if !s.matchesKeyword(task, keyword) {
			continue
		}
		if !s.matchesDateRange(task, filters.DateRange) {
			continue
		}
		result = append(result, task.Clone())
	}
	return result
}

func (s *searchServiceImpl) matchesStatus(task domain.Task, filters domain.Filters) bool {
	return !filters.HasStatus() || task.Status == filters.Status
}

func (s *searchServiceImpl) matchesPriority(task domain.Task, filters domain.Filters) bool {
	return !filters.HasPriority() || task.Priority == filters.Priority
}

// matchesTags is true when the task shares at least one tag with the filter.
// A task without tags never matches a non-empty tag filter.
func (s *searchServiceImpl) matchesTags(task domain.Task, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, tag := range task.Tags {
		if slices.Contains(tags, tag) {
			return true
		}
	}
	return false
}

// matchesKeyword expects an already lower-cased keyword.
func (s *searchServiceImpl) matchesKeyword(task domain.Task, keyword string) bool {
	if keyword == "" {
		return true
	}
	if strings.Contains(strings.ToLower(task.Title), keyword) {
		return true
	}
	return task.HasDescription() && strings.Contains(strings.ToLower(task.Description), keyword)
}

// matchesDateRange lets tasks without a due date through.
func (s *searchServiceImpl) matchesDateRange(task domain.Task, dateRange *domain.DateRange) bool {
	if dateRange == nil || task.DueDate == nil {
		return true
	}
	return dateRange.Contains(*task.DueDate)
}
