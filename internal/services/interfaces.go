package services

import (
	"task-manager/internal/domain"
)

// SearchService derives filtered views over a task collection.
// Implementations never modify the collection they are given.
type SearchService interface {
	// Filter returns the tasks matching every applied filter, in their original order.
	Filter(tasks []domain.Task, filters domain.Filters) []domain.Task
}

// ReportingService computes aggregate figures over a task collection.
type ReportingService interface {
	// Stats tallies tasks by status.
	Stats(tasks []domain.Task) domain.Stats
}

// ServiceContainer bundles the derived-view services used by the store.
type ServiceContainer struct {
	SearchService    SearchService
	ReportingService ReportingService
}

// NewServiceContainer creates a container with the default implementations.
func NewServiceContainer() *ServiceContainer {
	return &ServiceContainer{
		SearchService:    NewSearchService(),
		ReportingService: NewReportingService(),
	}
}
