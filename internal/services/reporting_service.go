package services

import (
	"task-manager/internal/domain"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct{}

// NewReportingService creates a new ReportingService instance
func NewReportingService() ReportingService {
	return &reportingServiceImpl{}
}

// Stats tallies tasks by status. Nothing is cached.
func (r *reportingServiceImpl) Stats(tasks []domain.Task) domain.Stats {
	var stats domain.Stats
	for _, task := range tasks {
		switch task.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusCompleted:
			stats.Completed++
		}
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Completed
	return stats
}
