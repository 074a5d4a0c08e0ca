package domain

// Stats holds status tallies over a task collection.
// Total always equals Pending + InProgress + Completed.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}
