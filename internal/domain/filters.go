package domain

// StatusAll and PriorityAll are accepted in filters as "no filter".
const (
	StatusAll   Status   = "all"
	PriorityAll Priority = "all"
)

// DateRange bounds a due date. Either bound may be nil; both are inclusive.
type DateRange struct {
	Start *int64
	End   *int64
}

// Contains reports whether ts lies within the range.
func (r DateRange) Contains(ts int64) bool {
	if r.Start != nil && ts < *r.Start {
		return false
	}
	if r.End != nil && ts > *r.End {
		return false
	}
	return true
}

// Filters describes a query over the task collection.
// Zero values mean the filter is not applied; all applied filters must match.
type Filters struct {
	Status    Status
	Priority  Priority
	Tags      []string
	Keyword   string
	DateRange *DateRange
}

// HasStatus reports whether a status filter is applied.
func (f Filters) HasStatus() bool {
	return f.Status != "" && f.Status != StatusAll
}

// HasPriority reports whether a priority filter is applied.
func (f Filters) HasPriority() bool {
	return f.Priority != "" && f.Priority != PriorityAll
}
