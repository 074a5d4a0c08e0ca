package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestDateRange_Contains(t *testing.T) {
	tests := []struct {
		name     string
		r        DateRange
		ts       int64
		expected bool
	}{
		{name: "open range", r: DateRange{}, ts: 5, expected: true},
		{name: "start bound inclusive", r: DateRange{Start: ptr(5)}, ts: 5, expected: true},
		{name: "before start", r: DateRange{Start: ptr(5)}, ts: 4, expected: false},
		{name: "end bound inclusive", r: DateRange{End: ptr(5)}, ts: 5, expected: true},
		{name: "after end", r: DateRange{End: ptr(5)}, ts: 6, expected: false},
		{name: "epoch start is a real bound", r: DateRange{Start: ptr(0)}, ts: -1, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.r.Contains(tt.ts))
		})
	}
}

func TestFilters_AllSentinel(t *testing.T) {
	assert.False(t, Filters{}.HasStatus())
	assert.False(t, Filters{Status: StatusAll}.HasStatus())
	assert.True(t, Filters{Status: StatusCompleted}.HasStatus())
	assert.False(t, Filters{Priority: PriorityAll}.HasPriority())
	assert.True(t, Filters{Priority: PriorityLow}.HasPriority())
}
