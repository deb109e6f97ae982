package engine

import (
	"fmt"

	"taskflow/internal/service"
)

// All matches every value of a filter dimension.
const All = "all"

// StatusFilter is All or a service.Status.
type StatusFilter string

// PriorityFilter is All or a service.Priority.
type PriorityFilter string

// ParseStatusFilter accepts "", "all", "pending" and "completed".
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || s == All {
		return All, nil
	}
	if !service.Status(s).Valid() {
		return "", fmt.Errorf("%w: status filter %q", service.ErrInvalidField, s)
	}
	return StatusFilter(s), nil
}

// ParsePriorityFilter accepts "", "all", "low", "medium" and "high".
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	if s == "" || s == All {
		return All, nil
	}
	if !service.Priority(s).Valid() {
		return "", fmt.Errorf("%w: priority filter %q", service.ErrInvalidField, s)
	}
	return PriorityFilter(s), nil
}

// Filter holds the two independent view criteria. Empty fields mean All.
type Filter struct {
	Status   StatusFilter
	Priority PriorityFilter
}

// Match reports whether t passes both criteria.
func (f Filter) Match(t service.Task) bool {
	statusOK := f.Status == "" || f.Status == All || service.Status(f.Status) == t.Status
	priorityOK := f.Priority == "" || f.Priority == All || service.Priority(f.Priority) == t.Priority
	return statusOK && priorityOK
}

// Project returns the tasks that match f, in their original order. The
// input is not modified.
func Project(tasks []service.Task, f Filter) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
