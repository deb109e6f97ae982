// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"fmt"
	"time"
)

// TaskID is the server-assigned task identifier.
type TaskID string

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// ParseStatus parses a status name.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: status %q", ErrInvalidField, s)
	}
	return st, nil
}

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority parses a priority name.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: priority %q", ErrInvalidField, s)
	}
	return p, nil
}

// Task represents a single task item as returned by the backend.
type Task struct {
	ID        TaskID    `json:"_id"`
	Text      string    `json:"text"`
	Status    Status    `json:"status"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize fills absent status and priority with the create defaults and
// rejects tasks that cannot live in a collection.
func (t *Task) Normalize() error {
	if t.ID == "" {
		return fmt.Errorf("%w: task without _id", ErrInvalidResponse)
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: task %s has status %q", ErrInvalidResponse, t.ID, t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: task %s has priority %q", ErrInvalidResponse, t.ID, t.Priority)
	}
	return nil
}

// NewTask is the body of a create request.
// Zero Status and Priority default to pending and medium.
type NewTask struct {
	Text     string   `json:"text"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
}

// WithDefaults returns n with zero fields set to their defaults.
func (n NewTask) WithDefaults() NewTask {
	if n.Status == "" {
		n.Status = StatusPending
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	return n
}

// TaskPatch carries the fields of an update request. Nil fields are left
// unchanged and are not sent.
type TaskPatch struct {
	Status   *Status   `json:"status,omitempty"`
	Priority *Priority `json:"priority,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Status == nil && p.Priority == nil
}

// Validate checks every set field.
func (p TaskPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidField, *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidField, *p.Priority)
	}
	return nil
}

// Credentials identify a user for login and registration.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
