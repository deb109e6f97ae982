// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All remote calls go through this interface.
// Commands and the engine never talk HTTP directly.
type Service interface {
	// ListTasks returns every task visible to the current session, in
	// server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the server copy, including the
	// assigned id and creation timestamp.
	CreateTask(ctx context.Context, task NewTask) (Task, error)

	// UpdateTask applies the set fields of patch and returns the full
	// updated task.
	UpdateTask(ctx context.Context, id TaskID, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id TaskID) error

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, creds Credentials) (string, error)

	// Register creates a user account.
	Register(ctx context.Context, creds Credentials) error
}
