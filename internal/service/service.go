// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a task does not exist on the backend.
var ErrNotFound = errors.New("not found")

// Service defines the interface for task backend operations.
// All REST calls go through this interface.
// Commands and the board never build HTTP requests directly.
type Service interface {
	// Health reports whether the backend answered its health check with success.
	// A transport failure is returned as an error; a non-success status as (false, nil).
	Health(ctx context.Context) (bool, error)

	// ListTasks returns the full task set in backend order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, id int64) (Task, error)

	// Stats returns the server-side counters.
	Stats(ctx context.Context) (Stats, error)

	// CreateTask creates a task and returns it as stored.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask applies a partial update and returns the updated task.
	UpdateTask(ctx context.Context, id int64, upd TaskUpdate) (Task, error)

	// ToggleTask flips the completion state and returns the updated task.
	ToggleTask(ctx context.Context, id int64) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int64) error

	// ClearCompleted deletes every completed task and returns the removed ones.
	ClearCompleted(ctx context.Context) ([]Task, error)
}
