package store

import (
	"context"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// ListAll returns every task ordered by ID. There is no paging.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound for a missing or malformed ID.
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// Create applies defaults, assigns an ID and timestamps, and inserts the
	// task. It returns the new ID.
	Create(ctx context.Context, task *domain.Task) (string, error)

	// Update replaces the stored document keyed by task.ID and returns it.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// Delete removes a task and reports whether a document was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
