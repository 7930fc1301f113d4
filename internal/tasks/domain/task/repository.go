package task

import (
	"context"

	"github.com/google/uuid"
)

// Store is the capability interface over the document collection holding tasks.
// Implementations list tasks in insertion order and are safe for concurrent use.
type Store interface {
	FindAll(ctx context.Context) ([]*Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// FindByStatus matches status exactly.
	FindByStatus(ctx context.Context, status string) ([]*Task, error)
	// Insert assigns t.ID and persists t.
	Insert(ctx context.Context, t *Task) error
	// Replace overwrites title and status at id, returning ErrNotFound when nothing matched.
	Replace(ctx context.Context, id uuid.UUID, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Repository defines the interface for task persistence used by the service.
type Repository interface {
	ListAll(ctx context.Context) ([]*Task, error)
	// ListByStatus behaves like ListAll when status is nil or empty.
	ListByStatus(ctx context.Context, status *string) ([]*Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Insert(ctx context.Context, t *Task) error
	Replace(ctx context.Context, id uuid.UUID, t *Task) error
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
}
