// Package persistence implements the task store backends and the repository on top of them.
package persistence

import (
	"context"

	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// TaskRepository implements task.Repository as a pass-through over a task.Store.
type TaskRepository struct {
	store task.Store
}

// NewTaskRepository creates a repository over store.
func NewTaskRepository(store task.Store) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]*task.Task, error) {
	return r.store.FindAll(ctx)
}

func (r *TaskRepository) ListByStatus(ctx context.Context, status *string) ([]*task.Task, error) {
	if status == nil || *status == "" {
		return r.store.FindAll(ctx)
	}
	return r.store.FindByStatus(ctx, *status)
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return r.store.FindByID(ctx, id)
}

func (r *TaskRepository) Insert(ctx context.Context, t *task.Task) error {
	return r.store.Insert(ctx, t)
}

func (r *TaskRepository) Replace(ctx context.Context, id uuid.UUID, t *task.Task) error {
	return r.store.Replace(ctx, id, t)
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.store.Delete(ctx, id)
}

func (r *TaskRepository) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx)
}

var _ task.Repository = (*TaskRepository)(nil)
