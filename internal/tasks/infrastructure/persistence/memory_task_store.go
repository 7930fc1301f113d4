package persistence

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/google/uuid"
)

// MemoryTaskStore keeps tasks in process memory in insertion order.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	order []uuid.UUID
	tasks map[uuid.UUID]*task.Task
}

// NewMemoryTaskStore creates an empty in-memory store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]*task.Task),
	}
}

func (s *MemoryTaskStore) FindAll(ctx context.Context) ([]*task.Task, error) {
	return s.find(ctx, func(*task.Task) bool { return true })
}

func (s *MemoryTaskStore) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	return s.find(ctx, func(t *task.Task) bool { return t.Status == status })
}

func (s *MemoryTaskStore) find(ctx context.Context, match func(*task.Task) bool) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*task.Task, 0, len(s.order))
	for _, id := range s.order {
		if t := s.tasks[id]; match(t) {
			result = append(result, t.Clone())
		}
	}
	return result, nil
}

func (s *MemoryTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryTaskStore) Insert(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = task.NewID()
	s.tasks[t.ID] = t.Clone()
	s.order = append(s.order, t.ID)
	return nil
}

func (s *MemoryTaskStore) Replace(ctx context.Context, id uuid.UUID, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return task.ErrNotFound
	}
	stored := t.Clone()
	stored.ID = id
	s.tasks[id] = stored
	return nil
}

func (s *MemoryTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *MemoryTaskStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), nil
}

// Ping always succeeds.
func (s *MemoryTaskStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

var _ task.Store = (*MemoryTaskStore)(nil)
