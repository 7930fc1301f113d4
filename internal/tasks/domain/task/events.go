package task

import (
	"github.com/felixgeelhaar/todolist/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated = "task.created"
	RoutingKeyUpdated = "task.updated"
	RoutingKeyDeleted = "task.deleted"
)

// TaskCreated is emitted when a new task is added.
type TaskCreated struct {
	domain.BaseEvent
	Title  string `json:"title"`
	Status string `json:"status"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t *Task) *TaskCreated {
	return &TaskCreated{
		BaseEvent: domain.NewBaseEvent(t.ID, AggregateType, RoutingKeyCreated),
		Title:     t.Title,
		Status:    t.Status,
	}
}

// TaskUpdated is emitted when a task is replaced.
type TaskUpdated struct {
	domain.BaseEvent
	Title  string `json:"title"`
	Status string `json:"status"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(t *Task) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent: domain.NewBaseEvent(t.ID, AggregateType, RoutingKeyUpdated),
		Title:     t.Title,
		Status:    t.Status,
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(id uuid.UUID) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyDeleted),
	}
}
