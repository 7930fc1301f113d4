// Package services contains the task application service: validation,
// defaults, pagination, filtering, aggregation and event publication.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/todolist/internal/shared/domain"
	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todolist/pkg/observability"
	"github.com/google/uuid"
)

// TaskInput carries the caller-supplied fields of a task. A nil Status or a
// pointer to "" both mean no status was given.
type TaskInput struct {
	Title  string
	Status *string
}

// CompletionPercentages is the share of tasks in each distinguished status.
// Buckets are independent and need not sum to 100.
type CompletionPercentages struct {
	Completed  float64
	InProgress float64
	Deleted    float64
}

// TaskService implements the task use cases on top of a task.Repository.
// It keeps no state between calls and is safe for concurrent use.
type TaskService struct {
	repo      task.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewTaskService creates a TaskService. A nil publisher, logger or metrics
// falls back to a no-op implementation.
func NewTaskService(repo task.Repository, publisher eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &TaskService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// ListPaged returns one page of tasks along with the number of tasks that
// matched the filter. A non-empty status matches case-insensitively.
// Pages past the end yield an empty slice.
func (s *TaskService) ListPaged(ctx context.Context, page, pageSize int, status *string) ([]*task.Task, int, error) {
	if page < 1 {
		return nil, 0, fmt.Errorf("%w: page must be at least 1, got %d", task.ErrInvalidArgument, page)
	}
	if pageSize < 1 {
		return nil, 0, fmt.Errorf("%w: page size must be at least 1, got %d", task.ErrInvalidArgument, pageSize)
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	filtered := all
	if status != nil && *status != "" {
		filtered = make([]*task.Task, 0, len(all))
		for _, t := range all {
			if strings.EqualFold(t.Status, *status) {
				filtered = append(filtered, t)
			}
		}
	}

	total := len(filtered)
	if page-1 > total/pageSize {
		return []*task.Task{}, total, nil
	}
	start := (page - 1) * pageSize
	if start >= total {
		return []*task.Task{}, total, nil
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}

	return filtered[start:end], total, nil
}

// GetByID returns the task at id, or task.ErrNotFound.
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByStatus returns tasks whose status matches exactly; nil or empty
// status returns every task.
func (s *TaskService) ListByStatus(ctx context.Context, status *string) ([]*task.Task, error) {
	return s.repo.ListByStatus(ctx, status)
}

// Add validates the title, fills the default status and inserts a new task.
func (s *TaskService) Add(ctx context.Context, in TaskInput) (*task.Task, error) {
	if err := task.ValidateTitle(in.Title); err != nil {
		return nil, err
	}

	t := &task.Task{
		Title:  in.Title,
		Status: task.DefaultStatus,
	}
	if in.Status != nil && *in.Status != "" {
		t.Status = *in.Status
	}

	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}

	s.metrics.Counter(observability.MetricTasksCreated, 1)
	observability.LogOperation(s.logger, "task.add").InfoContext(ctx, "task added", "task_id", t.ID, "status", t.Status)
	s.publish(ctx, task.NewTaskCreated(t))

	return t, nil
}

// Update fully replaces the task at id. The status is written as given,
// so an absent status clears it. A missing id yields task.ErrNotFound.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in TaskInput) (*task.Task, error) {
	if err := task.ValidateTitle(in.Title); err != nil {
		return nil, err
	}

	t := &task.Task{ID: id, Title: in.Title}
	if in.Status != nil {
		t.Status = *in.Status
	}

	if err := s.repo.Replace(ctx, id, t); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}

	s.metrics.Counter(observability.MetricTasksUpdated, 1)
	observability.LogOperation(s.logger, "task.update").InfoContext(ctx, "task updated", "task_id", id, "status", t.Status)
	s.publish(ctx, task.NewTaskUpdated(t))

	return t, nil
}

// Delete removes the task at id and reports whether one existed.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	if !removed {
		return false, nil
	}

	s.metrics.Counter(observability.MetricTasksDeleted, 1)
	observability.LogOperation(s.logger, "task.delete").InfoContext(ctx, "task deleted", "task_id", id)
	s.publish(ctx, task.NewTaskDeleted(id))

	return true, nil
}

// GetPercentages computes the completion summary over every task.
// Only exact status matches count toward a bucket.
func (s *TaskService) GetPercentages(ctx context.Context) (CompletionPercentages, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return CompletionPercentages{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(all) == 0 {
		return CompletionPercentages{}, nil
	}

	var completed, inProgress, deleted int
	for _, t := range all {
		switch t.Status {
		case task.StatusCompleted:
			completed++
		case task.StatusInProgress:
			inProgress++
		case task.StatusDeleted:
			deleted++
		}
	}

	total := float64(len(all))
	return CompletionPercentages{
		Completed:  100 * float64(completed) / total,
		InProgress: 100 * float64(inProgress) / total,
		Deleted:    100 * float64(deleted) / total,
	}, nil
}

type metadataSetter interface {
	SetMetadata(domain.EventMetadata)
}

// publish is best effort: the store write already succeeded.
func (s *TaskService) publish(ctx context.Context, event domain.DomainEvent) {
	if m, ok := event.(metadataSetter); ok {
		m.SetMetadata(domain.EventMetadata{
			CorrelationID: observability.CorrelationIDFromContext(ctx),
			RequestID:     observability.RequestIDFromContext(ctx),
		})
	}

	if err := eventbus.PublishEvent(ctx, s.publisher, event); err != nil {
		s.metrics.Counter(observability.MetricEventsPublishFailed, 1, observability.T("routing_key", event.RoutingKey()))
		s.logger.WarnContext(ctx, "failed to publish task event",
			"routing_key", event.RoutingKey(),
			"task_id", event.AggregateID(),
			"error", err,
		)
		return
	}
	s.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", event.RoutingKey()))
}
