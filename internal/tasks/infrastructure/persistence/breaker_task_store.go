package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todolist/pkg/observability"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the store circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state.
	Interval time.Duration
	// Timeout is the period of the open state.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerTaskStore wraps a task.Store with a circuit breaker. While open,
// calls fail fast with task.ErrStoreUnavailable.
type BreakerTaskStore struct {
	next    task.Store
	breaker *gobreaker.CircuitBreaker[any]
	metrics observability.Metrics
}

// NewBreakerTaskStore decorates next with a breaker named name.
func NewBreakerTaskStore(next task.Store, name string, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerTaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Missing tasks and caller cancellations say nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, task.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("store circuit breaker state changed",
				"store", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Counter(observability.MetricStoreBreakerTransitions, 1,
				observability.T("store", name),
				observability.T("to", to.String()),
			)
		},
	}

	return &BreakerTaskStore{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		metrics: metrics,
	}
}

// State returns the current breaker state.
func (s *BreakerTaskStore) State() gobreaker.State {
	return s.breaker.State()
}

// execute runs fn through the breaker and records its duration under
// store.<op>, tagged with the breaker name.
func execute[T any](s *BreakerTaskStore, op string, fn func() (T, error)) (T, error) {
	timer := observability.StartTimer("store."+op).
		WithMetrics(s.metrics).
		WithTags(observability.T("store", s.breaker.Name()))

	result, err := s.breaker.Execute(func() (any, error) {
		return fn()
	})
	timer.StopWithError(err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (s *BreakerTaskStore) FindAll(ctx context.Context) ([]*task.Task, error) {
	return execute(s, "find_all", func() ([]*task.Task, error) {
		return s.next.FindAll(ctx)
	})
}

func (s *BreakerTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return execute(s, "find_by_id", func() (*task.Task, error) {
		return s.next.FindByID(ctx, id)
	})
}

func (s *BreakerTaskStore) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	return execute(s, "find_by_status", func() ([]*task.Task, error) {
		return s.next.FindByStatus(ctx, status)
	})
}

func (s *BreakerTaskStore) Insert(ctx context.Context, t *task.Task) error {
	_, err := execute(s, "insert", func() (struct{}, error) {
		return struct{}{}, s.next.Insert(ctx, t)
	})
	return err
}

func (s *BreakerTaskStore) Replace(ctx context.Context, id uuid.UUID, t *task.Task) error {
	_, err := execute(s, "replace", func() (struct{}, error) {
		return struct{}{}, s.next.Replace(ctx, id, t)
	})
	return err
}

func (s *BreakerTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return execute(s, "delete", func() (bool, error) {
		return s.next.Delete(ctx, id)
	})
}

func (s *BreakerTaskStore) Count(ctx context.Context) (int, error) {
	return execute(s, "count", func() (int, error) {
		return s.next.Count(ctx)
	})
}

// Ping bypasses the breaker so health checks see the real store state.
func (s *BreakerTaskStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

var _ task.Store = (*BreakerTaskStore)(nil)
