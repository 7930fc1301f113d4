package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todolist/internal/tasks/application/services"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todolist/internal/tasks/infrastructure/persistence"
	"github.com/felixgeelhaar/todolist/pkg/observability"
)

type testEnv struct {
	handler http.Handler
	service *services.TaskService
	metrics *observability.InMemoryMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := persistence.NewMemoryTaskStore()
	logger := observability.DiscardLogger()
	metrics := observability.NewInMemoryMetrics()
	svc := services.NewTaskService(persistence.NewTaskRepository(store), eventbus.NewMemoryPublisher(), logger, metrics)

	health := observability.NewHealthRegistry()
	health.Register("store", observability.StoreHealthChecker(store.Ping))

	server := NewServer(DefaultServerConfig(), NewTaskHandler(svc, logger), health, logger, metrics)
	return &testEnv{handler: server.Handler(), service: svc, metrics: metrics}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seed(t *testing.T, title, status string) *task.Task {
	t.Helper()
	in := services.TaskInput{Title: title}
	if status != "" {
		in.Status = &status
	}
	created, err := e.service.Add(context.Background(), in)
	require.NoError(t, err)
	return created
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestTaskHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	dto := decodeBody[TaskDTO](t, rec)
	assert.Equal(t, "Buy milk", dto.Title)
	assert.Equal(t, task.StatusStarted, dto.Status)
	assert.Equal(t, "/api/tasks/"+dto.ID, rec.Header().Get("Location"))
	_, err := uuid.Parse(dto.ID)
	assert.NoError(t, err)
}

func TestTaskHandler_CreateRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	for name, body := range map[string]string{
		"blank title": `{"title":"   "}`,
		"no title":    `{"status":"Concluido"}`,
		"bad json":    `{"title":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/tasks", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			errBody := decodeBody[map[string]string](t, rec)
			assert.Equal(t, http.StatusText(http.StatusBadRequest), errBody["error"])
		})
	}

	rec := env.do(t, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, 0, decodeBody[PagedTasksResponse](t, rec).TotalCount)
}

func TestTaskHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	created := env.seed(t, "Read book", task.StatusInProgress)

	t.Run("existing", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks/"+created.ID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, TaskDTO{ID: created.ID.String(), Title: "Read book", Status: task.StatusInProgress}, decodeBody[TaskDTO](t, rec))
	})

	t.Run("missing", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks/"+uuid.New().String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "task not found", decodeBody[map[string]string](t, rec)["message"])
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandler_List(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 12; i++ {
		status := task.StatusStarted
		if i%3 == 0 {
			status = task.StatusCompleted
		}
		env.seed(t, fmt.Sprintf("task %02d", i), status)
	}

	t.Run("defaults", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks", "")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[PagedTasksResponse](t, rec)
		assert.Equal(t, 12, resp.TotalCount)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 10, resp.PageSize)
		require.Len(t, resp.Tasks, 10)
		assert.Equal(t, "task 01", resp.Tasks[0].Title)
	})

	t.Run("second page", func(t *testing.T) {
		resp := decodeBody[PagedTasksResponse](t, env.do(t, http.MethodGet, "/api/tasks?page=2&pageSize=5", ""))
		assert.Equal(t, 3, resp.TotalPages)
		require.Len(t, resp.Tasks, 5)
		assert.Equal(t, "task 06", resp.Tasks[0].Title)
	})

	t.Run("filter is case-insensitive", func(t *testing.T) {
		resp := decodeBody[PagedTasksResponse](t, env.do(t, http.MethodGet, "/api/tasks?status=concluido", ""))
		assert.Equal(t, 4, resp.TotalCount)
		assert.Equal(t, 1, resp.TotalPages)
		for _, dto := range resp.Tasks {
			assert.Equal(t, task.StatusCompleted, dto.Status)
		}
	})

	t.Run("status with spaces", func(t *testing.T) {
		env.seed(t, "spaced", task.StatusInProgress)
		resp := decodeBody[PagedTasksResponse](t, env.do(t, http.MethodGet, "/api/tasks?status=Em%20Andamento", ""))
		assert.Equal(t, 1, resp.TotalCount)
	})

	t.Run("page past the end", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks?page=99", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"tasks":[]`)
	})

	for _, q := range []string{"page=0", "pageSize=0", "page=-1", "page=abc", "pageSize=1.5"} {
		t.Run("rejects "+q, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/tasks?"+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTaskHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	created := env.seed(t, "Draft", "")

	t.Run("replaces the task", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/tasks/"+created.ID.String(), `{"title":"Final","status":"Concluido"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, TaskDTO{ID: created.ID.String(), Title: "Final", Status: task.StatusCompleted}, decodeBody[TaskDTO](t, rec))
	})

	t.Run("missing id is 404", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/tasks/"+uuid.New().String(), `{"title":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("blank title is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/tasks/"+created.ID.String(), `{"title":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/tasks/123", `{"title":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	created := env.seed(t, "Disposable", "")

	rec := env.do(t, http.MethodDelete, "/api/tasks/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/api/tasks/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/tasks/zzz", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_CompletionPercentage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/tasks/completion-percentage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Concluido":0,"EmAndamento":0,"Deletado":0}`, rec.Body.String())

	env.seed(t, "a", task.StatusCompleted)
	env.seed(t, "b", task.StatusCompleted)
	env.seed(t, "c", task.StatusInProgress)
	env.seed(t, "d", "")

	rec = env.do(t, http.MethodGet, "/api/tasks/completion-percentage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Concluido":50,"EmAndamento":25,"Deletado":0}`, rec.Body.String())
}

// failingService returns err from every call.
type failingService struct{ err error }

func (f failingService) ListPaged(context.Context, int, int, *string) ([]*task.Task, int, error) {
	return nil, 0, f.err
}
func (f failingService) GetByID(context.Context, uuid.UUID) (*task.Task, error) { return nil, f.err }
func (f failingService) Add(context.Context, services.TaskInput) (*task.Task, error) {
	return nil, f.err
}
func (f failingService) Update(context.Context, uuid.UUID, services.TaskInput) (*task.Task, error) {
	return nil, f.err
}
func (f failingService) Delete(context.Context, uuid.UUID) (bool, error) { return false, f.err }
func (f failingService) GetPercentages(context.Context) (services.CompletionPercentages, error) {
	return services.CompletionPercentages{}, f.err
}

func TestTaskHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"store unavailable", fmt.Errorf("failed to list tasks: %w", task.ErrStoreUnavailable), http.StatusServiceUnavailable, "Task store unavailable"},
		{"unexpected", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "Internal server error"},
		{"not found", fmt.Errorf("wrapped: %w", task.ErrNotFound), http.StatusNotFound, "task not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := observability.DiscardLogger()
			server := NewServer(DefaultServerConfig(), NewTaskHandler(failingService{err: tt.err}, logger), nil, logger, nil)
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody[map[string]string](t, rec)
			assert.Equal(t, tt.message, body["message"])
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, observability.HealthStatusHealthy, decodeBody[observability.OverallHealth](t, rec).Status)

	logger := observability.DiscardLogger()
	health := observability.NewHealthRegistry()
	health.Register("store", observability.StoreHealthChecker(func(context.Context) error {
		return errors.New("down")
	}))
	server := NewServer(DefaultServerConfig(), NewTaskHandler(failingService{}, logger), health, logger, nil)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMiddleware_RequestIDsAndCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(observability.CorrelationIDHeader, "corr-1")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "corr-1", rec.Header().Get(observability.CorrelationIDHeader))
	assert.NotEmpty(t, rec.Header().Get(observability.RequestIDHeader))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = env.do(t, http.MethodGet, "/api/tasks", "")
	assert.NotEmpty(t, rec.Header().Get(observability.CorrelationIDHeader))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/tasks/"+uuid.New().String(), nil)
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPut)
	preflight.Header.Set("Access-Control-Request-Headers", "content-type")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut))
	assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestMiddleware_RecordsHTTPMetrics(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodGet, "/api/tasks", "")
	env.do(t, http.MethodGet, "/api/tasks/nope", "")

	tags := []observability.Tag{observability.T("method", http.MethodGet), observability.T("status", "200")}
	assert.Equal(t, int64(1), env.metrics.GetCounter(observability.MetricHTTPRequests, tags...))
	assert.Len(t, env.metrics.GetTimings(observability.MetricHTTPRequestDuration, tags...), 1)
	assert.Equal(t, int64(1), env.metrics.GetCounter(observability.MetricHTTPRequests,
		observability.T("method", http.MethodGet), observability.T("status", "400")))
}

func TestMiddleware_RecoversPanics(t *testing.T) {
	logger := observability.DiscardLogger()
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RecoverMiddleware(logger), RequestContextMiddleware())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 1, totalPages(3, int(^uint(0)>>1)))
}
