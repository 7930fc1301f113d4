package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/felixgeelhaar/todolist/internal/tasks/application/services"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/google/uuid"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxBodyBytes    = 1 << 20
)

// TaskService is the subset of the task service the handler calls.
type TaskService interface {
	ListPaged(ctx context.Context, page, pageSize int, status *string) ([]*task.Task, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	Add(ctx context.Context, in services.TaskInput) (*task.Task, error)
	Update(ctx context.Context, id uuid.UUID, in services.TaskInput) (*task.Task, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetPercentages(ctx context.Context) (services.CompletionPercentages, error)
}

// TaskDTO is the wire form of a task.
type TaskDTO struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// TaskRequest is the body of create and update requests.
type TaskRequest struct {
	Title  string  `json:"title"`
	Status *string `json:"status,omitempty"`
}

// PagedTasksResponse is the body of a list response.
type PagedTasksResponse struct {
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Tasks      []TaskDTO `json:"tasks"`
}

// CompletionResponse is the body of a completion-percentage response.
type CompletionResponse struct {
	Completed  float64 `json:"Concluido"`
	InProgress float64 `json:"EmAndamento"`
	Deleted    float64 `json:"Deletado"`
}

func toDTO(t *task.Task) TaskDTO {
	return TaskDTO{ID: t.ID.String(), Title: t.Title, Status: t.Status}
}

// TaskHandler handles task API requests.
type TaskHandler struct {
	service TaskService
	logger  *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(service TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{service: service, logger: logger}
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parseIntParam(r, "page", defaultPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Query parameter 'page' must be an integer")
		return
	}
	pageSize, err := parseIntParam(r, "pageSize", defaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Query parameter 'pageSize' must be an integer")
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	tasks, total, err := h.service.ListPaged(r.Context(), page, pageSize, status)
	if err != nil {
		h.fail(w, r, "failed to list tasks", err)
		return
	}

	resp := PagedTasksResponse{
		TotalCount: total,
		TotalPages: totalPages(total, pageSize),
		Page:       page,
		PageSize:   pageSize,
		Tasks:      make([]TaskDTO, 0, len(tasks)),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toDTO(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := task.ParseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "invalid task id", err)
		return
	}

	t, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to get task", err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(t))
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	t, err := h.service.Add(r.Context(), services.TaskInput{Title: req.Title, Status: req.Status})
	if err != nil {
		h.fail(w, r, "failed to create task", err)
		return
	}

	w.Header().Set("Location", "/api/tasks/"+t.ID.String())
	writeJSON(w, http.StatusCreated, toDTO(t))
}

// Update handles PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := task.ParseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "invalid task id", err)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	t, err := h.service.Update(r.Context(), id, services.TaskInput{Title: req.Title, Status: req.Status})
	if err != nil {
		h.fail(w, r, "failed to update task", err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(t))
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := task.ParseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "invalid task id", err)
		return
	}

	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to delete task", err)
		return
	}
	if !removed {
		h.fail(w, r, "task not found", task.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompletionPercentage handles GET /api/tasks/completion-percentage
func (h *TaskHandler) CompletionPercentage(w http.ResponseWriter, r *http.Request) {
	pct, err := h.service.GetPercentages(r.Context())
	if err != nil {
		h.fail(w, r, "failed to compute completion percentage", err)
		return
	}
	writeJSON(w, http.StatusOK, CompletionResponse{
		Completed:  pct.Completed,
		InProgress: pct.InProgress,
		Deleted:    pct.Deleted,
	})
}

func (h *TaskHandler) decode(w http.ResponseWriter, r *http.Request) (TaskRequest, bool) {
	var req TaskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return req, false
	}
	return req, true
}

// fail maps err to a response. Server-side failures are logged with the
// underlying error; client mistakes are logged at debug.
func (h *TaskHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
	} else {
		h.logger.DebugContext(r.Context(), msg, "error", err)
	}
	writeAPIError(w, apiErr)
}

// parseIntParam returns def when the parameter is absent.
func parseIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}
