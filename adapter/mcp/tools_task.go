package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	"github.com/felixgeelhaar/todolist/internal/tasks/application/services"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
)

type taskListInput struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Status   string `json:"status,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskCreateInput struct {
	Title  string `json:"title" jsonschema:"required"`
	Status string `json:"status,omitempty"`
}

type taskUpdateInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
	Title  string `json:"title" jsonschema:"required"`
	Status string `json:"status,omitempty"`
}

type taskOutput struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type taskListOutput struct {
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	Tasks      []taskOutput `json:"tasks"`
}

type taskDeleteOutput struct {
	TaskID  string `json:"task_id"`
	Deleted bool   `json:"deleted"`
}

type completionOutput struct {
	Completed  float64 `json:"completed"`
	InProgress float64 `json:"in_progress"`
	Deleted    float64 `json:"deleted"`
}

func toTaskOutput(t *task.Task) taskOutput {
	return taskOutput{ID: t.ID.String(), Title: t.Title, Status: t.Status}
}

// taskTools implements the task.* tools on top of the CLI app.
type taskTools struct {
	app *cli.App
}

func (h taskTools) list(ctx context.Context, input taskListInput) (taskListOutput, error) {
	if err := h.app.Ready(); err != nil {
		return taskListOutput{}, err
	}
	if input.Page == 0 {
		input.Page = 1
	}
	if input.PageSize == 0 {
		input.PageSize = 10
	}

	tasks, total, err := h.app.Tasks.ListPaged(ctx, input.Page, input.PageSize, optionalString(input.Status))
	if err != nil {
		return taskListOutput{}, err
	}

	out := taskListOutput{
		TotalCount: total,
		Page:       input.Page,
		PageSize:   input.PageSize,
		Tasks:      make([]taskOutput, 0, len(tasks)),
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, toTaskOutput(t))
	}
	return out, nil
}

func (h taskTools) get(ctx context.Context, input taskIDInput) (taskOutput, error) {
	if err := h.app.Ready(); err != nil {
		return taskOutput{}, err
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return taskOutput{}, err
	}
	t, err := h.app.Tasks.GetByID(ctx, id)
	if err != nil {
		return taskOutput{}, err
	}
	return toTaskOutput(t), nil
}

func (h taskTools) create(ctx context.Context, input taskCreateInput) (taskOutput, error) {
	if err := h.app.Ready(); err != nil {
		return taskOutput{}, err
	}
	t, err := h.app.Tasks.Add(ctx, services.TaskInput{
		Title:  input.Title,
		Status: optionalString(input.Status),
	})
	if err != nil {
		return taskOutput{}, err
	}
	return toTaskOutput(t), nil
}

func (h taskTools) update(ctx context.Context, input taskUpdateInput) (taskOutput, error) {
	if err := h.app.Ready(); err != nil {
		return taskOutput{}, err
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return taskOutput{}, err
	}
	t, err := h.app.Tasks.Update(ctx, id, services.TaskInput{
		Title:  input.Title,
		Status: optionalString(input.Status),
	})
	if err != nil {
		return taskOutput{}, err
	}
	return toTaskOutput(t), nil
}

func (h taskTools) delete(ctx context.Context, input taskIDInput) (taskDeleteOutput, error) {
	if err := h.app.Ready(); err != nil {
		return taskDeleteOutput{}, err
	}
	id, err := parseUUID(input.TaskID)
	if err != nil {
		return taskDeleteOutput{}, err
	}
	removed, err := h.app.Tasks.Delete(ctx, id)
	if err != nil {
		return taskDeleteOutput{}, err
	}
	if !removed {
		return taskDeleteOutput{}, task.ErrNotFound
	}
	return taskDeleteOutput{TaskID: id.String(), Deleted: true}, nil
}

func (h taskTools) completion(ctx context.Context, _ struct{}) (completionOutput, error) {
	if err := h.app.Ready(); err != nil {
		return completionOutput{}, err
	}
	pct, err := h.app.Tasks.GetPercentages(ctx)
	if err != nil {
		return completionOutput{}, err
	}
	return completionOutput{
		Completed:  pct.Completed,
		InProgress: pct.InProgress,
		Deleted:    pct.Deleted,
	}, nil
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	h := taskTools{app: deps.App}

	srv.Tool("task.list").
		Description("List tasks one page at a time, optionally filtered by status (case-insensitive)").
		Handler(h.list)

	srv.Tool("task.get").
		Description("Get a task by id").
		Handler(h.get)

	srv.Tool("task.create").
		Description("Create a task; status defaults to Iniciada").
		Handler(h.create)

	srv.Tool("task.update").
		Description("Replace a task's title and status").
		Handler(h.update)

	srv.Tool("task.delete").
		Description("Delete a task by id").
		Handler(h.delete)

	srv.Tool("task.completion").
		Description("Percentage of tasks that are Concluido, Em Andamento and Deletado").
		Handler(h.completion)

	return nil
}
