package mcp

import (
	"errors"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
)

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	return task.ParseID(value)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
