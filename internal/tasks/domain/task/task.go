// Package task holds the task entity, its errors and the persistence ports.
package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidArgument marks caller mistakes such as bad pagination or input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyTitle is returned when a title is empty or whitespace-only.
	ErrEmptyTitle = fmt.Errorf("%w: task title cannot be empty", ErrInvalidArgument)
	// ErrInvalidID is returned when an id cannot be parsed.
	ErrInvalidID = fmt.Errorf("%w: invalid task id format", ErrInvalidArgument)
	// ErrNotFound is returned when no task exists at an id.
	ErrNotFound = errors.New("task not found")
	// ErrStoreUnavailable is returned when the store is failing fast.
	ErrStoreUnavailable = errors.New("task store unavailable")
)

// Distinguished status values. Any other string is a valid status too.
const (
	StatusStarted    = "Iniciada"
	StatusInProgress = "Em Andamento"
	StatusCompleted  = "Concluido"
	StatusDeleted    = "Deletado"
)

// DefaultStatus is assigned on add when no status was supplied.
const DefaultStatus = StatusStarted

// Task is a single to-do record. The ID is assigned by the store on insert.
type Task struct {
	ID     uuid.UUID
	Title  string
	Status string
}

// ValidateTitle rejects empty or whitespace-only titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ParseID parses the textual form of a task id.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// NewID returns a fresh, time-ordered id. Stores use it on insert.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Clone returns a copy so stores never share memory with callers.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
