package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Task sentinel errors. They reach callers wrapped in *TaskError, so match
// them with errors.Is.
//
// Error handling principles:
//  1. Expected conditions are sentinel errors wrapped with the task ID
//  2. Unexpected errors are wrapped in TaskServiceError
//  3. The API layer maps sentinels to HTTP status codes and everything else to 500
var (
	// ErrTaskNotFound indicates the task does not exist or is not visible to the caller.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskAlreadyPerformed indicates the task left the pending state earlier.
	// API layer should map this to HTTP 400 Bad Request.
	ErrTaskAlreadyPerformed = errors.New("task already performed")
)

// TaskError ties a task sentinel error to the task it concerns.
type TaskError struct {
	TaskID uuid.UUID
	Err    error
}

// Error renders the client-facing message, e.g. "Task '<id>' not found".
func (e *TaskError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTaskNotFound):
		return fmt.Sprintf("Task '%s' not found", e.TaskID)
	case errors.Is(e.Err, ErrTaskAlreadyPerformed):
		return fmt.Sprintf("Task '%s' already performed", e.TaskID)
	default:
		return fmt.Sprintf("Task '%s': %v", e.TaskID, e.Err)
	}
}

// Unwrap returns the wrapped sentinel.
func (e *TaskError) Unwrap() error {
	return e.Err
}

func taskNotFound(id uuid.UUID) error {
	return &TaskError{TaskID: id, Err: ErrTaskNotFound}
}

func taskAlreadyPerformed(id uuid.UUID) error {
	return &TaskError{TaskID: id, Err: ErrTaskAlreadyPerformed}
}

// TaskServiceError is a custom error type for unexpected task service failures.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
