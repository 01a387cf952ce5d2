package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxSummaryLength is the maximum number of characters allowed in a task summary.
const MaxSummaryLength = 2500

// Task validation errors
var (
	ErrTaskIDEmpty     = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrTaskUserIDEmpty = fmt.Errorf("%w: task owner cannot be empty", ErrValidation)
	ErrTaskTitleEmpty  = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrSummaryTooLong  = fmt.Errorf(
		"%w: summary must be at most %d characters",
		ErrValidation,
		MaxSummaryLength,
	)
)

// Task is a unit of maintenance work owned by the technician who created it.
// A nil PerformedAt means the task is still pending.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	UserID      uuid.UUID  `json:"userId"`
	PerformedAt *time.Time `json:"performedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a pending task owned by userID.
func NewTask(userID uuid.UUID, title, summary string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New(),
		Title:     title,
		Summary:   summary,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	if utf8.RuneCountInString(t.Summary) > MaxSummaryLength {
		return ErrSummaryTooLong
	}

	return nil
}

// IsPerformed reports whether the task has been marked performed.
func (t *Task) IsPerformed() bool {
	return t.PerformedAt != nil
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}

// TaskPatch holds the optional fields of a task update.
// Nil fields are left unchanged.
type TaskPatch struct {
	Title   *string
	Summary *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Summary == nil
}

// Apply copies the non-nil patch fields onto t and validates the result.
// t is left untouched when validation fails.
func (p TaskPatch) Apply(t *Task, now time.Time) error {
	updated := *t
	if p.Title != nil {
		updated.Title = *p.Title
	}
	if p.Summary != nil {
		updated.Summary = *p.Summary
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = now
	*t = updated
	return nil
}
