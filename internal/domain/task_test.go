package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	owner := uuid.New()

	task, err := NewTask(owner, "Fix pump", "leak in bay 3")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected generated task ID")
	}
	if task.UserID != owner {
		t.Errorf("Expected owner %s, got %s", owner, task.UserID)
	}
	if task.PerformedAt != nil {
		t.Error("Expected new task to be pending")
	}
	if task.IsPerformed() {
		t.Error("Expected IsPerformed to be false")
	}
	if !task.OwnedBy(owner) || task.OwnedBy(uuid.New()) {
		t.Error("OwnedBy returned the wrong answer")
	}
}

func TestTaskValidate(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name    string
		title   string
		summary string
		wantErr error
	}{
		{name: "valid", title: "Fix pump", summary: "x"},
		{name: "empty summary", title: "Fix pump", summary: ""},
		{name: "empty title", title: "", summary: "x", wantErr: ErrTaskTitleEmpty},
		{name: "blank title", title: "   ", summary: "x", wantErr: ErrTaskTitleEmpty},
		{
			name:    "summary at limit",
			title:   "t",
			summary: strings.Repeat("a", MaxSummaryLength),
		},
		{
			name:    "multibyte summary at limit",
			title:   "t",
			summary: strings.Repeat("é", MaxSummaryLength),
		},
		{
			name:    "summary over limit",
			title:   "t",
			summary: strings.Repeat("a", MaxSummaryLength+1),
			wantErr: ErrSummaryTooLong,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTask(owner, tc.title, tc.summary)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Expected %v, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	task, err := NewTask(uuid.New(), "Fix pump", "leak in bay 3")
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	created := task.UpdatedAt

	if !(TaskPatch{}).IsEmpty() {
		t.Error("Expected zero patch to be empty")
	}

	title := "Fix pump seal"
	now := created.Add(time.Minute)
	if err := (TaskPatch{Title: &title}).Apply(task, now); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if task.Title != title {
		t.Errorf("Expected title %q, got %q", title, task.Title)
	}
	if task.Summary != "leak in bay 3" {
		t.Errorf("Expected summary to be unchanged, got %q", task.Summary)
	}
	if !task.UpdatedAt.Equal(now) {
		t.Errorf("Expected UpdatedAt %v, got %v", now, task.UpdatedAt)
	}

	empty := ""
	err = (TaskPatch{Title: &empty}).Apply(task, now.Add(time.Minute))
	if !errors.Is(err, ErrTaskTitleEmpty) {
		t.Fatalf("Expected ErrTaskTitleEmpty, got %v", err)
	}
	if task.Title != title {
		t.Error("Expected task to be untouched after a failed patch")
	}
}
