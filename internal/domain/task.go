package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a generation task
type TaskStatus string

// Possible task status values. A task only ever moves forward along
// pending -> completed or pending -> failed; both end states are terminal.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Common validation errors for Task
var (
	ErrEmptyTaskType   = errors.New("task type cannot be empty")
	ErrEmptyTaskModel  = errors.New("task model cannot be empty")
	ErrEmptyTaskPrompt = errors.New("task prompt cannot be empty")
	ErrTaskNotPending  = errors.New("task already reached a terminal status")
)

// TaskIDPrefix is combined with a zero-padded sequence number to form
// human-readable task identifiers such as TASK-000042.
const TaskIDPrefix = "TASK-"

// FormatTaskID renders the identifier for the given sequence number.
func FormatTaskID(seq int) string {
	return fmt.Sprintf("%s%06d", TaskIDPrefix, seq)
}

// Task is one generation request and its lifecycle outcome. Once created
// it is mutated exclusively by the dispatcher.
type Task struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	Model          string     `json:"model"`
	Prompt         string     `json:"prompt"`
	Count          int        `json:"count"`
	ReferenceImage string     `json:"referenceImage,omitempty"`
	BaseImage      string     `json:"baseImage,omitempty"`
	RefStyleImage  string     `json:"refStyleImage,omitempty"`
	Status         TaskStatus `json:"status"`
	Results        []string   `json:"results"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// NewTask creates a new pending Task with the given sequence number and
// request fields. Count defaults to 1 when not positive.
// Returns an error if validation fails.
func NewTask(seq int, taskType, model, prompt string, count int, referenceImage, baseImage, refStyleImage string) (*Task, error) {
	if count <= 0 {
		count = 1
	}

	now := time.Now().UTC()
	task := &Task{
		ID:             FormatTaskID(seq),
		Type:           taskType,
		Model:          model,
		Prompt:         prompt,
		Count:          count,
		ReferenceImage: referenceImage,
		BaseImage:      baseImage,
		RefStyleImage:  refStyleImage,
		Status:         TaskStatusPending,
		Results:        []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Type) == "" {
		return ErrEmptyTaskType
	}
	if strings.TrimSpace(t.Model) == "" {
		return ErrEmptyTaskModel
	}
	if strings.TrimSpace(t.Prompt) == "" {
		return ErrEmptyTaskPrompt
	}
	return nil
}

// MarkCompleted transitions the task to completed with the produced image
// references. An empty result list on success is representable.
// Returns ErrTaskNotPending if the task is already terminal.
func (t *Task) MarkCompleted(results []string) error {
	if t.Status != TaskStatusPending {
		return ErrTaskNotPending
	}
	if results == nil {
		results = []string{}
	}
	t.Status = TaskStatusCompleted
	t.Results = results
	t.ErrorMessage = ""
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed transitions the task to failed with the given message.
// Returns ErrTaskNotPending if the task is already terminal.
func (t *Task) MarkFailed(message string) error {
	if t.Status != TaskStatusPending {
		return ErrTaskNotPending
	}
	t.Status = TaskStatusFailed
	t.ErrorMessage = message
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// CloneForResubmit produces a fresh pending task carrying the same request
// fields as the receiver, under a new sequence number. A non-empty
// promptOverride replaces the prompt.
func (t *Task) CloneForResubmit(seq int, promptOverride string) *Task {
	now := time.Now().UTC()
	clone := *t
	clone.ID = FormatTaskID(seq)
	if promptOverride != "" {
		clone.Prompt = promptOverride
	}
	clone.Status = TaskStatusPending
	clone.Results = []string{}
	clone.ErrorMessage = ""
	clone.CreatedAt = now
	clone.UpdatedAt = now
	return &clone
}
