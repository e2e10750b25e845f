package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTaskID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TASK-000001", FormatTaskID(1))
	assert.Equal(t, "TASK-000042", FormatTaskID(42))
	assert.Equal(t, "TASK-123456", FormatTaskID(123456))
	assert.Equal(t, "TASK-1234567", FormatTaskID(1234567))
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := NewTask(7, "text-to-image", "doubao-pro", "a cat", 0, "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "TASK-000007", task.ID)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, 1, task.Count, "count should default to 1")
	assert.NotNil(t, task.Results)
	assert.Empty(t, task.Results)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		taskType string
		model    string
		prompt   string
		wantErr  error
	}{
		{name: "missing type", taskType: "", model: "m", prompt: "p", wantErr: ErrEmptyTaskType},
		{name: "missing model", taskType: "t", model: "", prompt: "p", wantErr: ErrEmptyTaskModel},
		{name: "missing prompt", taskType: "t", model: "m", prompt: "", wantErr: ErrEmptyTaskPrompt},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTask(1, tc.taskType, tc.model, tc.prompt, 1, "", "", "")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTaskTransitions(t *testing.T) {
	t.Parallel()

	t.Run("pending to completed", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(1, "t", "m", "p", 1, "", "", "")
		require.NoError(t, err)

		before := task.UpdatedAt
		require.NoError(t, task.MarkCompleted([]string{"data:image/png;base64,xxx"}))

		assert.Equal(t, TaskStatusCompleted, task.Status)
		assert.Len(t, task.Results, 1)
		assert.Empty(t, task.ErrorMessage)
		assert.False(t, task.UpdatedAt.Before(before))
	})

	t.Run("pending to failed", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(1, "t", "m", "p", 1, "", "", "")
		require.NoError(t, err)

		require.NoError(t, task.MarkFailed("provider exploded"))

		assert.Equal(t, TaskStatusFailed, task.Status)
		assert.Equal(t, "provider exploded", task.ErrorMessage)
		assert.Empty(t, task.Results)
	})

	t.Run("completed with empty results is representable", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(1, "t", "m", "p", 1, "", "", "")
		require.NoError(t, err)

		require.NoError(t, task.MarkCompleted(nil))

		assert.Equal(t, TaskStatusCompleted, task.Status)
		assert.NotNil(t, task.Results)
		assert.Empty(t, task.Results)
	})

	t.Run("terminal states never revert", func(t *testing.T) {
		t.Parallel()
		completed, err := NewTask(1, "t", "m", "p", 1, "", "", "")
		require.NoError(t, err)
		require.NoError(t, completed.MarkCompleted([]string{"img"}))

		assert.ErrorIs(t, completed.MarkFailed("late failure"), ErrTaskNotPending)
		assert.ErrorIs(t, completed.MarkCompleted(nil), ErrTaskNotPending)
		assert.Equal(t, TaskStatusCompleted, completed.Status)
		assert.Len(t, completed.Results, 1)

		failed, err := NewTask(2, "t", "m", "p", 1, "", "", "")
		require.NoError(t, err)
		require.NoError(t, failed.MarkFailed("boom"))

		assert.ErrorIs(t, failed.MarkCompleted([]string{"img"}), ErrTaskNotPending)
		assert.Equal(t, TaskStatusFailed, failed.Status)
		assert.Empty(t, failed.Results)
	})
}

func TestCloneForResubmit(t *testing.T) {
	t.Parallel()

	source, err := NewTask(3, "text-to-image", "doubao-pro", "a cat", 2, "ref", "base", "style")
	require.NoError(t, err)
	require.NoError(t, source.MarkFailed("first attempt failed"))

	t.Run("without prompt override", func(t *testing.T) {
		t.Parallel()
		clone := source.CloneForResubmit(9, "")

		assert.Equal(t, "TASK-000009", clone.ID)
		assert.Equal(t, source.Prompt, clone.Prompt)
		assert.Equal(t, source.Type, clone.Type)
		assert.Equal(t, source.Model, clone.Model)
		assert.Equal(t, source.Count, clone.Count)
		assert.Equal(t, source.ReferenceImage, clone.ReferenceImage)
		assert.Equal(t, TaskStatusPending, clone.Status)
		assert.Empty(t, clone.Results)
		assert.Empty(t, clone.ErrorMessage)
		assert.False(t, clone.CreatedAt.Before(source.CreatedAt))
	})

	t.Run("with prompt override", func(t *testing.T) {
		t.Parallel()
		clone := source.CloneForResubmit(10, "a dog")

		assert.Equal(t, "a dog", clone.Prompt)
		assert.Equal(t, source.Model, clone.Model)
		assert.Equal(t, TaskStatusPending, clone.Status)
	})
}
