package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/mocks"
	"github.com/inkforge/inkforge-api/internal/store"
)

// recordingDispatcher captures dispatch calls without executing anything.
type recordingDispatcher struct {
	calls []dispatchCall
	err   error
}

type dispatchCall struct {
	taskID    string
	accountID string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, taskID, accountID string) error {
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, dispatchCall{taskID: taskID, accountID: accountID})
	return nil
}

func seedAccount(t *testing.T, snapshots *mocks.MemorySnapshotStore, isDefault bool) domain.Account {
	t.Helper()
	account, err := domain.NewAccount("prod", domain.ProviderVolcengine, "sk-12345678", "", "", isDefault)
	require.NoError(t, err)
	snap := snapshots.Current()
	snap.Accounts = append(snap.Accounts, *account)
	snapshots.Seed(snap)
	return *account
}

func TestTaskServiceCreate(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	dispatcher := &recordingDispatcher{}
	svc := NewTaskService(snapshots, dispatcher, setupTestLogger())
	ctx := context.Background()

	account := seedAccount(t, snapshots, true)

	created, err := svc.Create(ctx, CreateTaskParams{
		Type:   "text-to-image",
		Model:  "doubao-pro",
		Prompt: "a lighthouse at dusk",
		Count:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, "TASK-000001", created.ID)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	assert.NotNil(t, created.Results)
	assert.Empty(t, created.Results)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, created.ID, dispatcher.calls[0].taskID)
	assert.Equal(t, account.ID, dispatcher.calls[0].accountID)

	current := snapshots.Current()
	require.Len(t, current.Tasks, 1, "the pending record is persisted before dispatch")
}

func TestTaskServiceCreateSequentialIDs(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	dispatcher := &recordingDispatcher{}
	svc := NewTaskService(snapshots, dispatcher, setupTestLogger())
	ctx := context.Background()
	seedAccount(t, snapshots, true)

	for i := 1; i <= 3; i++ {
		created, err := svc.Create(ctx, CreateTaskParams{
			Type: "text-to-image", Model: "doubao-pro", Prompt: "p",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.FormatTaskID(i), created.ID)
	}
}

func TestTaskServiceCreateNoAccount(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	dispatcher := &recordingDispatcher{}
	svc := NewTaskService(snapshots, dispatcher, setupTestLogger())

	_, err := svc.Create(context.Background(), CreateTaskParams{
		Type: "text-to-image", Model: "doubao-pro", Prompt: "p",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), domain.ErrNoAccountConfigured.Error())

	assert.Empty(t, dispatcher.calls)
	assert.Empty(t, snapshots.Current().Tasks)
}

func TestTaskServiceCreateValidation(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	svc := NewTaskService(snapshots, &recordingDispatcher{}, setupTestLogger())
	ctx := context.Background()
	seedAccount(t, snapshots, true)

	tests := []struct {
		name   string
		params CreateTaskParams
	}{
		{name: "missing type", params: CreateTaskParams{Model: "m", Prompt: "p"}},
		{name: "missing model", params: CreateTaskParams{Type: "t", Prompt: "p"}},
		{name: "missing prompt", params: CreateTaskParams{Type: "t", Model: "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.params)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	assert.Empty(t, snapshots.Current().Tasks)
}

func TestTaskServiceCreateUsesFlaggedDefault(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	dispatcher := &recordingDispatcher{}
	svc := NewTaskService(snapshots, dispatcher, setupTestLogger())
	ctx := context.Background()

	seedAccount(t, snapshots, false)
	flagged, err := domain.NewAccount("flagged", domain.ProviderJimeng, "jm-12345678", "", "", true)
	require.NoError(t, err)
	snap := snapshots.Current()
	snap.Accounts = append(snap.Accounts, *flagged)
	snapshots.Seed(snap)

	_, err = svc.Create(ctx, CreateTaskParams{Type: "t", Model: "m", Prompt: "p"})
	require.NoError(t, err)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, flagged.ID, dispatcher.calls[0].accountID)
}

func TestTaskServiceCreateDispatchFailure(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	dispatcher := &recordingDispatcher{err: assert.AnError}
	svc := NewTaskService(snapshots, dispatcher, setupTestLogger())
	seedAccount(t, snapshots, true)

	_, err := svc.Create(context.Background(), CreateTaskParams{Type: "t", Model: "m", Prompt: "p"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTaskServiceListFiltersAndSorts(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	svc := NewTaskService(snapshots, &recordingDispatcher{}, setupTestLogger())
	ctx := context.Background()

	base := time.Now().UTC()
	snap := snapshots.Current()
	for i, spec := range []struct {
		model  string
		status domain.TaskStatus
	}{
		{model: "doubao", status: domain.TaskStatusCompleted},
		{model: "jimeng-v1", status: domain.TaskStatusPending},
		{model: "doubao", status: domain.TaskStatusFailed},
	} {
		task, err := domain.NewTask(i+1, "text-to-image", spec.model, "p", 1, "", "", "")
		require.NoError(t, err)
		task.Status = spec.status
		task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		snap.Tasks = append(snap.Tasks, *task)
	}
	snapshots.Seed(snap)

	all, err := svc.List(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "TASK-000003", all[0].ID, "most recent first")
	assert.Equal(t, "TASK-000001", all[2].ID)

	byModel, err := svc.List(ctx, TaskFilter{Model: "doubao"})
	require.NoError(t, err)
	assert.Len(t, byModel, 2)

	byStatus, err := svc.List(ctx, TaskFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "TASK-000002", byStatus[0].ID)

	both, err := svc.List(ctx, TaskFilter{Model: "doubao", Status: "failed"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "TASK-000003", both[0].ID)
}

func TestTaskServiceGet(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	dispatcher := &recordingDispatcher{}
	svc := NewTaskService(snapshots, dispatcher, setupTestLogger())
	ctx := context.Background()
	seedAccount(t, snapshots, true)

	created, err := svc.Create(ctx, CreateTaskParams{Type: "t", Model: "m", Prompt: "p"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, "TASK-999999")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskServiceResubmit(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	dispatcher := &recordingDispatcher{}
	svc := NewTaskService(snapshots, dispatcher, setupTestLogger())
	ctx := context.Background()
	seedAccount(t, snapshots, true)

	source, err := svc.Create(ctx, CreateTaskParams{
		Type: "text-to-image", Model: "doubao-pro", Prompt: "original prompt", Count: 2,
	})
	require.NoError(t, err)

	// Settle the source so the clone's reset is observable.
	snap := snapshots.Current()
	require.NoError(t, snap.TaskByID(source.ID).MarkFailed("provider timeout"))
	snapshots.Seed(snap)

	clone, err := svc.Resubmit(ctx, source.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "TASK-000002", clone.ID)
	assert.Equal(t, "original prompt", clone.Prompt)
	assert.Equal(t, 2, clone.Count)
	assert.Equal(t, domain.TaskStatusPending, clone.Status)
	assert.Empty(t, clone.Results)
	assert.Empty(t, clone.ErrorMessage)

	require.Len(t, dispatcher.calls, 2)
	assert.Equal(t, clone.ID, dispatcher.calls[1].taskID)

	current := snapshots.Current()
	assert.Equal(t, domain.TaskStatusFailed, current.TaskByID(source.ID).Status,
		"resubmission never mutates the source task")
}

func TestTaskServiceResubmitPromptOverride(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	svc := NewTaskService(snapshots, &recordingDispatcher{}, setupTestLogger())
	ctx := context.Background()
	seedAccount(t, snapshots, true)

	source, err := svc.Create(ctx, CreateTaskParams{Type: "t", Model: "m", Prompt: "old"})
	require.NoError(t, err)

	clone, err := svc.Resubmit(ctx, source.ID, "new prompt")
	require.NoError(t, err)
	assert.Equal(t, "new prompt", clone.Prompt)
}

func TestTaskServiceResubmitNotFound(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	svc := NewTaskService(snapshots, &recordingDispatcher{}, setupTestLogger())
	seedAccount(t, snapshots, true)

	_, err := svc.Resubmit(context.Background(), "TASK-999999", "")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskServiceRemove(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	svc := NewTaskService(snapshots, &recordingDispatcher{}, setupTestLogger())
	ctx := context.Background()
	seedAccount(t, snapshots, true)

	created, err := svc.Create(ctx, CreateTaskParams{Type: "t", Model: "m", Prompt: "p"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, created.ID))
	assert.Empty(t, snapshots.Current().Tasks)

	err = svc.Remove(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
