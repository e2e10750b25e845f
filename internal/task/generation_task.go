package task

import (
	"context"
	"errors"
	"log/slog"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/provider"
	"github.com/inkforge/inkforge-api/internal/store"
)

// Common errors
var (
	ErrNilStore     = errors.New("snapshot store cannot be nil")
	ErrNilProviders = errors.New("provider registry cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
	ErrEmptyTaskID  = errors.New("task ID cannot be empty")
	ErrEmptyAccount = errors.New("account ID cannot be empty")
)

// GenerationTask implements the Task interface for one asynchronous
// provider dispatch. Its Execute drives the task record through its
// lifecycle: pending at entry, completed or failed at exit, with the
// acting account's counters settled along the way. Every persist is a
// fresh read-modify-write cycle at the store's serialization point, so
// overlapping dispatches never corrupt the snapshot, though counter
// updates across the vendor-call gap remain independent cycles.
type GenerationTask struct {
	taskID    string
	accountID string
	store     store.SnapshotStore
	providers *provider.Registry
	logger    *slog.Logger
}

// NewGenerationTask creates a dispatch for the given task and account.
func NewGenerationTask(
	taskID string,
	accountID string,
	snapshots store.SnapshotStore,
	providers *provider.Registry,
	logger *slog.Logger,
) (*GenerationTask, error) {
	if snapshots == nil {
		return nil, ErrNilStore
	}
	if providers == nil {
		return nil, ErrNilProviders
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	if accountID == "" {
		return nil, ErrEmptyAccount
	}

	return &GenerationTask{
		taskID:    taskID,
		accountID: accountID,
		store:     snapshots,
		providers: providers,
		logger:    logger.With("task_type", TypeGeneration, "task_id", taskID, "account_id", accountID),
	}, nil
}

// ID returns the task's unique identifier
func (t *GenerationTask) ID() string {
	return t.taskID
}

// Type returns the task type identifier
func (t *GenerationTask) Type() string {
	return TypeGeneration
}

// Execute runs the dispatch: it charges the account's usage counter,
// invokes the matching provider adapter, and settles the task record
// and the success/failure counter. Failures never propagate past the
// dispatch boundary; the task record is the user-visible error report,
// so the returned error only feeds the runner's log.
func (t *GenerationTask) Execute(ctx context.Context) error {
	t.logger.Info("starting generation dispatch")

	var snapTask domain.Task
	var account domain.Account

	// Charge usage up front; the counter covers attempts, not outcomes.
	err := t.store.Update(ctx, func(snap *domain.Snapshot) error {
		task := snap.TaskByID(t.taskID)
		if task == nil {
			return store.ErrTaskNotFound
		}
		acct := snap.AccountByID(t.accountID)
		if acct == nil {
			return store.ErrAccountNotFound
		}
		acct.UsageCount++
		snapTask = *task
		account = *acct
		return nil
	})
	if errors.Is(err, store.ErrTaskNotFound) {
		// Deleted between submission and pickup; nothing to settle.
		t.logger.Warn("task disappeared before dispatch")
		return nil
	}
	if errors.Is(err, store.ErrAccountNotFound) {
		return t.settleFailure(ctx, err)
	}
	if err != nil {
		t.logger.Error("failed to charge usage counter", "error", err)
		return err
	}

	adapter, err := t.providers.Adapter(account.Provider)
	if err != nil {
		return t.settleFailure(ctx, err)
	}

	result, err := adapter.Generate(ctx, account, provider.Request{
		Prompt:         snapTask.Prompt,
		Count:          snapTask.Count,
		ReferenceImage: snapTask.ReferenceImage,
		BaseImage:      snapTask.BaseImage,
		RefStyleImage:  snapTask.RefStyleImage,
	})
	if err != nil {
		return t.settleFailure(ctx, err)
	}

	return t.settleSuccess(ctx, result.Images())
}

// settleSuccess persists the completed task and the success counter in
// one read-modify-write cycle.
func (t *GenerationTask) settleSuccess(ctx context.Context, images []string) error {
	err := t.store.Update(ctx, func(snap *domain.Snapshot) error {
		if acct := snap.AccountByID(t.accountID); acct != nil {
			acct.SuccessCount++
		}
		task := snap.TaskByID(t.taskID)
		if task == nil {
			t.logger.Warn("task disappeared before completion settle")
			return nil
		}
		if err := task.MarkCompleted(images); err != nil {
			t.logger.Warn("task no longer pending at completion settle", "status", task.Status)
		}
		return nil
	})
	if err != nil {
		t.logger.Error("failed to persist completed task", "error", err)
		return err
	}

	t.logger.Info("generation dispatch completed", "image_count", len(images))
	return nil
}

// settleFailure persists the failed task and the failure counter in one
// read-modify-write cycle, then reports cause to the runner's log.
func (t *GenerationTask) settleFailure(ctx context.Context, cause error) error {
	err := t.store.Update(ctx, func(snap *domain.Snapshot) error {
		if acct := snap.AccountByID(t.accountID); acct != nil {
			acct.FailureCount++
		}
		task := snap.TaskByID(t.taskID)
		if task == nil {
			t.logger.Warn("task disappeared before failure settle")
			return nil
		}
		if err := task.MarkFailed(cause.Error()); err != nil {
			t.logger.Warn("task no longer pending at failure settle", "status", task.Status)
		}
		return nil
	})
	if err != nil {
		t.logger.Error("failed to persist failed task", "error", err)
		return err
	}

	return cause
}
