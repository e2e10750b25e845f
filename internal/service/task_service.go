package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/store"
)

// TaskDispatcher hands a created task off for asynchronous execution.
// Submissions never wait for the dispatch to finish: the enqueue returns
// as soon as the unit of work is accepted.
type TaskDispatcher interface {
	// Dispatch enqueues the execution of the given task against the
	// given account. Returns an error only when the work cannot be
	// accepted (e.g., the queue is full); execution failures are
	// absorbed into the task record, never surfaced here.
	Dispatch(ctx context.Context, taskID, accountID string) error
}

// TaskFilter narrows task listings. Empty fields are ignored; provided
// fields match exactly.
type TaskFilter struct {
	Status string
	Model  string
}

// CreateTaskParams carries the caller-supplied fields for a submission.
type CreateTaskParams struct {
	Type           string
	Model          string
	Prompt         string
	Count          int
	ReferenceImage string
	BaseImage      string
	RefStyleImage  string
}

// TaskService provides CRUD and filtering over task records layered on
// the snapshot store, and owns the submission path: creating a pending
// task, resolving the acting account, and handing off to the dispatcher.
type TaskService struct {
	store      store.SnapshotStore
	dispatcher TaskDispatcher
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(snapshots store.SnapshotStore, dispatcher TaskDispatcher, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:      snapshots,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// List returns all tasks matching the filter, most recently created first.
func (s *TaskService) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.Model != "" && t.Model != filter.Model {
			continue
		}
		tasks = append(tasks, t)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// Get retrieves a single task.
// Returns store.ErrTaskNotFound if the id is absent.
func (s *TaskService) Get(ctx context.Context, id string) (domain.Task, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	task := snap.TaskByID(id)
	if task == nil {
		return domain.Task{}, store.ErrTaskNotFound
	}
	return *task, nil
}

// Create validates the submission, records a pending task and hands it to
// the dispatcher without awaiting execution. The acting account is
// resolved synchronously: an empty registry rejects the whole submission.
func (s *TaskService) Create(ctx context.Context, params CreateTaskParams) (domain.Task, error) {
	var created domain.Task
	var accountID string

	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		account := snap.DefaultAccount()
		if account == nil {
			return fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrNoAccountConfigured.Error())
		}
		accountID = account.ID

		task, err := domain.NewTask(
			len(snap.Tasks)+1,
			params.Type, params.Model, params.Prompt, params.Count,
			params.ReferenceImage, params.BaseImage, params.RefStyleImage,
		)
		if err != nil {
			return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		}

		snap.Tasks = append(snap.Tasks, *task)
		created = *task
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.dispatcher.Dispatch(ctx, created.ID, accountID); err != nil {
		s.logger.Error("failed to enqueue task dispatch",
			"task_id", created.ID,
			"error", err)
		return domain.Task{}, err
	}

	s.logger.Info("task created",
		"task_id", created.ID,
		"model", created.Model,
		"account_id", accountID)
	return created, nil
}

// Resubmit clones an existing task into a fresh pending one, optionally
// replacing the prompt, and dispatches it like a new submission.
// Returns store.ErrTaskNotFound if the source task is absent.
func (s *TaskService) Resubmit(ctx context.Context, id, promptOverride string) (domain.Task, error) {
	var created domain.Task
	var accountID string

	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		source := snap.TaskByID(id)
		if source == nil {
			return store.ErrTaskNotFound
		}

		account := snap.DefaultAccount()
		if account == nil {
			return fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrNoAccountConfigured.Error())
		}
		accountID = account.ID

		clone := source.CloneForResubmit(len(snap.Tasks)+1, promptOverride)
		snap.Tasks = append(snap.Tasks, *clone)
		created = *clone
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.dispatcher.Dispatch(ctx, created.ID, accountID); err != nil {
		s.logger.Error("failed to enqueue resubmitted task dispatch",
			"task_id", created.ID,
			"source_task_id", id,
			"error", err)
		return domain.Task{}, err
	}

	s.logger.Info("task resubmitted",
		"task_id", created.ID,
		"source_task_id", id)
	return created, nil
}

// Remove deletes a task by explicit operator action; tasks are never
// deleted automatically.
// Returns store.ErrTaskNotFound if the id is absent.
func (s *TaskService) Remove(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Tasks {
			if snap.Tasks[i].ID == id {
				snap.Tasks = append(snap.Tasks[:i], snap.Tasks[i+1:]...)
				return nil
			}
		}
		return store.ErrTaskNotFound
	})
	if err != nil {
		return err
	}

	s.logger.Info("task removed", "task_id", id)
	return nil
}
