package task

import (
	"context"
	"log/slog"

	"github.com/inkforge/inkforge-api/internal/provider"
	"github.com/inkforge/inkforge-api/internal/store"
)

// Dispatcher builds generation tasks and hands them to the runner. It is
// the seam between the synchronous submission path and the asynchronous
// dispatch machinery.
type Dispatcher struct {
	runner    *Runner
	store     store.SnapshotStore
	providers *provider.Registry
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher submitting onto the given runner.
func NewDispatcher(runner *Runner, snapshots store.SnapshotStore, providers *provider.Registry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		runner:    runner,
		store:     snapshots,
		providers: providers,
		logger:    logger,
	}
}

// Dispatch enqueues the asynchronous execution of a created task. The
// context only covers the enqueue; execution runs detached from the
// submitting request.
func (d *Dispatcher) Dispatch(_ context.Context, taskID, accountID string) error {
	t, err := NewGenerationTask(taskID, accountID, d.store, d.providers, d.logger)
	if err != nil {
		return err
	}
	return d.runner.Submit(t)
}
