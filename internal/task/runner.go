package task

import (
	"context"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner drains the task queue with a pool of workers. Tasks are
// fire-and-forget: whatever Execute returns is handed to the error
// handler and goes no further. The queue and worker structure is also
// the seam where per-task cancellation or timeouts would attach.
type Runner struct {
	queue      *Queue
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewRunner creates a new Runner draining the given queue.
func NewRunner(queue *Queue, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}

	return &Runner{
		queue:  queue,
		config: config,
		logger: logger,
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit hands a task to the queue without waiting for execution.
func (r *Runner) Submit(task Task) error {
	return r.queue.Enqueue(task)
}

// Start launches the worker pool.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	r.logger.Info("task runner started", "worker_count", r.config.WorkerCount)
}

// Stop closes the queue and waits for the workers to drain it. Once a
// dispatch has started it runs to a terminal persist; there is no
// mid-flight cancel.
func (r *Runner) Stop() {
	r.queue.Close()
	r.wg.Wait()
}

// worker processes tasks from the queue
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for task := range r.queue.Channel() {
		r.processTask(task, id)
	}

	r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
}

// processTask handles execution of a single task
func (r *Runner) processTask(task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	logger.Info("processing task")

	if err := task.Execute(context.Background()); err != nil {
		r.errHandler(task, err)
		return
	}

	logger.Info("task processed")
}
