package task

import "context"

// Task represents a detached unit of background work. Implementations
// absorb their own failures into the records they maintain; the runner
// only logs what Execute returns.
// Version: 1.0
type Task interface {
	// ID returns the task's unique identifier
	ID() string

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// Task type constants
const (
	// TypeGeneration represents the task type for image generation dispatches
	TypeGeneration = "generation"
)
