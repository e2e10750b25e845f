package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrAccountNotFound, ErrTaskNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrStorage is returned when reading or writing the persisted snapshot
	// fails. Read failures degrade to an empty snapshot at the store
	// boundary; write failures propagate wrapped in this error.
	ErrStorage = errors.New("storage failure")

	// Entity-specific "not found" errors

	// ErrAccountNotFound indicates that the requested account does not exist in the store.
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific not found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorageError checks if the error originated at the persistence boundary.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
