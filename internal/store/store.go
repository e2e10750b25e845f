package store

import (
	"context"

	"github.com/inkforge/inkforge-api/internal/domain"
)

// SnapshotStore defines the interface for persisting the application
// state as one coarse-grained record. There are no partial-field writes
// at this boundary: callers read the whole snapshot, mutate a copy, and
// write the whole snapshot back.
// Version: 1.0
type SnapshotStore interface {
	// Load reads the current snapshot. A missing or unreadable record
	// degrades to an empty snapshot rather than an error; only transport
	// level failures that cannot be degraded return ErrStorage.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save writes the given snapshot as the new current state, replacing
	// the previous record entirely. Returns ErrStorage on write failure.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Update runs fn against a freshly loaded snapshot and persists the
	// result, all under the store's single serialization point. The
	// snapshot is re-read immediately before every write, so concurrent
	// Update cycles never interleave mid-mutation. If fn returns an
	// error the snapshot is not written and the error is returned as-is.
	Update(ctx context.Context, fn func(snap *domain.Snapshot) error) error
}
