// Package sqlite implements the snapshot store on an embedded sqlite
// database. The whole application state lives in a single JSON document
// row; the database gives us durable, atomic whole-record writes without
// an external server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/store"
)

// Store persists the application snapshot as one sqlite row. All access
// funnels through a single mutex so concurrent read-modify-write cycles
// never interleave mid-mutation; this is the store's serialization point.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

// Open creates (if needed) and opens the snapshot database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", store.ErrStorage, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", store.ErrStorage, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %s: %v", store.ErrStorage, pragma, err)
		}
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			snapshot_json TEXT NOT NULL DEFAULT '{}',
			updated_at INTEGER NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("%w: migrate: %v", store.ErrStorage, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the current snapshot. A missing row (first run) or an
// unreadable document degrades to an empty snapshot; the degradation is
// logged, never surfaced as an error.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

func (s *Store) load(ctx context.Context) *domain.Snapshot {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot_json FROM state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewSnapshot()
	}
	if err != nil {
		s.logger.Error("failed to read snapshot, degrading to empty state", "error", err)
		return domain.NewSnapshot()
	}

	snap := domain.NewSnapshot()
	if err := json.Unmarshal([]byte(raw), snap); err != nil {
		s.logger.Error("failed to decode snapshot, degrading to empty state", "error", err)
		return domain.NewSnapshot()
	}
	if snap.Accounts == nil {
		snap.Accounts = []domain.Account{}
	}
	if snap.Tasks == nil {
		snap.Tasks = []domain.Task{}
	}
	return snap
}

// Save writes the snapshot as the new current state.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, snap)
}

func (s *Store) save(ctx context.Context, snap *domain.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", store.ErrStorage, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO state (id, snapshot_json, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			snapshot_json = excluded.snapshot_json,
			updated_at = excluded.updated_at
	`, string(raw), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: write snapshot: %v", store.ErrStorage, err)
	}
	return nil
}

// Update runs fn against a freshly loaded snapshot and persists the
// result while holding the store mutex.
func (s *Store) Update(ctx context.Context, fn func(snap *domain.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load(ctx)
	if err := fn(snap); err != nil {
		return err
	}
	return s.save(ctx, snap)
}
