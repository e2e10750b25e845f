package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/inkforge-api/internal/domain"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "state.db"), setupTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestLoadFirstRun(t *testing.T) {
	s := openTestStore(t)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, snap.Accounts)
	assert.NotNil(t, snap.Tasks)
	assert.Empty(t, snap.Accounts)
	assert.Empty(t, snap.Tasks)
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	account, err := domain.NewAccount("prod", domain.ProviderVolcengine, "sk-12345678", "", "", true)
	require.NoError(t, err)
	task, err := domain.NewTask(1, "text-to-image", "doubao-pro", "a cat", 1, "", "", "")
	require.NoError(t, err)

	snap := domain.NewSnapshot()
	snap.Accounts = append(snap.Accounts, *account)
	snap.Tasks = append(snap.Tasks, *task)
	require.NoError(t, s.Save(ctx, snap))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Accounts, 1)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, account.ID, loaded.Accounts[0].ID)
	assert.Equal(t, account.APIKey, loaded.Accounts[0].APIKey)
	assert.Equal(t, "TASK-000001", loaded.Tasks[0].ID)
	assert.Equal(t, domain.TaskStatusPending, loaded.Tasks[0].Status)
}

func TestSavePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	logger := setupTestLogger()

	s, err := Open(ctx, path, logger)
	require.NoError(t, err)

	snap := domain.NewSnapshot()
	snap.Accounts = append(snap.Accounts, domain.Account{ID: "acc_1", Name: "prod", APIKey: "sk-12345678"})
	require.NoError(t, s.Save(ctx, snap))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path, logger)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Accounts, 1)
	assert.Equal(t, "acc_1", loaded.Accounts[0].ID)
}

func TestLoadDegradesOnCorruptSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state (id, snapshot_json, updated_at) VALUES (1, 'not json', 0)`)
	require.NoError(t, err)

	snap, err := s.Load(ctx)
	require.NoError(t, err, "a corrupt snapshot degrades to empty state, not an error")
	assert.Empty(t, snap.Accounts)
	assert.Empty(t, snap.Tasks)
}

func TestUpdateReadModifyWrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Accounts = append(snap.Accounts, domain.Account{ID: "acc_1", Name: "prod", APIKey: "sk-12345678"})
		return nil
	})
	require.NoError(t, err)

	err = s.Update(ctx, func(snap *domain.Snapshot) error {
		snap.AccountByID("acc_1").UsageCount++
		return nil
	})
	require.NoError(t, err)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Accounts[0].UsageCount)
}

func TestUpdateErrorDiscardsMutation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sentinel := assert.AnError
	err := s.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Accounts = append(snap.Accounts, domain.Account{ID: "acc_doomed"})
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Accounts, "failed update must not persist")
}

func TestUpdateSerializesConcurrentIncrements(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Accounts = append(snap.Accounts, domain.Account{ID: "acc_1", Name: "prod", APIKey: "sk-12345678"})
		return nil
	}))

	const goroutines = 20
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, func(snap *domain.Snapshot) error {
				snap.AccountByID("acc_1").UsageCount++
				return nil
			})
		}()
	}
	wg.Wait()

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, goroutines, loaded.Accounts[0].UsageCount,
		"every read-modify-write cycle lands when serialized at the store boundary")
}
