package api

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/mocks"
	"github.com/inkforge/inkforge-api/internal/service"
)

func newStatsRouter(snapshots *mocks.MemorySnapshotStore) chi.Router {
	logger := setupTestLogger()
	handler := NewStatsHandler(service.NewStatsService(snapshots, logger), logger)

	r := chi.NewRouter()
	r.Get("/api/stats", handler.Overview)
	return r
}

func TestStatsHandlerOverview(t *testing.T) {
	snapshots := mocks.NewMemorySnapshotStore()
	router := newStatsRouter(snapshots)

	snap := snapshots.Current()
	snap.Accounts = append(snap.Accounts, domain.Account{
		ID: "acc_1", Name: "prod", APIKey: "sk-1234567890ab",
		UsageCount: 4, SuccessCount: 3, FailureCount: 1,
	})
	task, err := domain.NewTask(1, "text-to-image", "doubao", "p", 1, "", "", "")
	require.NoError(t, err)
	task.Status = domain.TaskStatusCompleted
	snap.Tasks = append(snap.Tasks, *task)
	snapshots.Seed(snap)

	rec := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeBody[statsEnvelope](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, 4, env.Stats.TotalCalls)
	assert.Equal(t, 3, env.Stats.SuccessCalls)
	assert.Equal(t, 1, env.Stats.FailureCalls)
	assert.Equal(t, 1, env.Stats.TotalTasks)
	assert.Equal(t, 1, env.Stats.CompletedTasks)
}

func TestStatsHandlerOverviewEmpty(t *testing.T) {
	router := newStatsRouter(mocks.NewMemorySnapshotStore())

	rec := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeBody[statsEnvelope](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, service.Stats{}, env.Stats)
}
