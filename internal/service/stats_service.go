package service

import (
	"context"
	"log/slog"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/store"
)

// Stats is the derived usage overview: account counter sums plus task
// counts by status. Nothing here is stored; it is computed per request.
type Stats struct {
	TotalCalls     int `json:"totalCalls"`
	SuccessCalls   int `json:"successCalls"`
	FailureCalls   int `json:"failureCalls"`
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	PendingTasks   int `json:"pendingTasks"`
	FailedTasks    int `json:"failedTasks"`
}

// StatsService derives usage statistics from the current snapshot.
type StatsService struct {
	store  store.SnapshotStore
	logger *slog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(snapshots store.SnapshotStore, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  snapshots,
		logger: logger,
	}
}

// Overview computes the statistics over the current snapshot. After all
// in-flight dispatches settle, TotalCalls equals SuccessCalls plus
// FailureCalls.
func (s *StatsService) Overview(ctx context.Context) (Stats, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, account := range snap.Accounts {
		stats.TotalCalls += account.UsageCount
		stats.SuccessCalls += account.SuccessCount
		stats.FailureCalls += account.FailureCount
	}

	stats.TotalTasks = len(snap.Tasks)
	for _, task := range snap.Tasks {
		switch task.Status {
		case domain.TaskStatusCompleted:
			stats.CompletedTasks++
		case domain.TaskStatusPending:
			stats.PendingTasks++
		case domain.TaskStatusFailed:
			stats.FailedTasks++
		}
	}
	return stats, nil
}
