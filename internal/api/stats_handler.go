package api

import (
	"log/slog"
	"net/http"

	"github.com/inkforge/inkforge-api/internal/api/shared"
	"github.com/inkforge/inkforge-api/internal/service"
)

type statsEnvelope struct {
	Success bool          `json:"success"`
	Stats   service.Stats `json:"stats"`
}

// StatsHandler serves the derived usage statistics
type StatsHandler struct {
	stats  *service.StatsService
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(stats *service.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		logger: logger,
	}
}

// Overview handles GET /api/stats requests
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Overview(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statsEnvelope{Success: true, Stats: stats})
}
