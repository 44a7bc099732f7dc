package handlers

import (
	"net/http"

	"honeytrap-lab/internal/domain/services"
	"honeytrap-lab/pkg/logger"
)

// StatsHandler exposes process counters
type StatsHandler struct {
	pipeline *services.Pipeline
	logger   *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(p *services.Pipeline, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		pipeline: p,
		logger:   log.WithComponent("stats-handler"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pipeline.Stats())
}
