package handlers

import (
	"encoding/json"
	"net/http"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/internal/domain/services"
	"honeytrap-lab/pkg/logger"
)

// HoneypotHandler handles the analyze endpoint
type HoneypotHandler struct {
	pipeline *services.Pipeline
	logger   *logger.Logger
}

// NewHoneypotHandler creates a new HoneypotHandler
func NewHoneypotHandler(p *services.Pipeline, log *logger.Logger) *HoneypotHandler {
	return &HoneypotHandler{
		pipeline: p,
		logger:   log.WithComponent("honeypot-handler"),
	}
}

// Analyze handles POST /api/v1/analyze.
// Malformed input is the only request-level failure; backend problems
// inside the pipeline degrade to fallbacks and still return 200.
func (h *HoneypotHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("malformed analyze request")
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := h.pipeline.Analyze(r.Context(), &req)
	writeJSON(w, http.StatusOK, resp)
}
