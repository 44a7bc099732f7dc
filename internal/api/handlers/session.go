package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"honeytrap-lab/internal/domain/services"
	"honeytrap-lab/pkg/logger"
)

// SessionHandler exposes per-session aggregated intelligence
type SessionHandler struct {
	pipeline *services.Pipeline
	logger   *logger.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(p *services.Pipeline, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		pipeline: p,
		logger:   log.WithComponent("session-handler"),
	}
}

// Intelligence handles GET /api/v1/sessions/{id}/intelligence
func (h *SessionHandler) Intelligence(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	intel, err := h.pipeline.Intelligence(r.Context(), sessionID)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load intelligence")
		writeError(w, http.StatusInternalServerError, "failed to load session intelligence")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId":             sessionID,
		"extractedIntelligence": intel,
	})
}
