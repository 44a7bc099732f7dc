package handlers

import (
	"encoding/json"
	"net/http"

	"honeytrap-lab/internal/domain/services"
	"honeytrap-lab/internal/infrastructure/cache"
	"honeytrap-lab/internal/infrastructure/database"
	"honeytrap-lab/pkg/logger"
)

// Dependencies holds everything the handlers need
type Dependencies struct {
	Pipeline *services.Pipeline
	Cache    *cache.RedisCache
	DB       *database.PostgresDB
	Logger   *logger.Logger
	Version  string
}

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Honeypot *HoneypotHandler
	Session  *SessionHandler
	Stats    *StatsHandler
	Health   *HealthHandler
}

// NewHandlers creates all handlers with their dependencies
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Honeypot: NewHoneypotHandler(deps.Pipeline, deps.Logger),
		Session:  NewSessionHandler(deps.Pipeline, deps.Logger),
		Stats:    NewStatsHandler(deps.Pipeline, deps.Logger),
		Health:   NewHealthHandler(deps.Cache, deps.DB, deps.Version, deps.Logger),
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
