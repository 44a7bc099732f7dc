package services

import (
	"context"
	"strconv"
	"sync/atomic"

	"honeytrap-lab/internal/infrastructure/cache"
	"honeytrap-lab/pkg/logger"
)

// Stats is a snapshot of process counters
type Stats struct {
	SessionsSeen      int64 `json:"sessionsSeen"`
	ScamsDetected     int64 `json:"scamsDetected"`
	EntitiesExtracted int64 `json:"entitiesExtracted"`
}

// StatsRecorder counts pipeline activity. Counters live in process
// memory; when Redis is configured they are mirrored there and loaded
// back at startup so numbers survive restarts.
type StatsRecorder struct {
	sessions atomic.Int64
	scams    atomic.Int64
	entities atomic.Int64

	cache  *cache.RedisCache
	logger *logger.Logger
}

// NewStatsRecorder creates a new StatsRecorder seeded from the Redis
// mirror; cache may be nil
func NewStatsRecorder(ctx context.Context, c *cache.RedisCache, log *logger.Logger) *StatsRecorder {
	s := &StatsRecorder{
		cache:  c,
		logger: log.WithComponent("stats"),
	}
	s.seed(ctx)
	return s
}

// seed restores the counters from the Redis mirror. Missing or
// unreadable keys leave the counters at zero.
func (s *StatsRecorder) seed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.sessions.Store(s.mirrored(ctx, cache.KeyStatSessions))
	s.scams.Store(s.mirrored(ctx, cache.KeyStatScams))
	s.entities.Store(s.mirrored(ctx, cache.KeyStatEntities))
}

func (s *StatsRecorder) mirrored(ctx context.Context, key string) int64 {
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		s.logger.Warn().Str("key", key).Str("value", val).Msg("ignoring non-numeric stats mirror value")
		return 0
	}
	return n
}

// RecordTurn counts one analyze turn
func (s *StatsRecorder) RecordTurn(ctx context.Context, scamDetected bool, entityCount int) {
	s.sessions.Add(1)
	if scamDetected {
		s.scams.Add(1)
	}
	s.entities.Add(int64(entityCount))

	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, cache.KeyStatSessions); err != nil {
		s.logger.Warn().Err(err).Msg("failed to mirror stats to Redis")
		return
	}
	if scamDetected {
		s.cache.Incr(ctx, cache.KeyStatScams)
	}
	if entityCount > 0 {
		s.cache.IncrBy(ctx, cache.KeyStatEntities, int64(entityCount))
	}
}

// Snapshot returns the current counters
func (s *StatsRecorder) Snapshot() Stats {
	return Stats{
		SessionsSeen:      s.sessions.Load(),
		ScamsDetected:     s.scams.Load(),
		EntitiesExtracted: s.entities.Load(),
	}
}
