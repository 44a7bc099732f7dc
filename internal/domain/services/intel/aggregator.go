package intel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/internal/infrastructure/cache"
	"honeytrap-lab/pkg/logger"
)

// Store persists extracted entities per session
type Store interface {
	Add(ctx context.Context, sessionID string, entities []models.Entity) error
	List(ctx context.Context, sessionID string) ([]models.Entity, error)
}

// Aggregator accumulates intelligence across conversation turns.
// Recording is idempotent and monotonic: the same entity is stored once
// and entities never disappear.
type Aggregator struct {
	store  Store
	logger *logger.Logger
}

// NewAggregator creates a new Aggregator backed by the given store
func NewAggregator(store Store, log *logger.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		logger: log.WithComponent("intel-aggregator"),
	}
}

// Normalize canonicalizes an entity value before dedup
func Normalize(e models.Entity) models.Entity {
	switch e.Kind {
	case models.EntityUPIID:
		e.Value = strings.ToLower(strings.TrimSpace(e.Value))
	case models.EntityBankAccount:
		var digits strings.Builder
		for _, r := range e.Value {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		e.Value = digits.String()
	case models.EntityIFSCCode:
		e.Value = strings.ToUpper(strings.TrimSpace(e.Value))
	case models.EntityPhishingLink:
		e.Value = strings.TrimRight(strings.TrimSpace(e.Value), ".,;:!?)\"'")
	}
	return e
}

// Record normalizes and stores entities for a session, returning the
// full aggregate so far
func (a *Aggregator) Record(ctx context.Context, sessionID string, entities []models.Entity) (models.Intelligence, error) {
	normalized := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		n := Normalize(e)
		if n.Value == "" {
			continue
		}
		normalized = append(normalized, n)
	}

	if len(normalized) > 0 {
		if err := a.store.Add(ctx, sessionID, normalized); err != nil {
			return models.NewIntelligence(), fmt.Errorf("failed to store entities: %w", err)
		}
	}

	return a.Intelligence(ctx, sessionID)
}

// Intelligence returns the aggregated intelligence for a session,
// sorted within each kind for stable output
func (a *Aggregator) Intelligence(ctx context.Context, sessionID string) (models.Intelligence, error) {
	entities, err := a.store.List(ctx, sessionID)
	if err != nil {
		return models.NewIntelligence(), fmt.Errorf("failed to list entities: %w", err)
	}

	intel := models.NewIntelligence()
	seen := make(map[string]bool)
	for _, e := range entities {
		key := string(e.Kind) + "|" + e.Value
		if seen[key] {
			continue
		}
		seen[key] = true
		intel.Add(e)
	}

	sort.Strings(intel.UPIIDs)
	sort.Strings(intel.BankAccounts)
	sort.Strings(intel.IFSCCodes)
	sort.Strings(intel.PhishingLinks)

	return intel, nil
}

// MemoryStore keeps session intelligence in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]models.Entity
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]map[string]models.Entity),
	}
}

// Add stores entities for a session, deduplicating by (kind, value)
func (s *MemoryStore) Add(_ context.Context, sessionID string, entities []models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.sessions[sessionID]
	if !ok {
		bucket = make(map[string]models.Entity)
		s.sessions[sessionID] = bucket
	}
	for _, e := range entities {
		bucket[string(e.Kind)+"|"+e.Value] = e
	}
	return nil
}

// List returns all entities stored for a session
func (s *MemoryStore) List(_ context.Context, sessionID string) ([]models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.sessions[sessionID]
	result := make([]models.Entity, 0, len(bucket))
	for _, e := range bucket {
		result = append(result, e)
	}
	return result, nil
}

// RedisStore keeps session intelligence in Redis sets so multiple
// instances can share the honeypot state
type RedisStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisStore creates a store backed by the shared Redis cache
func NewRedisStore(c *cache.RedisCache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return cache.KeySessionIntelPrefix + sessionID
}

// Add stores entities in the session's set and refreshes its TTL
func (s *RedisStore) Add(ctx context.Context, sessionID string, entities []models.Entity) error {
	members := make([]any, len(entities))
	for i, e := range entities {
		members[i] = string(e.Kind) + "|" + e.Value
	}
	if err := s.cache.SAdd(ctx, sessionKey(sessionID), members...); err != nil {
		return err
	}
	return s.cache.Expire(ctx, sessionKey(sessionID), s.ttl)
}

// List returns all entities stored for a session
func (s *RedisStore) List(ctx context.Context, sessionID string) ([]models.Entity, error) {
	members, err := s.cache.SMembers(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}

	entities := make([]models.Entity, 0, len(members))
	for _, m := range members {
		kind, value, ok := strings.Cut(m, "|")
		if !ok {
			continue
		}
		entities = append(entities, models.Entity{Kind: models.EntityKind(kind), Value: value})
	}
	return entities, nil
}
