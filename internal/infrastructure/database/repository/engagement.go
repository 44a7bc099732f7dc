package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/internal/infrastructure/database"
	"honeytrap-lab/pkg/logger"
)

// EngagementRecord is one archived analyze turn
type EngagementRecord struct {
	ID                uuid.UUID
	SessionID         string
	Message           string
	ScamDetected      bool
	ScamType          models.ScamType
	RiskLevel         models.RiskLevel
	Confidence        float64
	Persona           string
	Reply             string
	Notes             string
	MessagesExchanged int
	DurationSeconds   int
	CreatedAt         time.Time
}

// EngagementRepository archives honeypot turns and extracted entities
// for later analyst review. The archive is write-mostly; the live
// pipeline never reads from it.
type EngagementRepository struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *database.PostgresDB, log *logger.Logger) *EngagementRepository {
	return &EngagementRepository{
		db:     db,
		logger: log.WithComponent("engagement-repo"),
	}
}

// Migrate creates the archive tables if they do not exist
func (r *EngagementRepository) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS engagements (
	id UUID PRIMARY KEY,
	session_id TEXT NOT NULL,
	message TEXT NOT NULL,
	scam_detected BOOLEAN NOT NULL,
	scam_type TEXT NOT NULL DEFAULT '',
	risk_level TEXT NOT NULL DEFAULT 'low',
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	persona TEXT NOT NULL DEFAULT '',
	reply TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	messages_exchanged INTEGER NOT NULL DEFAULT 0,
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_engagements_session ON engagements (session_id);

CREATE TABLE IF NOT EXISTS extracted_entities (
	session_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	value TEXT NOT NULL,
	first_seen TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (session_id, kind, value)
);`

	if err := r.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to migrate engagement schema: %w", err)
	}
	return nil
}

// SaveTurn archives one analyze turn
func (r *EngagementRepository) SaveTurn(ctx context.Context, rec *EngagementRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	const q = `
INSERT INTO engagements (
	id, session_id, message, scam_detected, scam_type, risk_level,
	confidence, persona, reply, notes, messages_exchanged,
	duration_seconds, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	err := r.db.Exec(ctx, q,
		rec.ID, rec.SessionID, rec.Message, rec.ScamDetected,
		string(rec.ScamType), string(rec.RiskLevel), rec.Confidence,
		rec.Persona, rec.Reply, rec.Notes, rec.MessagesExchanged,
		rec.DurationSeconds, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save engagement turn: %w", err)
	}
	return nil
}

// SaveEntities archives extracted entities, ignoring duplicates
func (r *EngagementRepository) SaveEntities(ctx context.Context, sessionID string, entities []models.Entity) error {
	const q = `
INSERT INTO extracted_entities (session_id, kind, value)
VALUES ($1, $2, $3)
ON CONFLICT (session_id, kind, value) DO NOTHING`

	for _, e := range entities {
		if err := r.db.Exec(ctx, q, sessionID, string(e.Kind), e.Value); err != nil {
			return fmt.Errorf("failed to save entity: %w", err)
		}
	}
	return nil
}

// SessionEntities returns archived entities for a session
func (r *EngagementRepository) SessionEntities(ctx context.Context, sessionID string) ([]models.Entity, error) {
	const q = `
SELECT kind, value FROM extracted_entities
WHERE session_id = $1
ORDER BY kind, value`

	rows, err := r.db.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, models.Entity{Kind: models.EntityKind(kind), Value: value})
	}
	return entities, rows.Err()
}
