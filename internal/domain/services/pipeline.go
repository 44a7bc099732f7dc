package services

import (
	"context"

	"github.com/google/uuid"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/internal/domain/services/agent"
	"honeytrap-lab/internal/domain/services/detection"
	"honeytrap-lab/internal/domain/services/intel"
	"honeytrap-lab/internal/infrastructure/database/repository"
	"honeytrap-lab/pkg/logger"
)

// Pipeline runs one honeypot turn end to end: extract, classify,
// arbitrate, aggregate, engage. The only request-level failure is
// malformed input, which the handler rejects before this runs; every
// backend problem inside the pipeline degrades instead of failing.
type Pipeline struct {
	extractor    *intel.Extractor
	aggregator   *intel.Aggregator
	rules        *detection.RuleClassifier
	model        *detection.LLMClassifier
	arbiter      *detection.Arbiter
	orchestrator *agent.Orchestrator
	stats        *StatsRecorder
	archive      *repository.EngagementRepository // optional
	includeReply bool
	logger       *logger.Logger
}

// PipelineDeps collects the pipeline's collaborators
type PipelineDeps struct {
	Extractor    *intel.Extractor
	Aggregator   *intel.Aggregator
	Rules        *detection.RuleClassifier
	Model        *detection.LLMClassifier
	Arbiter      *detection.Arbiter
	Orchestrator *agent.Orchestrator
	Stats        *StatsRecorder
	Archive      *repository.EngagementRepository
	IncludeReply bool
}

// NewPipeline creates a new Pipeline
func NewPipeline(deps PipelineDeps, log *logger.Logger) *Pipeline {
	return &Pipeline{
		extractor:    deps.Extractor,
		aggregator:   deps.Aggregator,
		rules:        deps.Rules,
		model:        deps.Model,
		arbiter:      deps.Arbiter,
		orchestrator: deps.Orchestrator,
		stats:        deps.Stats,
		archive:      deps.Archive,
		includeReply: deps.IncludeReply,
		logger:       log.WithComponent("pipeline"),
	}
}

// Analyze processes one conversation turn
func (p *Pipeline) Analyze(ctx context.Context, req *models.AnalyzeRequest) *models.AnalyzeResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	log := p.logger.WithSessionID(sessionID)

	// Intelligence extraction only reads scammer-sent turns and never
	// fails; aggregation failures fall back to this turn's entities
	entities := p.extractor.ExtractAll(req.SuspectText())
	intelligence, err := p.aggregator.Record(ctx, sessionID, entities)
	if err != nil {
		log.Warn().Err(err).Msg("aggregation failed, using turn-local intelligence")
		intelligence = models.NewIntelligence()
		for _, e := range entities {
			intelligence.Add(intel.Normalize(e))
		}
	}

	ruleVerdict := p.rules.Classify(req.FullText())
	modelVerdict := p.model.Classify(ctx, req)
	verdict := p.arbiter.Merge(ruleVerdict, modelVerdict)

	metrics := agent.MetricsFor(req)

	var reply, personaName string
	notes := "Message analyzed. No scam indicators detected."
	if verdict.IsScam {
		engagement := p.orchestrator.Engage(ctx, req, verdict, intelligence, metrics)
		reply = engagement.Reply
		personaName = engagement.Persona.Name
		notes = engagement.Notes
	}

	p.stats.RecordTurn(ctx, verdict.IsScam, len(entities))
	p.archiveTurn(ctx, sessionID, req, verdict, metrics, personaName, reply, notes, entities)

	log.Info().
		Bool("scam_detected", verdict.IsScam).
		Str("scam_type", string(verdict.ScamType)).
		Float64("confidence", verdict.Confidence).
		Int("intel_items", intelligence.Count()).
		Msg("turn analyzed")

	resp := &models.AnalyzeResponse{
		Status:            "success",
		SessionID:         sessionID,
		ScamDetected:      verdict.IsScam,
		ScamType:          verdict.ScamType,
		RiskLevel:         verdict.RiskLevel,
		Confidence:        verdict.Confidence,
		Persona:           personaName,
		EngagementMetrics: metrics,
		Intelligence:      intelligence,
		AgentNotes:        notes,
	}
	if p.includeReply {
		resp.Reply = reply
	}
	return resp
}

// Intelligence returns the aggregate for a session
func (p *Pipeline) Intelligence(ctx context.Context, sessionID string) (models.Intelligence, error) {
	return p.aggregator.Intelligence(ctx, sessionID)
}

// Stats returns the pipeline counters
func (p *Pipeline) Stats() Stats {
	return p.stats.Snapshot()
}

func (p *Pipeline) archiveTurn(ctx context.Context, sessionID string, req *models.AnalyzeRequest, verdict models.Verdict, metrics models.EngagementMetrics, persona, reply, notes string, entities []models.Entity) {
	if p.archive == nil {
		return
	}

	rec := &repository.EngagementRecord{
		SessionID:         sessionID,
		Message:           req.Message.Text,
		ScamDetected:      verdict.IsScam,
		ScamType:          verdict.ScamType,
		RiskLevel:         verdict.RiskLevel,
		Confidence:        verdict.Confidence,
		Persona:           persona,
		Reply:             reply,
		Notes:             notes,
		MessagesExchanged: metrics.TotalMessagesExchanged,
		DurationSeconds:   metrics.EngagementDurationSeconds,
	}
	if err := p.archive.SaveTurn(ctx, rec); err != nil {
		p.logger.Warn().Err(err).Msg("failed to archive turn")
		return
	}

	normalized := make([]models.Entity, len(entities))
	for i, e := range entities {
		normalized[i] = intel.Normalize(e)
	}
	if err := p.archive.SaveEntities(ctx, sessionID, normalized); err != nil {
		p.logger.Warn().Err(err).Msg("failed to archive entities")
	}
}
