package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/internal/domain/services/agent"
	"honeytrap-lab/internal/domain/services/ai"
	"honeytrap-lab/internal/domain/services/detection"
	"honeytrap-lab/internal/domain/services/intel"
	"honeytrap-lab/pkg/logger"
)

type stubChat struct {
	response string
	err      error
}

func (s *stubChat) Chat(_ context.Context, _ string, _ []ai.Message) (string, error) {
	return s.response, s.err
}

// newTestPipeline wires a pipeline with an in-memory store and a chat
// backend stub, the shape the service takes when neither Redis nor an
// LLM key is configured.
func newTestPipeline(t *testing.T, chat *stubChat, includeReply bool) *Pipeline {
	t.Helper()
	log := logger.NewDefault()
	return NewPipeline(PipelineDeps{
		Extractor:    intel.NewExtractor(log),
		Aggregator:   intel.NewAggregator(intel.NewMemoryStore(), log),
		Rules:        detection.NewRuleClassifier(log),
		Model:        detection.NewLLMClassifier(chat, log),
		Arbiter:      detection.NewArbiter(log),
		Orchestrator: agent.NewOrchestrator(chat, log),
		Stats:        NewStatsRecorder(context.Background(), nil, log),
		IncludeReply: includeReply,
	}, log)
}

func TestAnalyzeLotteryScam(t *testing.T) {
	p := newTestPipeline(t, &stubChat{err: errors.New("backend down")}, true)

	resp := p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s1",
		Message: models.Turn{
			Sender: models.SenderScammer,
			Text:   "You won ₹50 lakh! Pay ₹1000 processing fee. UPI: scammer@ybl",
		},
	})

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "s1", resp.SessionID)
	assert.True(t, resp.ScamDetected)
	assert.Equal(t, models.ScamTypeLottery, resp.ScamType)
	assert.GreaterOrEqual(t, resp.Confidence, 0.5)
	assert.Equal(t, []string{"scammer@ybl"}, resp.Intelligence.UPIIDs)
	assert.NotEmpty(t, resp.Reply)
	assert.NotEmpty(t, resp.Persona)
	assert.NotEmpty(t, resp.AgentNotes)
	assert.Equal(t, 1, resp.EngagementMetrics.TotalMessagesExchanged)
}

func TestAnalyzeBenignMessage(t *testing.T) {
	p := newTestPipeline(t, &stubChat{err: errors.New("backend down")}, true)

	resp := p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s1",
		Message: models.Turn{
			Sender: models.SenderScammer,
			Text:   "Meeting moved to 3pm, see you in the conference room.",
		},
	})

	assert.False(t, resp.ScamDetected)
	assert.Empty(t, resp.Reply)
	assert.Empty(t, resp.Persona)
	assert.Equal(t, "Message analyzed. No scam indicators detected.", resp.AgentNotes)
	assert.Equal(t, 0, resp.Intelligence.Count())
}

func TestAnalyzeIdempotentIntelligence(t *testing.T) {
	p := newTestPipeline(t, &stubChat{err: errors.New("backend down")}, true)

	req := &models.AnalyzeRequest{
		SessionID: "s1",
		Message: models.Turn{
			Sender: models.SenderScammer,
			Text:   "Send money to scammer@ybl and account 123456789012 now",
		},
	}

	first := p.Analyze(context.Background(), req)
	second := p.Analyze(context.Background(), req)
	assert.Equal(t, first.Intelligence, second.Intelligence)

	aggregate, err := p.Intelligence(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"scammer@ybl"}, aggregate.UPIIDs)
	assert.Equal(t, []string{"123456789012"}, aggregate.BankAccounts)
}

func TestAnalyzeAccumulatesAcrossTurns(t *testing.T) {
	p := newTestPipeline(t, &stubChat{err: errors.New("backend down")}, true)

	p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s1",
		Message:   models.Turn{Sender: models.SenderScammer, Text: "Pay the fee to scammer@ybl"},
	})
	resp := p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s1",
		Message:   models.Turn{Sender: models.SenderScammer, Text: "Or use backup@okhdfcbank for the transfer"},
	})

	assert.Equal(t, []string{"backup@okhdfcbank", "scammer@ybl"}, resp.Intelligence.UPIIDs)
}

func TestAnalyzeIgnoresOwnTurnsForIntelligence(t *testing.T) {
	p := newTestPipeline(t, &stubChat{err: errors.New("backend down")}, true)

	resp := p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s1",
		Message:   models.Turn{Sender: models.SenderScammer, Text: "Send the fee to scammer@ybl"},
		History: []models.Turn{
			{Sender: models.SenderScammer, Text: "You won a lottery prize"},
			{Sender: models.SenderAgent, Text: "Mera apna UPI decoy@ybl hai, usme bhejun?"},
		},
	})

	assert.Equal(t, []string{"scammer@ybl"}, resp.Intelligence.UPIIDs)
}

func TestAnalyzeGeneratesSessionID(t *testing.T) {
	p := newTestPipeline(t, &stubChat{err: errors.New("backend down")}, true)

	resp := p.Analyze(context.Background(), &models.AnalyzeRequest{
		Message: models.Turn{Sender: models.SenderScammer, Text: "hello"},
	})
	assert.NotEmpty(t, resp.SessionID)
}

func TestAnalyzeReplyGatedByConfig(t *testing.T) {
	p := newTestPipeline(t, &stubChat{err: errors.New("backend down")}, false)

	resp := p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s1",
		Message: models.Turn{
			Sender: models.SenderScammer,
			Text:   "You won the lottery! Pay the processing fee now.",
		},
	})

	assert.True(t, resp.ScamDetected)
	assert.Empty(t, resp.Reply)
	assert.NotEmpty(t, resp.Persona)
}

func TestAnalyzeUsesModelVerdict(t *testing.T) {
	// Rules see nothing, the model flags phishing
	p := newTestPipeline(t, &stubChat{
		response: `{"is_scam": true, "confidence": 0.8, "scam_type": "phishing", "reasoning": "credential harvest", "risk_level": "high"}`,
	}, true)

	resp := p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s1",
		Message: models.Turn{
			Sender: models.SenderScammer,
			Text:   "Please update your details on the portal today.",
		},
	})

	assert.True(t, resp.ScamDetected)
	assert.Equal(t, models.ScamTypePhishing, resp.ScamType)
	assert.Equal(t, models.RiskHigh, resp.RiskLevel)
}

func TestStatsCountTurns(t *testing.T) {
	p := newTestPipeline(t, &stubChat{err: errors.New("backend down")}, true)

	p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s1",
		Message:   models.Turn{Sender: models.SenderScammer, Text: "You won the lottery! Pay the processing fee to scammer@ybl"},
	})
	p.Analyze(context.Background(), &models.AnalyzeRequest{
		SessionID: "s2",
		Message:   models.Turn{Sender: models.SenderScammer, Text: "Meeting moved to 3pm."},
	})

	stats := p.Stats()
	assert.Equal(t, int64(2), stats.SessionsSeen)
	assert.Equal(t, int64(1), stats.ScamsDetected)
	assert.Equal(t, int64(1), stats.EntitiesExtracted)
}
