package detection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/internal/domain/services/ai"
	"honeytrap-lab/pkg/logger"
)

type stubChat struct {
	response string
	err      error
}

func (s *stubChat) Chat(_ context.Context, _ string, _ []ai.Message) (string, error) {
	return s.response, s.err
}

func analyzeRequest(text string) *models.AnalyzeRequest {
	return &models.AnalyzeRequest{
		SessionID: "s1",
		Message:   models.Turn{Sender: models.SenderScammer, Text: text},
	}
}

func TestLLMClassifierBackendDown(t *testing.T) {
	c := NewLLMClassifier(&stubChat{err: errors.New("connection refused")}, logger.NewDefault())

	v := c.Classify(context.Background(), analyzeRequest("You won the lottery!"))
	assert.False(t, v.Available)
	assert.False(t, v.IsScam)
	assert.Equal(t, models.SourceModel, v.Source)
}

func TestLLMClassifierNoAPIKey(t *testing.T) {
	client := ai.NewClient(ai.Config{Provider: "openai"}, logger.NewDefault())
	c := NewLLMClassifier(client, logger.NewDefault())

	v := c.Classify(context.Background(), analyzeRequest("You won the lottery!"))
	assert.False(t, v.Available)
}

func TestLLMClassifierValidJSON(t *testing.T) {
	c := NewLLMClassifier(&stubChat{
		response: `{"is_scam": true, "confidence": 0.85, "scam_type": "kyc_scam", "reasoning": "urgency and credential request", "risk_level": "high"}`,
	}, logger.NewDefault())

	v := c.Classify(context.Background(), analyzeRequest("Your KYC is blocked, verify now"))
	assert.True(t, v.Available)
	assert.True(t, v.IsScam)
	assert.Equal(t, 0.85, v.Confidence)
	assert.Equal(t, models.ScamTypeKYC, v.ScamType)
	assert.Equal(t, models.RiskHigh, v.RiskLevel)
	assert.Equal(t, "urgency and credential request", v.Rationale)
}

func TestLLMClassifierFencedJSON(t *testing.T) {
	c := NewLLMClassifier(&stubChat{
		response: "```json\n{\"is_scam\": true, \"confidence\": 0.6, \"scam_type\": \"phishing\", \"reasoning\": \"shortened link\", \"risk_level\": \"medium\"}\n```",
	}, logger.NewDefault())

	v := c.Classify(context.Background(), analyzeRequest("click bit.ly/x"))
	assert.True(t, v.Available)
	assert.Equal(t, models.ScamTypePhishing, v.ScamType)
}

func TestLLMClassifierGarbageResponse(t *testing.T) {
	c := NewLLMClassifier(&stubChat{response: "I think this might be a scam, hard to say."}, logger.NewDefault())

	v := c.Classify(context.Background(), analyzeRequest("hello"))
	assert.False(t, v.Available)
	assert.False(t, v.IsScam)
}

func TestLLMClassifierClampsAndDefaults(t *testing.T) {
	c := NewLLMClassifier(&stubChat{
		response: `{"is_scam": true, "confidence": 1.7, "scam_type": null, "reasoning": "x", "risk_level": "extreme"}`,
	}, logger.NewDefault())

	v := c.Classify(context.Background(), analyzeRequest("hello"))
	assert.Equal(t, 1.0, v.Confidence)
	assert.Equal(t, models.ScamTypeUnknown, v.ScamType)
	// Invalid risk label falls back to the confidence bucket
	assert.Equal(t, models.RiskHigh, v.RiskLevel)
}
