package detection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/internal/domain/services/ai"
	"honeytrap-lab/pkg/logger"
)

// ChatClient is the slice of the LLM client the classifier needs
type ChatClient interface {
	Chat(ctx context.Context, system string, messages []ai.Message) (string, error)
}

// LLMClassifier asks a language model for a scam verdict. The backend
// being down, slow, or incoherent never fails a request: every error
// path returns a verdict with Available=false.
type LLMClassifier struct {
	client ChatClient
	logger *logger.Logger
}

// NewLLMClassifier creates a new LLMClassifier
func NewLLMClassifier(client ChatClient, log *logger.Logger) *LLMClassifier {
	return &LLMClassifier{
		client: client,
		logger: log.WithComponent("llm-classifier"),
	}
}

const classifierSystemPrompt = `You are an expert scam detection analyst. Analyze messages for scam intent.

Common scam patterns:
1. LOTTERY/PRIZE SCAMS: Claims of winning money, prizes, or rewards
2. KYC/VERIFICATION SCAMS: Fake bank/government requests for personal info
3. FINANCIAL SCAMS: Requests for money transfers, UPI payments, advance fees
4. PHISHING: Suspicious links, fake login pages, credential harvesting
5. IMPERSONATION: Fake officials, bank representatives, government agents
6. JOB/INVESTMENT SCAMS: Too-good-to-be-true offers, pyramid schemes

Consider urgency tactics, authority claims, requests for sensitive
information (OTP, PIN, account details), suspicious links, and pressure
tactics.

You MUST respond in valid JSON format only:
{
  "is_scam": <boolean>,
  "confidence": <float between 0 and 1>,
  "scam_type": <"lottery_scam"|"kyc_scam"|"financial_scam"|"phishing"|"impersonation"|"job_investment_scam"|"unknown"|null>,
  "reasoning": <string>,
  "risk_level": <"low"|"medium"|"high"|"critical">
}`

// Classify asks the model for a verdict on the conversation
func (c *LLMClassifier) Classify(ctx context.Context, req *models.AnalyzeRequest) models.Verdict {
	prompt := buildClassifierPrompt(req)

	response, err := c.client.Chat(ctx, classifierSystemPrompt, []ai.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("model backend unavailable, deferring to rules")
		return unavailableVerdict(err.Error())
	}

	verdict, err := parseModelVerdict(response)
	if err != nil {
		c.logger.Warn().Err(err).Msg("unparsable model response, deferring to rules")
		return unavailableVerdict("unparsable model response")
	}

	c.logger.Debug().
		Bool("is_scam", verdict.IsScam).
		Float64("confidence", verdict.Confidence).
		Msg("model classification complete")

	return verdict
}

func buildClassifierPrompt(req *models.AnalyzeRequest) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following message for scam intent:\n\n")
	sb.WriteString(fmt.Sprintf("MESSAGE: %s\n", req.Message.Text))
	if req.Metadata != nil && req.Metadata.Channel != "" {
		sb.WriteString(fmt.Sprintf("CHANNEL: %s\n", req.Metadata.Channel))
	}

	sb.WriteString("\nCONVERSATION HISTORY:\n")
	if len(req.History) == 0 {
		sb.WriteString("No previous conversation\n")
	} else {
		history := req.History
		if len(history) > 10 {
			history = history[len(history)-10:]
		}
		for _, turn := range history {
			sb.WriteString(fmt.Sprintf("%s: %s\n", strings.ToUpper(string(turn.Sender)), turn.Text))
		}
	}

	sb.WriteString("\nRespond with the JSON object only.")
	return sb.String()
}

func parseModelVerdict(response string) (models.Verdict, error) {
	var parsed struct {
		IsScam     bool    `json:"is_scam"`
		Confidence float64 `json:"confidence"`
		ScamType   *string `json:"scam_type"`
		Reasoning  string  `json:"reasoning"`
		RiskLevel  string  `json:"risk_level"`
	}

	cleaned := ai.ExtractJSON(response)
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return models.Verdict{}, fmt.Errorf("failed to parse model verdict: %w", err)
	}

	verdict := models.Verdict{
		IsScam:     parsed.IsScam,
		Confidence: clamp01(parsed.Confidence),
		Rationale:  parsed.Reasoning,
		Source:     models.SourceModel,
		Available:  true,
	}

	if parsed.ScamType != nil && *parsed.ScamType != "" {
		verdict.ScamType = models.ScamType(*parsed.ScamType)
	} else if parsed.IsScam {
		verdict.ScamType = models.ScamTypeUnknown
	}

	switch models.RiskLevel(parsed.RiskLevel) {
	case models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical:
		verdict.RiskLevel = models.RiskLevel(parsed.RiskLevel)
	default:
		verdict.RiskLevel = models.RiskForConfidence(verdict.Confidence)
	}

	return verdict, nil
}

func unavailableVerdict(reason string) models.Verdict {
	return models.Verdict{
		IsScam:    false,
		RiskLevel: models.RiskLow,
		Rationale: reason,
		Source:    models.SourceModel,
		Available: false,
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
