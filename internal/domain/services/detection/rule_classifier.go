package detection

import (
	"fmt"
	"strings"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/pkg/logger"
)

// RuleClassifier scores a conversation against the keyword pattern table.
// It is deterministic, always available, and serves as the floor the
// model-backed classifier can only raise.
type RuleClassifier struct {
	logger *logger.Logger
}

// NewRuleClassifier creates a new RuleClassifier
func NewRuleClassifier(log *logger.Logger) *RuleClassifier {
	return &RuleClassifier{
		logger: log.WithComponent("rule-classifier"),
	}
}

// Classify scores the full conversation text. Confidence is monotonic
// in the number of matched keywords and capped at 0.95.
func (c *RuleClassifier) Classify(text string) models.Verdict {
	lower := strings.ToLower(text)

	highMatches := countMatches(lower, highConfidenceKeywords)
	regularMatches := countMatches(lower, scamKeywords)

	var confidence float64
	var isScam bool
	if highMatches >= 1 {
		confidence = min(0.95, 0.5+float64(highMatches)*0.2)
		isScam = true
	} else {
		confidence = min(0.95, float64(regularMatches)*0.1)
		isScam = regularMatches >= 3 && confidence > 0.25
	}

	verdict := models.Verdict{
		IsScam:     isScam,
		Confidence: confidence,
		RiskLevel:  models.RiskForConfidence(confidence),
		Rationale: fmt.Sprintf("Detected %d high-confidence and %d regular scam indicators",
			highMatches, regularMatches),
		Source:    models.SourceRules,
		Available: true,
	}

	if isScam {
		verdict.ScamType = classifyType(lower)
	} else {
		verdict.RiskLevel = models.RiskLow
	}

	c.logger.Debug().
		Bool("is_scam", verdict.IsScam).
		Float64("confidence", verdict.Confidence).
		Str("scam_type", string(verdict.ScamType)).
		Msg("rule classification complete")

	return verdict
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

func classifyType(text string) models.ScamType {
	for _, p := range typePatterns {
		for _, kw := range p.Keywords {
			if strings.Contains(text, kw) {
				return p.Type
			}
		}
	}
	return models.ScamTypeUnknown
}
