package detection

import (
	"strings"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/pkg/logger"
)

// Arbiter merges the rule verdict with the model verdict. The rules are
// the floor: an unavailable or timid model can never lower a rule
// detection, only confirm or extend it.
type Arbiter struct {
	logger *logger.Logger
}

// NewArbiter creates a new Arbiter
func NewArbiter(log *logger.Logger) *Arbiter {
	return &Arbiter{
		logger: log.WithComponent("arbiter"),
	}
}

// Merge combines the two verdicts into the final one
func (a *Arbiter) Merge(rule, model models.Verdict) models.Verdict {
	if !model.Available {
		final := rule
		final.Source = models.SourceRules
		return final
	}

	final := models.Verdict{
		IsScam:    rule.IsScam || model.IsScam,
		Source:    models.SourceMerged,
		Available: true,
	}

	// Confidence is the max of the two, never an average: two weak
	// signals must not manufacture a strong one
	if model.Confidence > rule.Confidence {
		final.Confidence = model.Confidence
	} else {
		final.Confidence = rule.Confidence
	}

	// Type and risk follow the stronger scam-positive source
	winner := rule
	if pickModel(rule, model) {
		winner = model
	}
	final.ScamType = winner.ScamType
	final.RiskLevel = winner.RiskLevel

	if !final.IsScam {
		final.ScamType = models.ScamTypeNone
		final.RiskLevel = models.RiskLow
	}

	final.Rationale = joinRationales(rule.Rationale, model.Rationale)

	a.logger.Debug().
		Bool("is_scam", final.IsScam).
		Float64("confidence", final.Confidence).
		Str("winner", string(winner.Source)).
		Msg("verdicts merged")

	return final
}

// pickModel reports whether the model verdict should drive type and risk
func pickModel(rule, model models.Verdict) bool {
	if rule.IsScam != model.IsScam {
		// Only one side detected a scam, that side carries the detail
		return model.IsScam
	}
	return model.Confidence > rule.Confidence
}

func joinRationales(rule, model string) string {
	parts := make([]string, 0, 2)
	if rule != "" {
		parts = append(parts, "rules: "+rule)
	}
	if model != "" {
		parts = append(parts, "model: "+model)
	}
	return strings.Join(parts, "; ")
}
