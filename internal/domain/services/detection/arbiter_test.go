package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/pkg/logger"
)

func TestArbiterModelUnavailable(t *testing.T) {
	a := NewArbiter(logger.NewDefault())

	rule := models.Verdict{
		IsScam:     true,
		ScamType:   models.ScamTypeLottery,
		RiskLevel:  models.RiskMedium,
		Confidence: 0.7,
		Rationale:  "matched 4 keywords",
		Source:     models.SourceRules,
		Available:  true,
	}
	model := models.Verdict{Source: models.SourceModel, Available: false}

	final := a.Merge(rule, model)
	assert.Equal(t, rule.IsScam, final.IsScam)
	assert.Equal(t, rule.ScamType, final.ScamType)
	assert.Equal(t, rule.RiskLevel, final.RiskLevel)
	assert.Equal(t, rule.Confidence, final.Confidence)
	assert.Equal(t, models.SourceRules, final.Source)
}

func TestArbiterScamIsOr(t *testing.T) {
	a := NewArbiter(logger.NewDefault())

	rule := models.Verdict{IsScam: false, RiskLevel: models.RiskLow, Confidence: 0.1, Source: models.SourceRules, Available: true}
	model := models.Verdict{IsScam: true, ScamType: models.ScamTypePhishing, RiskLevel: models.RiskHigh, Confidence: 0.8, Source: models.SourceModel, Available: true}

	final := a.Merge(rule, model)
	assert.True(t, final.IsScam)
	assert.Equal(t, models.ScamTypePhishing, final.ScamType)
	assert.Equal(t, models.RiskHigh, final.RiskLevel)
	assert.Equal(t, models.SourceMerged, final.Source)
}

func TestArbiterConfidenceIsMax(t *testing.T) {
	a := NewArbiter(logger.NewDefault())

	rule := models.Verdict{IsScam: true, ScamType: models.ScamTypeKYC, RiskLevel: models.RiskHigh, Confidence: 0.9, Source: models.SourceRules, Available: true}
	model := models.Verdict{IsScam: true, ScamType: models.ScamTypeKYC, RiskLevel: models.RiskMedium, Confidence: 0.6, Source: models.SourceModel, Available: true}

	final := a.Merge(rule, model)
	assert.Equal(t, 0.9, final.Confidence)
	// Rule side is stronger, so its risk wins
	assert.Equal(t, models.RiskHigh, final.RiskLevel)
}

func TestArbiterStrongerModelDrivesType(t *testing.T) {
	a := NewArbiter(logger.NewDefault())

	rule := models.Verdict{IsScam: true, ScamType: models.ScamTypeFinancial, RiskLevel: models.RiskMedium, Confidence: 0.5, Rationale: "keywords", Source: models.SourceRules, Available: true}
	model := models.Verdict{IsScam: true, ScamType: models.ScamTypeImpersonation, RiskLevel: models.RiskCritical, Confidence: 0.95, Rationale: "authority claims", Source: models.SourceModel, Available: true}

	final := a.Merge(rule, model)
	assert.Equal(t, models.ScamTypeImpersonation, final.ScamType)
	assert.Equal(t, models.RiskCritical, final.RiskLevel)
	assert.Equal(t, 0.95, final.Confidence)
	assert.Equal(t, "rules: keywords; model: authority claims", final.Rationale)
}

func TestArbiterBothNegative(t *testing.T) {
	a := NewArbiter(logger.NewDefault())

	rule := models.Verdict{IsScam: false, RiskLevel: models.RiskLow, Confidence: 0.2, Source: models.SourceRules, Available: true}
	model := models.Verdict{IsScam: false, RiskLevel: models.RiskMedium, Confidence: 0.3, Source: models.SourceModel, Available: true}

	final := a.Merge(rule, model)
	assert.False(t, final.IsScam)
	assert.Equal(t, models.ScamTypeNone, final.ScamType)
	assert.Equal(t, models.RiskLow, final.RiskLevel)
	assert.Equal(t, 0.3, final.Confidence)
}
