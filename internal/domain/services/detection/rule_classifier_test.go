package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"honeytrap-lab/internal/domain/models"
	"honeytrap-lab/pkg/logger"
)

func newTestRules(t *testing.T) *RuleClassifier {
	t.Helper()
	return NewRuleClassifier(logger.NewDefault())
}

func TestRuleClassifierLottery(t *testing.T) {
	c := newTestRules(t)

	v := c.Classify("Congratulations! You won the lottery prize of 50 lakh. Claim now!")
	assert.True(t, v.IsScam)
	assert.Equal(t, models.ScamTypeLottery, v.ScamType)
	assert.GreaterOrEqual(t, v.Confidence, 0.5)
	assert.True(t, v.Available)
	assert.Equal(t, models.SourceRules, v.Source)
}

func TestRuleClassifierKYC(t *testing.T) {
	c := newTestRules(t)

	v := c.Classify("Your KYC blocked. Account suspended. Verify immediately or account will be closed.")
	assert.True(t, v.IsScam)
	assert.Equal(t, models.ScamTypeKYC, v.ScamType)
	assert.Equal(t, models.RiskHigh, v.RiskLevel)
}

func TestRuleClassifierBenign(t *testing.T) {
	c := newTestRules(t)

	v := c.Classify("Meeting moved to 3pm, see you in the conference room.")
	assert.False(t, v.IsScam)
	assert.Equal(t, models.RiskLow, v.RiskLevel)
	assert.Equal(t, models.ScamTypeNone, v.ScamType)
}

func TestRuleClassifierConfidenceCapped(t *testing.T) {
	c := newTestRules(t)

	// Pile on every high-confidence phrase; confidence must stay capped
	v := c.Classify("lottery won prize claim prize send money pay fee processing fee advance payment kyc blocked account suspended verify immediately verify now will be blocked share your upi")
	assert.True(t, v.IsScam)
	assert.LessOrEqual(t, v.Confidence, 0.95)
}

func TestRuleClassifierMonotonicConfidence(t *testing.T) {
	c := newTestRules(t)

	few := c.Classify("urgent verify account")
	more := c.Classify("urgent verify account otp bank transfer payment reward bonus")
	assert.GreaterOrEqual(t, more.Confidence, few.Confidence)
}

func TestRiskBuckets(t *testing.T) {
	assert.Equal(t, models.RiskHigh, models.RiskForConfidence(0.9))
	assert.Equal(t, models.RiskMedium, models.RiskForConfidence(0.5))
	assert.Equal(t, models.RiskLow, models.RiskForConfidence(0.3))
}
