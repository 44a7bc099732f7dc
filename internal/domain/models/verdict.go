package models

// ScamType categorizes the detected fraud scheme
type ScamType string

const (
	ScamTypeLottery       ScamType = "lottery_scam"
	ScamTypeKYC           ScamType = "kyc_scam"
	ScamTypeFinancial     ScamType = "financial_scam"
	ScamTypePhishing      ScamType = "phishing"
	ScamTypeImpersonation ScamType = "impersonation"
	ScamTypeJobInvestment ScamType = "job_investment_scam"
	ScamTypeUnknown       ScamType = "unknown"
	ScamTypeNone          ScamType = ""
)

// RiskLevel buckets verdict confidence for downstream consumers
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// VerdictSource identifies which classifier produced a verdict
type VerdictSource string

const (
	SourceRules  VerdictSource = "rules"
	SourceModel  VerdictSource = "model"
	SourceMerged VerdictSource = "merged"
)

// Verdict is a classifier's judgment of a conversation
type Verdict struct {
	IsScam     bool          `json:"is_scam"`
	ScamType   ScamType      `json:"scam_type"`
	RiskLevel  RiskLevel     `json:"risk_level"`
	Confidence float64       `json:"confidence"`
	Rationale  string        `json:"rationale"`
	Source     VerdictSource `json:"source"`

	// Available is false when a model backend could not be reached.
	// Rule verdicts are always available.
	Available bool `json:"available"`
}

// RiskForConfidence maps a confidence score to a risk bucket
func RiskForConfidence(confidence float64) RiskLevel {
	switch {
	case confidence > 0.7:
		return RiskHigh
	case confidence > 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}
