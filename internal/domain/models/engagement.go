package models

// Persona describes the character the engagement agent plays
type Persona struct {
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Occupation string   `json:"occupation"`
	Traits     []string `json:"traits"`
}

// EngagementMetrics tracks how long the agent has kept a scammer talking
type EngagementMetrics struct {
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
}

// AnalyzeResponse is the honeypot analyze result
type AnalyzeResponse struct {
	Status            string            `json:"status"`
	SessionID         string            `json:"sessionId,omitempty"`
	ScamDetected      bool              `json:"scamDetected"`
	ScamType          ScamType          `json:"scamType,omitempty"`
	RiskLevel         RiskLevel         `json:"riskLevel,omitempty"`
	Confidence        float64           `json:"confidence"`
	Reply             string            `json:"reply,omitempty"`
	Persona           string            `json:"persona,omitempty"`
	EngagementMetrics EngagementMetrics `json:"engagementMetrics"`
	Intelligence      Intelligence      `json:"extractedIntelligence"`
	AgentNotes        string            `json:"agentNotes"`
}
