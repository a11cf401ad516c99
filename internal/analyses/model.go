package analyses

import "time"

// RiskScores are the derived numeric scores attached to every payload.
type RiskScores struct {
	DataRisk         float64 `json:"data_risk"`
	UserRightsScore  float64 `json:"user_rights_score"`
	ReadabilityScore float64 `json:"readability_score"`
	OverallRisk      float64 `json:"overall_risk"`
}

// Payload is the full structured analysis stored for each request.
type Payload struct {
	Summary         string     `json:"summary"`
	DataCollection  []string   `json:"data_collection"`
	UserRights      []string   `json:"user_rights"`
	Readability     string     `json:"readability"`
	OverallRiskTier string     `json:"overall_risk,omitempty"`
	RiskScores      RiskScores `json:"risk_scores"`
	RiskLevel       string     `json:"risk_level"`
	Recommendations []string   `json:"recommendations"`
	Source          string     `json:"source"`
}

// Analysis is one persisted analysis row.
type Analysis struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	Payload   Payload   `json:"payload"`
	RiskScore float64   `json:"risk_score"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is the summary projection returned by history listings.
type HistoryEntry struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	RiskScore float64   `json:"risk_score"`
	CreatedAt time.Time `json:"created_at"`
}

// modelResult is the shape the model is asked to return.
type modelResult struct {
	Summary          string   `json:"summary"`
	DataCollection   []string `json:"data_collection"`
	UserRights       []string `json:"user_rights"`
	Readability      string   `json:"readability"`
	OverallRisk      string   `json:"overall_risk"`
	OverallRiskScore *float64 `json:"overall_risk_score"`
}
