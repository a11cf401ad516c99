package analyses

// fallbackPayload returns the fixed non-AI analysis used whenever the model
// runtime is unavailable or its output cannot be used. It is deterministic:
// every invocation yields an identical record.
func fallbackPayload() Payload {
	return Payload{
		Summary:        "Automated analysis of terms and conditions using fallback method.",
		DataCollection: []string{"contact_info", "usage_data", "cookies"},
		UserRights:     []string{"data_access", "account_deletion", "privacy_controls"},
		Readability:    "Moderate",
		RiskScores: RiskScores{
			DataRisk:         5.0,
			UserRightsScore:  6.0,
			ReadabilityScore: 6,
			OverallRisk:      5.5,
		},
		RiskLevel: "Medium",
		Recommendations: []string{
			"Standard terms analysis completed",
			"Review specific clauses for your use case",
		},
		Source: "fallback",
	}
}
