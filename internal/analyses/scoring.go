package analyses

import "math"

var readabilityScores = map[string]float64{
	"Easy":      9,
	"Moderate":  6,
	"Difficult": 3,
}

var riskTierScores = map[string]float64{
	"Low":    3,
	"Medium": 6,
	"High":   8,
}

// scorePayload derives the numeric risk scores, the risk tier and the
// recommendation for a model-produced result.
func scorePayload(result modelResult) Payload {
	dataRisk := math.Min(10, float64(len(result.DataCollection))*0.5+3)
	rightsScore := math.Min(10, float64(len(result.UserRights))*1.5)

	readabilityScore, ok := readabilityScores[result.Readability]
	if !ok {
		readabilityScore = 5
	}

	// Prefer an explicit numeric score from the model; otherwise map the
	// tier string. The tier in risk_level is then re-derived from the
	// numeric value, matching the observed reference behavior.
	var overallRisk float64
	if result.OverallRiskScore != nil {
		overallRisk = *result.OverallRiskScore
	} else if mapped, ok := riskTierScores[result.OverallRisk]; ok {
		overallRisk = mapped
	} else {
		overallRisk = 5
	}
	overallRisk = round1(overallRisk)

	return Payload{
		Summary:         result.Summary,
		DataCollection:  result.DataCollection,
		UserRights:      result.UserRights,
		Readability:     result.Readability,
		OverallRiskTier: result.OverallRisk,
		RiskScores: RiskScores{
			DataRisk:         round1(dataRisk),
			UserRightsScore:  round1(rightsScore),
			ReadabilityScore: readabilityScore,
			OverallRisk:      overallRisk,
		},
		RiskLevel:       riskLevel(overallRisk),
		Recommendations: []string{recommendation(overallRisk)},
		Source:          "ollama",
	}
}

func riskLevel(overallRisk float64) string {
	switch {
	case overallRisk >= 7:
		return "High"
	case overallRisk >= 4:
		return "Medium"
	default:
		return "Low"
	}
}

func recommendation(overallRisk float64) string {
	switch {
	case overallRisk >= 7:
		return "High risk - review carefully before agreeing"
	case overallRisk >= 4:
		return "Moderate risk - standard terms with some concerns"
	default:
		return "Low risk - generally favorable terms"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
