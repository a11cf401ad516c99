package analyses

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tnc-backend/internal/shared/telemetry"
)

// ComparisonEntry is one company's row in a comparison result. A failed
// company carries Error and the "Error" risk tier instead of an analysis.
type ComparisonEntry struct {
	Company    string      `json:"company"`
	Analysis   *Payload    `json:"analysis,omitempty"`
	RiskScores *RiskScores `json:"risk_scores,omitempty"`
	RiskLevel  string      `json:"risk_level"`
	Error      string      `json:"error,omitempty"`
}

// Compare analyzes the named companies strictly sequentially with a fixed
// pause between them, capturing per-company failures as "Error" rows rather
// than aborting the batch. Each successful analysis is persisted before the
// next company starts.
func (s *Service) Compare(ctx context.Context, names []string) ([]ComparisonEntry, []string) {
	entries := make([]ComparisonEntry, 0, len(names))

	for _, name := range names {
		entry, ok := s.compareOne(ctx, name)
		entries = append(entries, entry)
		if ok && s.ComparePause > 0 {
			// Rudimentary pacing so the fetcher and model are not
			// hammered back to back.
			time.Sleep(s.ComparePause)
		}
	}

	return entries, comparisonInsights(entries)
}

func (s *Service) compareOne(ctx context.Context, name string) (ComparisonEntry, bool) {
	company, err := s.Dataset.LookupExact(name)
	if err != nil {
		return ComparisonEntry{
			Company:   name,
			Error:     fmt.Sprintf("Company '%s' not found in dataset", name),
			RiskLevel: "Error",
		}, false
	}

	text, err := s.Fetcher.Fetch(ctx, company.TermsURL)
	if err != nil {
		telemetry.Warn("compare.fetch_failed", map[string]any{"company": company.Name, "error": err.Error()})
		return ComparisonEntry{
			Company:   name,
			Error:     err.Error(),
			RiskLevel: "Error",
		}, false
	}

	payload := s.Analyze(ctx, text, "standard")
	if err := s.Store(ctx, uuid.NewString(), company.TermsURL, payload); err != nil {
		telemetry.Error("compare.store_failed", map[string]any{"company": company.Name, "error": err.Error()})
	}

	scores := payload.RiskScores
	return ComparisonEntry{
		Company:    company.Name,
		Analysis:   &payload,
		RiskScores: &scores,
		RiskLevel:  payload.RiskLevel,
	}, true
}

// comparisonInsights derives up to three textual insights. Fewer than two
// valid entries yields an empty list, which serializes as [] rather than
// null.
func comparisonInsights(entries []ComparisonEntry) []string {
	var valid []ComparisonEntry
	for _, e := range entries {
		if e.Error == "" && e.RiskScores != nil {
			valid = append(valid, e)
		}
	}
	if len(valid) < 2 {
		return []string{}
	}

	lowestData, highestData, bestRights := valid[0], valid[0], valid[0]
	for _, e := range valid[1:] {
		if e.RiskScores.DataRisk < lowestData.RiskScores.DataRisk {
			lowestData = e
		}
		if e.RiskScores.DataRisk > highestData.RiskScores.DataRisk {
			highestData = e
		}
		if e.RiskScores.UserRightsScore > bestRights.RiskScores.UserRightsScore {
			bestRights = e
		}
	}

	return []string{
		fmt.Sprintf("%s has the lowest data collection risk", lowestData.Company),
		fmt.Sprintf("%s has the highest data collection risk", highestData.Company),
		fmt.Sprintf("%s offers the best user rights", bestRights.Company),
	}
}
