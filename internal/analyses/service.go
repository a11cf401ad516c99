package analyses

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"tnc-backend/internal/companies"
	"tnc-backend/internal/llm"
	"tnc-backend/internal/shared/metrics"
	"tnc-backend/internal/shared/telemetry"
)

// promptTextLimit caps how much source text is embedded in the prompt. This
// is a token-budget control, independent of the fetcher's page cap.
const promptTextLimit = 2000

const systemPrompt = `You are a legal analyst. Return ONLY valid JSON with these keys:
- summary (1 sentence)
- data_collection (3 main data types)
- user_rights (3 main rights)
- readability (Easy/Moderate/Difficult)
- overall_risk (Low/Medium/High)`

// PageFetcher retrieves a terms page as plain text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Service contains the analysis pipeline: model call with fallback, score
// derivation and persistence.
type Service struct {
	Repo       Repo
	LLM        llm.Client
	Capability llm.Capability
	Fetcher    PageFetcher
	Dataset    *companies.Dataset

	// ComparePause is the fixed delay between companies in a comparison.
	ComparePause time.Duration
}

// Analyze produces a payload for the given text. It never fails outward:
// any model failure degrades to the fixed fallback record. analysisType is
// accepted as a forward-compatibility placeholder and does not affect
// behavior.
func (s *Service) Analyze(ctx context.Context, text, analysisType string) Payload {
	_ = analysisType

	metrics.IncAnalysisStarted()
	start := time.Now()
	defer func() {
		metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	}()

	if !s.Capability.Available {
		metrics.IncAnalysisFallback()
		return fallbackPayload()
	}

	payload, err := s.analyzeWithModel(ctx, text)
	if err != nil {
		telemetry.Warn("analysis.model_failed", map[string]any{"error": err.Error()})
		metrics.IncAnalysisFallback()
		return fallbackPayload()
	}
	if payload.Source == "ollama" {
		metrics.IncAnalysisModel()
	} else {
		metrics.IncAnalysisFallback()
	}
	return payload
}

func (s *Service) analyzeWithModel(ctx context.Context, text string) (Payload, error) {
	truncated := text
	if len(truncated) > promptTextLimit {
		truncated = truncated[:promptTextLimit]
	}
	prompt := "Briefly analyze these Terms & Conditions and return ONLY JSON:\n\n" + truncated

	raw, err := s.LLM.Generate(ctx, s.Capability.Model, prompt, systemPrompt)
	if err != nil {
		return Payload{}, err
	}

	var result modelResult
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &result); err != nil {
		// Malformed model output degrades to the canned record rather
		// than failing the request.
		telemetry.Warn("analysis.parse_failed", map[string]any{"error": err.Error()})
		return fallbackPayload(), nil
	}

	return scorePayload(result), nil
}

// Store persists one analysis under the given id and source, projecting the
// overall risk into the queryable column.
func (s *Service) Store(ctx context.Context, id, source string, payload Payload) error {
	return s.Repo.Create(ctx, Analysis{
		ID:        id,
		URL:       source,
		Domain:    deriveDomain(source),
		Payload:   payload,
		RiskScore: payload.RiskScores.OverallRisk,
	})
}

// StoreAsync persists an analysis after the response has been sent. Errors
// are logged, not surfaced.
func (s *Service) StoreAsync(id, source string, payload Payload) {
	go func() {
		if err := s.Store(context.Background(), id, source, payload); err != nil {
			telemetry.Error("analysis.store_failed", map[string]any{
				"analysis_id": id,
				"error":       err.Error(),
			})
		}
	}()
}

// History returns recent analyses, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	return s.Repo.History(ctx, limit)
}

// Get returns one stored analysis by id.
func (s *Service) Get(ctx context.Context, id string) (Analysis, error) {
	return s.Repo.GetByID(ctx, id)
}

// deriveDomain extracts the host portion of a source: the text after the
// last non-overlapping "//" separator, cut at the next "/". Sources without
// a "//" (e.g. "pdf:" tags) come back unchanged.
func deriveDomain(source string) string {
	parts := strings.Split(source, "//")
	host := parts[len(parts)-1]
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	return host
}

// stripCodeFences removes leading/trailing Markdown code-fence markers the
// model sometimes wraps JSON in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
