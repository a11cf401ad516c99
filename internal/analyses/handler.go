package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tnc-backend/internal/companies"
	"tnc-backend/internal/extract"
	"tnc-backend/internal/shared/server/respond"
	"tnc-backend/internal/shared/telemetry"
	"tnc-backend/internal/shared/util"
)

// Version is reported by the root and health endpoints.
const Version = "2.0.0"

// maxPDFBytes caps uploaded PDF size.
const maxPDFBytes = 20 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc         *Service
	Dataset     *companies.Dataset
	DBConnected bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, dataset *companies.Dataset, dbConnected bool) *Handler {
	return &Handler{Svc: svc, Dataset: dataset, DBConnected: dbConnected}
}

// RegisterRoutes attaches all routes to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.root)
	r.GET("/health", h.health)
	r.GET("/companies", h.listCompanies)

	api := r.Group("/api")
	api.POST("/analyze", h.analyzeText)
	api.GET("/analyze/url", h.analyzeURL)
	api.GET("/analyze/company/:name", h.analyzeCompany)
	api.POST("/analyze/pdf", h.analyzePDF)
	api.POST("/compare", h.compareCompanies)
	api.GET("/history", h.history)
	api.GET("/analysis/:id", h.getAnalysis)
}

func (h *Handler) root(c *gin.Context) {
	respond.OK(c, gin.H{
		"message":          "AI Terms & Conditions Analyzer API",
		"version":          Version,
		"ai_available":     h.Svc.Capability.Available,
		"companies_loaded": h.Dataset.Len(),
		"ai_provider":      "ollama",
	})
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{
		"status":             "healthy",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"ai_available":       h.Svc.Capability.Available,
		"ai_provider":        "ollama",
		"database_connected": h.DBConnected,
	})
}

func (h *Handler) listCompanies(c *gin.Context) {
	if h.Dataset.Len() == 0 {
		respond.Error(c, http.StatusInternalServerError, "dataset_unavailable", "Dataset not loaded", nil)
		return
	}
	respond.OK(c, h.Dataset.All())
}

type analyzeRequest struct {
	Text            string         `json:"text" binding:"required"`
	URL             string         `json:"url"`
	AnalysisType    string         `json:"analysis_type"`
	UserPreferences map[string]any `json:"user_preferences"`
}

// analyzeText is the main analysis endpoint. It reports failures in-band
// with success:false rather than via HTTP status.
func (h *Handler) analyzeText(c *gin.Context) {
	start := time.Now()

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.OK(c, gin.H{"success": false, "error": err.Error()})
		return
	}

	analysisID := uuid.NewString()
	payload := h.Svc.Analyze(c.Request.Context(), req.Text, analysisType(req.AnalysisType))

	// Persistence is deferred so the caller is not held up by the store.
	h.Svc.StoreAsync(analysisID, req.URL, payload)

	c.Set("analysisId", analysisID)
	respond.OK(c, gin.H{
		"success":         true,
		"data":            payload,
		"analysis_id":     analysisID,
		"processing_time": time.Since(start).Seconds(),
	})
}

func (h *Handler) analyzeURL(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "url is required", nil)
		return
	}

	text, err := h.Svc.Fetcher.Fetch(c.Request.Context(), url)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "fetch_failed", err.Error(), nil)
		return
	}

	payload := h.Svc.Analyze(c.Request.Context(), text, analysisType(c.Query("analysis_type")))

	analysisID := uuid.NewString()
	if err := h.Svc.Store(c.Request.Context(), analysisID, url, payload); err != nil {
		respond.Error(c, http.StatusInternalServerError, "store_failed", "failed to store analysis", nil)
		return
	}

	c.Set("analysisId", analysisID)
	respond.OK(c, gin.H{
		"success":      true,
		"url":          url,
		"analysis":     payload,
		"analysis_id":  analysisID,
		"text_preview": preview(text),
	})
}

func (h *Handler) analyzeCompany(c *gin.Context) {
	name := c.Param("name")

	company, err := h.Dataset.Lookup(name)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "Company '"+name+"' not found in dataset", nil)
		return
	}
	telemetry.Info("company.resolved", map[string]any{"query": name, "company": company.Name, "url": company.TermsURL})

	text, err := h.Svc.Fetcher.Fetch(c.Request.Context(), company.TermsURL)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "fetch_failed", err.Error(), nil)
		return
	}

	payload := h.Svc.Analyze(c.Request.Context(), text, analysisType(c.Query("analysis_type")))

	analysisID := uuid.NewString()
	if err := h.Svc.Store(c.Request.Context(), analysisID, company.TermsURL, payload); err != nil {
		respond.Error(c, http.StatusInternalServerError, "store_failed", "failed to store analysis", nil)
		return
	}

	c.Set("analysisId", analysisID)
	respond.OK(c, gin.H{
		"success":     true,
		"company":     company.Name,
		"company_id":  company.ID,
		"url":         company.TermsURL,
		"analysis":    payload,
		"analysis_id": analysisID,
	})
}

func (h *Handler) analyzePDF(c *gin.Context) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "pdf file is required", nil)
		return
	}
	defer file.Close()

	filename, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File must be a PDF", nil)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPDFBytes))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}

	text, err := extract.PDF(data)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "extraction_failed", "Could not extract text from PDF", nil)
		return
	}
	if strings.TrimSpace(text) == "" {
		respond.Error(c, http.StatusBadRequest, "extraction_failed", "Could not extract text from PDF", nil)
		return
	}

	payload := h.Svc.Analyze(c.Request.Context(), text, analysisType(c.Query("analysis_type")))

	analysisID := uuid.NewString()
	h.Svc.StoreAsync(analysisID, "pdf:"+filename, payload)

	c.Set("analysisId", analysisID)
	respond.OK(c, gin.H{
		"success":      true,
		"filename":     filename,
		"analysis":     payload,
		"analysis_id":  analysisID,
		"text_preview": preview(text),
	})
}

type compareRequest struct {
	Companies         []string `json:"companies" binding:"required"`
	ComparisonMetrics []string `json:"comparison_metrics"`
}

func (h *Handler) compareCompanies(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	metrics := req.ComparisonMetrics
	if len(metrics) == 0 {
		metrics = []string{"data_risk", "user_rights", "readability"}
	}

	comparisons, insights := h.Svc.Compare(c.Request.Context(), req.Companies)

	respond.OK(c, gin.H{
		"comparisons": comparisons,
		"insights":    insights,
		"metrics":     metrics,
	})
}

func (h *Handler) history(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	entries, err := h.Svc.History(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch history", nil)
		return
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}

	respond.OK(c, gin.H{
		"history": entries,
		"total":   len(entries),
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	c.Set("analysisId", analysis.ID)
	respond.OK(c, gin.H{
		"success":     true,
		"analysis_id": analysis.ID,
		"data":        analysis.Payload,
	})
}

func analysisType(v string) string {
	if v == "" {
		return "standard"
	}
	return v
}

// preview returns the first 200 characters of text plus an ellipsis when
// truncated.
func preview(text string) string {
	if len(text) > 200 {
		return text[:200] + "..."
	}
	return text
}
