package handlers

import (
	"errors"
	"net/http"

	"github.com/aquaguard/backend/internal/config"
	"github.com/aquaguard/backend/internal/services"
	"github.com/aquaguard/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AnalyzeHandler fronts the report triage pipeline.
type AnalyzeHandler struct {
	analyzer *services.AnalyzerService
}

func NewAnalyzeHandler(db *gorm.DB, llmCfg *config.LLMConfig) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: services.NewAnalyzerService(db, llmCfg),
	}
}

// NewAnalyzeHandlerWithService injects a pre-built analyzer, used in tests.
func NewAnalyzeHandlerWithService(analyzer *services.AnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// Analyze runs duplicate detection and credibility assessment for a report
// and persists the verdict.
// POST /api/reports/analyze
//
// Rate limiting (429) and quota exhaustion (402) are passed through distinctly
// so the client can retry later or alert an operator; other provider or
// persistence failures collapse to a generic 500 and leave the report's
// analyzer fields untouched.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req services.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		case errors.Is(err, services.ErrQuotaExhausted):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "AI credits exhausted. Please contact support."})
		case errors.Is(err, services.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		case errors.Is(err, services.ErrAlreadyAnalyzed):
			c.JSON(http.StatusConflict, gin.H{"error": "report already analyzed; set force to reanalyze"})
		default:
			logger.Errorf("[Analyze] Report %s failed: %v", req.ReportID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"confidence_score": result.ConfidenceScore,
		"analysis":         result.Analysis,
		"is_duplicate":     result.IsDuplicate,
		"duplicate_of":     result.DuplicateOf,
	})
}
