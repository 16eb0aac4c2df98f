package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aquaguard/backend/internal/config"
	"github.com/aquaguard/backend/internal/models"
	"github.com/aquaguard/backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	// Reports of the same type in the same county within this window are
	// duplicate candidates.
	candidateLookbackWindow = 24 * time.Hour
	maxCandidates           = 10

	duplicatePenalty    = 30
	duplicateScoreFloor = 20
)

// Analyzer error taxonomy. Rate limiting and quota exhaustion are surfaced
// distinctly so callers can choose between retry-later and stop-and-alert;
// everything else collapses to a generic failure at the API boundary.
var (
	ErrMissingAPIKey   = errors.New("model provider api key not configured")
	ErrRateLimited     = errors.New("model provider rate limit exceeded")
	ErrQuotaExhausted  = errors.New("model provider quota exhausted")
	ErrProvider        = errors.New("model provider request failed")
	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyAnalyzed = errors.New("report already analyzed")
)

// WeatherSnapshot is advisory weather context passed through to the prompt.
// It is never validated or stored by the analyzer.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall24h float64 `json:"rainfall24h"`
}

// AnalyzeRequest identifies a submitted report and carries the context needed
// to assess it. Optional fields are nil when the submitter omitted them.
type AnalyzeRequest struct {
	ReportID    string           `json:"reportId" binding:"required"`
	ReportType  string           `json:"reportType" binding:"required"`
	CountyID    string           `json:"countyId" binding:"required"`
	TownName    *string          `json:"townName"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Description *string          `json:"description"`
	Weather     *WeatherSnapshot `json:"weatherData"`

	// Force permits reanalysis of a report that already has a verdict.
	// Without it a second invocation fails with ErrAlreadyAnalyzed instead
	// of silently overwriting the previous verdict.
	Force bool `json:"force"`
}

// AnalysisResult is the credibility verdict written onto the report and
// echoed back to the caller.
type AnalysisResult struct {
	ConfidenceScore int     `json:"confidence_score"`
	Analysis        string  `json:"analysis"`
	IsDuplicate     bool    `json:"is_duplicate"`
	DuplicateOf     *string `json:"duplicate_of"`
}

// AnalyzerService runs the report triage pipeline: duplicate detection
// against recent nearby reports, model credibility assessment, score
// adjustment, and persistence of the verdict.
type AnalyzerService struct {
	db       *gorm.DB
	cfg      *config.LLMConfig
	assessor CredibilityAssessor
}

func NewAnalyzerService(db *gorm.DB, cfg *config.LLMConfig) *AnalyzerService {
	return &AnalyzerService{
		db:       db,
		cfg:      cfg,
		assessor: NewLLMAssessor(cfg),
	}
}

// NewAnalyzerServiceWithAssessor injects a custom assessor, used in tests.
func NewAnalyzerServiceWithAssessor(db *gorm.DB, cfg *config.LLMConfig, assessor CredibilityAssessor) *AnalyzerService {
	return &AnalyzerService{db: db, cfg: cfg, assessor: assessor}
}

// Analyze runs the full pipeline for one report. The only shared-state
// mutation is a single UPDATE of the four analyzer-owned columns; any failure
// before that leaves the report untouched.
func (s *AnalyzerService) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalysisResult, error) {
	// Ollama is the only provider that runs without a credential.
	if s.cfg.APIKey == "" && s.cfg.Provider != "ollama" {
		return nil, ErrMissingAPIKey
	}

	logger.Info().
		Str("report_id", req.ReportID).
		Str("report_type", req.ReportType).
		Str("county_id", req.CountyID).
		Msg("analyzing report")

	candidates := s.fetchCandidates(ctx, req)
	duplicateID, isDuplicate := findDuplicate(req.Latitude, req.Longitude, candidates)

	assessCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	raw, err := s.assessor.Assess(assessCtx, assessorSystemPrompt, buildUserPrompt(req, len(candidates), isDuplicate))
	if err != nil {
		return nil, err
	}

	verdict := parseVerdict(raw)
	score := verdict.ConfidenceScore
	analysis := verdict.Analysis

	if isDuplicate {
		score = score - duplicatePenalty
		if score < duplicateScoreFloor {
			score = duplicateScoreFloor
		}
		analysis = fmt.Sprintf("⚠️ POTENTIAL DUPLICATE: A similar %s report was submitted nearby within the last 24 hours. %s",
			strings.ReplaceAll(req.ReportType, "_", " "), analysis)
	}

	result := &AnalysisResult{
		ConfidenceScore: score,
		Analysis:        analysis,
		IsDuplicate:     isDuplicate,
	}
	if isDuplicate {
		result.DuplicateOf = &duplicateID
	}

	if err := s.persistVerdict(ctx, req, result); err != nil {
		return nil, err
	}

	logger.Info().
		Str("report_id", req.ReportID).
		Int("confidence_score", score).
		Bool("is_duplicate", isDuplicate).
		Msg("report analysis complete")

	return result, nil
}

// ProcessAnalysisTask adapts a queued submission task into a pipeline run.
// Used as the processor for both the sync and the Redis-backed queue.
func (s *AnalyzerService) ProcessAnalysisTask(ctx context.Context, task *AnalysisTask) error {
	result, err := s.Analyze(ctx, task.ToAnalyzeRequest())
	if err != nil {
		// A requeued task after a successful run trips the write guard;
		// that is terminal, not worth a retry.
		if errors.Is(err, ErrAlreadyAnalyzed) {
			logger.Infof("[Analyzer] Report %s already analyzed, skipping", task.ReportID)
			return nil
		}
		return err
	}

	logger.Debugf("[Analyzer] Background analysis for report %s scored %d", task.ReportID, result.ConfidenceScore)
	return nil
}

// fetchCandidates returns recent same-type reports in the same county,
// most-recent-first. Retrieval failure degrades to an empty candidate set so
// an unavailable store never blocks the analysis itself.
func (s *AnalyzerService) fetchCandidates(ctx context.Context, req *AnalyzeRequest) []models.EnvironmentalReport {
	since := time.Now().Add(-candidateLookbackWindow)

	var candidates []models.EnvironmentalReport
	err := s.db.WithContext(ctx).
		Where("county_id = ? AND report_type = ? AND id <> ? AND created_at >= ?",
			req.CountyID, req.ReportType, req.ReportID, since).
		Order("created_at DESC").
		Limit(maxCandidates).
		Find(&candidates).Error
	if err != nil {
		logger.Warnf("[Analyzer] Candidate lookup failed, skipping duplicate detection: %v", err)
		return nil
	}

	return candidates
}

// persistVerdict writes the four analyzer-owned columns in one conditional
// UPDATE. Unless the request forces reanalysis, the update is guarded on the
// report not having a verdict yet.
func (s *AnalyzerService) persistVerdict(ctx context.Context, req *AnalyzeRequest, result *AnalysisResult) error {
	tx := s.db.WithContext(ctx).
		Model(&models.EnvironmentalReport{}).
		Where("id = ?", req.ReportID)
	if !req.Force {
		tx = tx.Where("ai_confidence_score IS NULL")
	}

	res := tx.Updates(map[string]interface{}{
		"ai_confidence_score": result.ConfidenceScore,
		"ai_analysis":         result.Analysis,
		"is_duplicate":        result.IsDuplicate,
		"duplicate_of":        result.DuplicateOf,
	})
	if res.Error != nil {
		return fmt.Errorf("persist analysis: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		s.db.WithContext(ctx).
			Model(&models.EnvironmentalReport{}).
			Where("id = ?", req.ReportID).
			Count(&count)
		if count == 0 {
			return ErrReportNotFound
		}
		return ErrAlreadyAnalyzed
	}

	return nil
}
