package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aquaguard/backend/internal/config"
	"github.com/aquaguard/backend/internal/models"
	"github.com/aquaguard/backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubAssessor struct {
	response string
	err      error
}

func (s *stubAssessor) Assess(context.Context, string, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func setupAnalyzeRouter(t *testing.T, assessor services.CredibilityAssessor) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.EnvironmentalReport{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	cfg := &config.LLMConfig{
		Provider:       "openai",
		APIKey:         "test-key",
		TimeoutSeconds: 30,
	}
	handler := NewAnalyzeHandlerWithService(services.NewAnalyzerServiceWithAssessor(db, cfg, assessor))

	r := gin.New()
	r.POST("/api/reports/analyze", handler.Analyze)
	return r, db
}

func postAnalyze(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/reports/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedPendingReport(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	report := &models.EnvironmentalReport{
		ID:         id,
		ReporterID: 1,
		CountyID:   "nairobi",
		ReportType: models.ReportTypeFloodedRoad,
		Latitude:   -1.2921,
		Longitude:  36.8219,
		Status:     models.ReportStatusPending,
	}
	if err := db.Create(report).Error; err != nil {
		t.Fatalf("seed report: %v", err)
	}
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	assessor := &stubAssessor{response: `{"confidence_score": 85, "analysis": "Credible report."}`}
	r, db := setupAnalyzeRouter(t, assessor)
	seedPendingReport(t, db, "report-1")

	w := postAnalyze(r, `{
		"reportId": "report-1",
		"reportType": "flooded_road",
		"countyId": "nairobi",
		"latitude": -1.2921,
		"longitude": 36.8219
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200, body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success         bool    `json:"success"`
		ConfidenceScore int     `json:"confidence_score"`
		Analysis        string  `json:"analysis"`
		IsDuplicate     bool    `json:"is_duplicate"`
		DuplicateOf     *string `json:"duplicate_of"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Error("success should be true")
	}
	if resp.ConfidenceScore != 85 {
		t.Errorf("confidence_score = %d, expected 85", resp.ConfidenceScore)
	}
	if resp.Analysis != "Credible report." {
		t.Errorf("analysis = %q", resp.Analysis)
	}
	if resp.IsDuplicate {
		t.Error("is_duplicate should be false")
	}
	if resp.DuplicateOf != nil {
		t.Error("duplicate_of should be null")
	}
}

func TestAnalyzeEndpoint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		assessorErr  error
		expectedCode int
	}{
		{"rate limited", services.ErrRateLimited, http.StatusTooManyRequests},
		{"quota exhausted", services.ErrQuotaExhausted, http.StatusPaymentRequired},
		{"provider failure", services.ErrProvider, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, db := setupAnalyzeRouter(t, &stubAssessor{err: tt.assessorErr})
			seedPendingReport(t, db, "report-1")

			w := postAnalyze(r, `{
				"reportId": "report-1",
				"reportType": "flooded_road",
				"countyId": "nairobi",
				"latitude": -1.2921,
				"longitude": 36.8219
			}`)

			if w.Code != tt.expectedCode {
				t.Errorf("status = %d, expected %d", w.Code, tt.expectedCode)
			}
			if !strings.Contains(w.Body.String(), "error") {
				t.Errorf("body should carry an error field: %s", w.Body.String())
			}
		})
	}
}

func TestAnalyzeEndpoint_UnknownReport(t *testing.T) {
	r, _ := setupAnalyzeRouter(t, &stubAssessor{response: `{"confidence_score": 85, "analysis": "ok"}`})

	w := postAnalyze(r, `{
		"reportId": "missing",
		"reportType": "flooded_road",
		"countyId": "nairobi",
		"latitude": -1.2921,
		"longitude": 36.8219
	}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", w.Code)
	}
}

func TestAnalyzeEndpoint_MissingRequiredFields(t *testing.T) {
	r, _ := setupAnalyzeRouter(t, &stubAssessor{response: `{}`})

	w := postAnalyze(r, `{"reportId": "report-1"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", w.Code)
	}
}

func TestAnalyzeEndpoint_AlreadyAnalyzed(t *testing.T) {
	assessor := &stubAssessor{response: `{"confidence_score": 85, "analysis": "ok"}`}
	r, db := setupAnalyzeRouter(t, assessor)
	seedPendingReport(t, db, "report-1")

	body := `{
		"reportId": "report-1",
		"reportType": "flooded_road",
		"countyId": "nairobi",
		"latitude": -1.2921,
		"longitude": 36.8219
	}`

	if w := postAnalyze(r, body); w.Code != http.StatusOK {
		t.Fatalf("first call status = %d, expected 200", w.Code)
	}
	if w := postAnalyze(r, body); w.Code != http.StatusConflict {
		t.Errorf("second call status = %d, expected 409", w.Code)
	}
}
