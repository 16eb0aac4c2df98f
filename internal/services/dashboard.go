package services

import (
	"time"

	"github.com/aquaguard/backend/internal/models"
	"gorm.io/gorm"
)

// DashboardService aggregates report statistics for the admin review landing
// page.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStatsRequest struct {
	CountyID string `form:"county_id"`
}

type DashboardStats struct {
	TotalReports      int64            `json:"total_reports"`
	PendingReports    int64            `json:"pending_reports"`
	VerifiedReports   int64            `json:"verified_reports"`
	RejectedReports   int64            `json:"rejected_reports"`
	DuplicateReports  int64            `json:"duplicate_reports"`
	ReportsLast24h    int64            `json:"reports_last_24h"`
	AverageConfidence *float64         `json:"average_confidence"`
	ByType            map[string]int64 `json:"by_type"`
}

// GetStats computes report counters, optionally scoped to one county.
func (s *DashboardService) GetStats(req *DashboardStatsRequest) (*DashboardStats, error) {
	stats := &DashboardStats{ByType: make(map[string]int64)}

	base := func() *gorm.DB {
		q := s.db.Model(&models.EnvironmentalReport{})
		if req.CountyID != "" {
			q = q.Where("county_id = ?", req.CountyID)
		}
		return q
	}

	if err := base().Count(&stats.TotalReports).Error; err != nil {
		return nil, err
	}
	base().Where("status = ?", models.ReportStatusPending).Count(&stats.PendingReports)
	base().Where("status = ?", models.ReportStatusVerified).Count(&stats.VerifiedReports)
	base().Where("status = ?", models.ReportStatusRejected).Count(&stats.RejectedReports)
	base().Where("is_duplicate = ?", true).Count(&stats.DuplicateReports)
	base().Where("created_at >= ?", time.Now().Add(-24*time.Hour)).Count(&stats.ReportsLast24h)

	var avg *float64
	row := base().Where("ai_confidence_score IS NOT NULL").
		Select("AVG(ai_confidence_score)").Row()
	if err := row.Scan(&avg); err == nil {
		stats.AverageConfidence = avg
	}

	type typeCount struct {
		ReportType string
		Count      int64
	}
	var counts []typeCount
	if err := base().Select("report_type, COUNT(*) as count").
		Group("report_type").Scan(&counts).Error; err == nil {
		for _, tc := range counts {
			stats.ByType[tc.ReportType] = tc.Count
		}
	}

	return stats, nil
}
