package services

import (
	"errors"
	"fmt"

	"github.com/aquaguard/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidReportType = errors.New("invalid report type")
	ErrUnknownCounty     = errors.New("unknown county")
	ErrCountyForbidden   = errors.New("report belongs to another county")
)

// ReportService manages submitted environmental reports.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReportRequest carries a new submission. Coordinates are pointers so
// binding can require them while still accepting 0.0 (Kenya straddles the
// equator and the prime-meridian-adjacent zero latitude is a real location).
type CreateReportRequest struct {
	ReportType  string   `json:"report_type" binding:"required"`
	CountyID    string   `json:"county_id" binding:"required"`
	TownName    *string  `json:"town_name"`
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
}

// Create stores a new report in pending status. Analysis happens
// asynchronously after creation.
func (s *ReportService) Create(reporterID uint, req *CreateReportRequest) (*models.EnvironmentalReport, error) {
	if !models.ValidReportType(req.ReportType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReportType, req.ReportType)
	}

	var county models.County
	if err := s.db.First(&county, "id = ?", req.CountyID).Error; err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCounty, req.CountyID)
	}

	report := &models.EnvironmentalReport{
		ID:          uuid.NewString(),
		ReporterID:  reporterID,
		CountyID:    req.CountyID,
		ReportType:  req.ReportType,
		TownName:    req.TownName,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      models.ReportStatusPending,
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	return report, nil
}

type ReportListRequest struct {
	CountyID   string `form:"county_id"`
	Status     string `form:"status"`
	ReportType string `form:"report_type"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type ReportListResponse struct {
	Reports  []models.EnvironmentalReport `json:"reports"`
	Total    int64                        `json:"total"`
	Page     int                          `json:"page"`
	PageSize int                          `json:"page_size"`
}

// List returns reports matching the filters, newest first.
func (s *ReportService) List(req *ReportListRequest) (*ReportListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.EnvironmentalReport{})
	if req.CountyID != "" {
		query = query.Where("county_id = ?", req.CountyID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.ReportType != "" {
		query = query.Where("report_type = ?", req.ReportType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var reports []models.EnvironmentalReport
	err := query.
		Order("created_at DESC").
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	return &ReportListResponse{
		Reports:  reports,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetByID returns a single report.
func (s *ReportService) GetByID(id string) (*models.EnvironmentalReport, error) {
	var report models.EnvironmentalReport
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// ListByReporter returns all reports submitted by one user, newest first.
func (s *ReportService) ListByReporter(reporterID uint) ([]models.EnvironmentalReport, error) {
	var reports []models.EnvironmentalReport
	err := s.db.
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// UpdateStatus moves a report through the verification workflow. countyScope
// restricts the change to a single county for county admin accounts; pass ""
// for platform admins.
func (s *ReportService) UpdateStatus(id, status, countyScope string) (*models.EnvironmentalReport, error) {
	if status != models.ReportStatusVerified && status != models.ReportStatusRejected {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	report, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if countyScope != "" && report.CountyID != countyScope {
		return nil, ErrCountyForbidden
	}

	if err := s.db.Model(report).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update report status: %w", err)
	}

	report.Status = status
	return report, nil
}
