package handlers

import (
	"errors"

	"github.com/aquaguard/backend/internal/middleware"
	"github.com/aquaguard/backend/internal/services"
	"github.com/aquaguard/backend/pkg/logger"
	"github.com/aquaguard/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReportHandler handles report submission, listing and verification.
type ReportHandler struct {
	reports *services.ReportService
	weather *services.WeatherService
}

func NewReportHandler(db *gorm.DB, weather *services.WeatherService) *ReportHandler {
	return &ReportHandler{
		reports: services.NewReportService(db),
		weather: weather,
	}
}

// Create stores a new report and queues it for analysis. The county's latest
// weather snapshot is attached to the task so the assessment sees the
// conditions at submission time.
// POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req services.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reporterID := middleware.GetUserID(c)
	report, err := h.reports.Create(reporterID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidReportType), errors.Is(err, services.ErrUnknownCounty):
			response.BadRequest(c, err.Error())
		default:
			logger.Errorf("[Report] Create failed: %v", err)
			response.ServerError(c, "failed to create report")
		}
		return
	}

	task := &services.AnalysisTask{
		ReportID:    report.ID,
		ReportType:  report.ReportType,
		CountyID:    report.CountyID,
		TownName:    report.TownName,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Description: report.Description,
		Weather:     h.weather.SnapshotFor(report.CountyID),
	}
	if err := services.GetTaskQueue().Enqueue(task); err != nil {
		// The report is stored; analysis can be triggered again manually.
		logger.Errorf("[Report] Failed to queue analysis for %s: %v", report.ID, err)
	}

	response.Created(c, report)
}

// List returns reports matching optional county, status and type filters.
// GET /api/reports
func (h *ReportHandler) List(c *gin.Context) {
	var req services.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.reports.List(&req)
	if err != nil {
		logger.Errorf("[Report] List failed: %v", err)
		response.ServerError(c, "failed to list reports")
		return
	}

	response.Success(c, resp)
}

// Get returns one report by id.
// GET /api/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reports.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			response.NotFound(c, "report not found")
			return
		}
		logger.Errorf("[Report] Get failed: %v", err)
		response.ServerError(c, "failed to load report")
		return
	}

	response.Success(c, report)
}

// MyReports returns the reports submitted by the authenticated user.
// GET /api/reports/mine
func (h *ReportHandler) MyReports(c *gin.Context) {
	reports, err := h.reports.ListByReporter(middleware.GetUserID(c))
	if err != nil {
		logger.Errorf("[Report] MyReports failed: %v", err)
		response.ServerError(c, "failed to list reports")
		return
	}

	response.Success(c, reports)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus verifies or rejects a report. County admins can only act on
// reports from their own county.
// PUT /api/reports/:id/status
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	countyScope := ""
	if middleware.GetRole(c) == "county_admin" {
		countyScope = middleware.GetCountyID(c)
	}

	report, err := h.reports.UpdateStatus(c.Param("id"), req.Status, countyScope)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			response.NotFound(c, "report not found")
		case errors.Is(err, services.ErrCountyForbidden):
			response.Forbidden(c, "report belongs to another county")
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, report)
}
