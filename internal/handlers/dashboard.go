package handlers

import (
	"github.com/aquaguard/backend/internal/middleware"
	"github.com/aquaguard/backend/internal/services"
	"github.com/aquaguard/backend/pkg/logger"
	"github.com/aquaguard/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardHandler serves aggregate report statistics.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{dashboard: services.NewDashboardService(db)}
}

// Stats returns report counts and confidence aggregates, optionally filtered
// by county. County admins always see their own county only.
// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	var req services.DashboardStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if middleware.GetRole(c) == "county_admin" {
		req.CountyID = middleware.GetCountyID(c)
	}

	stats, err := h.dashboard.GetStats(&req)
	if err != nil {
		logger.Errorf("[Dashboard] Stats failed: %v", err)
		response.ServerError(c, "failed to load stats")
		return
	}

	response.Success(c, stats)
}
