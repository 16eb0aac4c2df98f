package handlers

import (
	"github.com/aquaguard/backend/internal/models"
	"github.com/aquaguard/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// HealthHandler provides the service health endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	// Reports still waiting for an analysis verdict
	var unanalyzedCount int64
	models.GetDB().Model(&models.EnvironmentalReport{}).
		Where("ai_confidence_score IS NULL").
		Count(&unanalyzedCount)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "aquaguard",
		"components": gin.H{
			"database":           dbStatus,
			"queue_mode":         queueMode,
			"unanalyzed_reports": unanalyzedCount,
		},
	})
}
