package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/aquaguard/backend/internal/models"
	"github.com/aquaguard/backend/internal/services"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Metrics returns Prometheus-compatible text format metrics.
func Metrics(c *gin.Context) {
	var b strings.Builder

	// -- Runtime metrics --
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "aquaguard_uptime_seconds", "Time since server start in seconds", float64(time.Since(startTime).Seconds()))
	writeGauge(&b, "aquaguard_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "aquaguard_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
	writeGauge(&b, "aquaguard_memory_sys_bytes", "Total memory obtained from OS in bytes", float64(m.Sys))
	writeGauge(&b, "aquaguard_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

	// -- Database metrics --
	db := models.GetDB()
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			stats := sqlDB.Stats()
			writeGauge(&b, "aquaguard_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
			writeGauge(&b, "aquaguard_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
			writeGauge(&b, "aquaguard_db_idle_connections", "Number of idle DB connections", float64(stats.Idle))
		}
	}

	// -- Queue metrics --
	taskQueue := services.GetTaskQueue()
	queueAsync := 0.0
	if taskQueue != nil && taskQueue.IsAsync() {
		queueAsync = 1.0
	}
	writeGauge(&b, "aquaguard_queue_async_enabled", "Whether async queue (Redis) is enabled (1=yes, 0=no)", queueAsync)

	// -- Report metrics --
	if db != nil {
		var totalReports, pendingReports, verifiedReports, rejectedReports, unanalyzedReports, duplicateReports int64
		db.Model(&models.EnvironmentalReport{}).Count(&totalReports)
		db.Model(&models.EnvironmentalReport{}).Where("status = ?", models.ReportStatusPending).Count(&pendingReports)
		db.Model(&models.EnvironmentalReport{}).Where("status = ?", models.ReportStatusVerified).Count(&verifiedReports)
		db.Model(&models.EnvironmentalReport{}).Where("status = ?", models.ReportStatusRejected).Count(&rejectedReports)
		db.Model(&models.EnvironmentalReport{}).Where("ai_confidence_score IS NULL").Count(&unanalyzedReports)
		db.Model(&models.EnvironmentalReport{}).Where("is_duplicate = ?", true).Count(&duplicateReports)

		writeGauge(&b, "aquaguard_reports_total", "Total number of reports", float64(totalReports))
		writeGauge(&b, "aquaguard_reports_pending", "Number of pending reports", float64(pendingReports))
		writeGauge(&b, "aquaguard_reports_verified", "Number of verified reports", float64(verifiedReports))
		writeGauge(&b, "aquaguard_reports_rejected", "Number of rejected reports", float64(rejectedReports))
		writeGauge(&b, "aquaguard_reports_unanalyzed", "Number of reports awaiting analysis", float64(unanalyzedReports))
		writeGauge(&b, "aquaguard_reports_duplicates", "Number of reports flagged as duplicates", float64(duplicateReports))

		// Reports submitted in the last 24h
		since24h := time.Now().Add(-24 * time.Hour)
		var reports24h int64
		db.Model(&models.EnvironmentalReport{}).Where("created_at >= ?", since24h).Count(&reports24h)
		writeGauge(&b, "aquaguard_reports_24h", "Reports submitted in the last 24 hours", float64(reports24h))

		// Counties & Users
		var countyCount, userCount int64
		db.Model(&models.County{}).Count(&countyCount)
		db.Model(&models.User{}).Where("is_active = ?", true).Count(&userCount)

		writeGauge(&b, "aquaguard_counties_total", "Total number of registered counties", float64(countyCount))
		writeGauge(&b, "aquaguard_users_active", "Number of active users", float64(userCount))
	}

	c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}
