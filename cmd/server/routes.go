package main

import (
	"github.com/aquaguard/backend/internal/handlers"
	"github.com/aquaguard/backend/internal/middleware"
	"github.com/aquaguard/backend/internal/models"
	"github.com/aquaguard/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for submission and analysis routes
	submitLimiter := middleware.NewRateLimiter(10, 20)

	// Health check and metrics
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)
	r.GET("/metrics", handlers.Metrics)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// County registry and weather snapshots (public reads)
		api.GET("/counties", svc.countyHandler.List)
		api.GET("/counties/:id", svc.countyHandler.Get)
		api.GET("/counties/:id/weather", svc.countyHandler.GetWeather)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)

			// Reports
			protected.GET("/reports", svc.reportHandler.List)
			protected.GET("/reports/mine", svc.reportHandler.MyReports)
			protected.GET("/reports/:id", svc.reportHandler.Get)
			protected.POST("/reports", submitLimiter.Middleware(), svc.reportHandler.Create)
			protected.POST("/reports/analyze", submitLimiter.Middleware(), svc.analyzeHandler.Analyze)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(models.GetDB())
			protected.GET("/dashboard/stats", dashboardHandler.Stats)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// Report verification
			admin.PUT("/reports/:id/status", svc.reportHandler.UpdateStatus)

			// Weather snapshot ingestion
			admin.POST("/counties/:id/weather", svc.countyHandler.RecordWeather)
		}
	}
}
