package main

import (
	"github.com/aquaguard/backend/internal/config"
	"github.com/aquaguard/backend/internal/handlers"
	"github.com/aquaguard/backend/internal/models"
	"github.com/aquaguard/backend/internal/services"
	"github.com/aquaguard/backend/internal/utils"
	"github.com/aquaguard/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	analyzerService *services.AnalyzerService
	weatherService  *services.WeatherService
	taskQueue       services.TaskQueue
	worker          *services.Worker
	authHandler     *handlers.AuthHandler
	analyzeHandler  *handlers.AnalyzeHandler
	reportHandler   *handlers.ReportHandler
	countyHandler   *handlers.CountyHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed the county registry
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// County weather snapshots with hourly retention purge
	weatherService := services.NewWeatherService(models.GetDB(), &cfg.Weather)
	weatherService.StartRetentionScheduler()

	// Report analysis pipeline
	analyzerService := services.NewAnalyzerService(models.GetDB(), &cfg.LLM)

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(analyzerService.ProcessAnalysisTask)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(analyzerService.ProcessAnalysisTask)
			worker.Start()
		}
	}

	// Create default admin user
	authService := services.NewAuthService(models.GetDB(), &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		analyzerService: analyzerService,
		weatherService:  weatherService,
		taskQueue:       taskQueue,
		worker:          worker,
		authHandler:     handlers.NewAuthHandler(models.GetDB(), &cfg.JWT),
		analyzeHandler:  handlers.NewAnalyzeHandlerWithService(analyzerService),
		reportHandler:   handlers.NewReportHandler(models.GetDB(), weatherService),
		countyHandler:   handlers.NewCountyHandler(models.GetDB(), weatherService),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.weatherService.StopRetentionScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
