package services

import (
	"errors"
	"time"

	"github.com/aquaguard/backend/internal/config"
	"github.com/aquaguard/backend/internal/models"
	"github.com/aquaguard/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// WeatherService stores per-county weather snapshots used as advisory context
// for report analysis. Snapshots age out; the submission flow only ever
// attaches a fresh one, and stale rows are purged hourly.
type WeatherService struct {
	db     *gorm.DB
	maxAge time.Duration
	cron   *cron.Cron
}

func NewWeatherService(db *gorm.DB, cfg *config.WeatherConfig) *WeatherService {
	return &WeatherService{
		db:     db,
		maxAge: time.Duration(cfg.MaxAgeHours) * time.Hour,
	}
}

type RecordWeatherRequest struct {
	Temperature float64 `json:"temperature" binding:"required"`
	Humidity    float64 `json:"humidity" binding:"required"`
	Rainfall24h float64 `json:"rainfall_24h"`
}

// Record stores a new snapshot for a county.
func (s *WeatherService) Record(countyID string, req *RecordWeatherRequest) (*models.CountyWeather, error) {
	var county models.County
	if err := s.db.First(&county, "id = ?", countyID).Error; err != nil {
		return nil, ErrUnknownCounty
	}

	snapshot := &models.CountyWeather{
		CountyID:    countyID,
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Rainfall24h: req.Rainfall24h,
		RecordedAt:  time.Now(),
	}

	if err := s.db.Create(snapshot).Error; err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Latest returns the freshest snapshot for a county, or nil when none is
// recent enough to be useful.
func (s *WeatherService) Latest(countyID string) (*models.CountyWeather, error) {
	cutoff := time.Now().Add(-s.maxAge)

	var snapshot models.CountyWeather
	err := s.db.
		Where("county_id = ? AND recorded_at >= ?", countyID, cutoff).
		Order("recorded_at DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &snapshot, nil
}

// SnapshotFor adapts the latest fresh snapshot into analyzer input, or nil
// when there is none. The analyzer omits weather context entirely in that
// case instead of substituting defaults.
func (s *WeatherService) SnapshotFor(countyID string) *WeatherSnapshot {
	latest, err := s.Latest(countyID)
	if err != nil {
		logger.Warnf("[Weather] Lookup failed for county %s: %v", countyID, err)
		return nil
	}
	if latest == nil {
		return nil
	}

	return &WeatherSnapshot{
		Temperature: latest.Temperature,
		Humidity:    latest.Humidity,
		Rainfall24h: latest.Rainfall24h,
	}
}

// StartRetentionScheduler purges expired snapshots hourly.
func (s *WeatherService) StartRetentionScheduler() {
	if s.cron != nil {
		return
	}

	s.cron = cron.New()
	s.cron.AddFunc("@hourly", func() {
		cutoff := time.Now().Add(-s.maxAge)
		res := s.db.Where("recorded_at < ?", cutoff).Delete(&models.CountyWeather{})
		if res.Error != nil {
			logger.Errorf("[Weather] Snapshot purge failed: %v", res.Error)
			return
		}
		if res.RowsAffected > 0 {
			logger.Infof("[Weather] Purged %d stale snapshots", res.RowsAffected)
		}
	})
	s.cron.Start()
	logger.Infof("[Weather] Retention scheduler started (max age %s)", s.maxAge)
}

// StopRetentionScheduler stops the purge job.
func (s *WeatherService) StopRetentionScheduler() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
