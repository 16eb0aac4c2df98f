package handlers

import (
	"errors"

	"github.com/aquaguard/backend/internal/services"
	"github.com/aquaguard/backend/pkg/logger"
	"github.com/aquaguard/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CountyHandler serves the county registry and per-county weather snapshots.
type CountyHandler struct {
	counties *services.CountyService
	weather  *services.WeatherService
}

func NewCountyHandler(db *gorm.DB, weather *services.WeatherService) *CountyHandler {
	return &CountyHandler{
		counties: services.NewCountyService(db),
		weather:  weather,
	}
}

// List returns all registered counties.
// GET /api/counties
func (h *CountyHandler) List(c *gin.Context) {
	counties, err := h.counties.List()
	if err != nil {
		logger.Errorf("[County] List failed: %v", err)
		response.ServerError(c, "failed to list counties")
		return
	}

	response.Success(c, counties)
}

// Get returns one county.
// GET /api/counties/:id
func (h *CountyHandler) Get(c *gin.Context) {
	county, err := h.counties.GetByID(c.Param("id"))
	if err != nil {
		response.NotFound(c, "county not found")
		return
	}

	response.Success(c, county)
}

// GetWeather returns the freshest weather snapshot for a county, or null when
// none is recent enough.
// GET /api/counties/:id/weather
func (h *CountyHandler) GetWeather(c *gin.Context) {
	snapshot, err := h.weather.Latest(c.Param("id"))
	if err != nil {
		logger.Errorf("[County] Weather lookup failed: %v", err)
		response.ServerError(c, "failed to load weather")
		return
	}

	response.Success(c, snapshot)
}

// RecordWeather stores a new weather snapshot for a county.
// POST /api/counties/:id/weather
func (h *CountyHandler) RecordWeather(c *gin.Context) {
	var req services.RecordWeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	snapshot, err := h.weather.Record(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, services.ErrUnknownCounty) {
			response.NotFound(c, "county not found")
			return
		}
		logger.Errorf("[County] Weather record failed: %v", err)
		response.ServerError(c, "failed to record weather")
		return
	}

	response.Created(c, snapshot)
}
