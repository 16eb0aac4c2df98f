package services

import (
	"errors"

	"github.com/aquaguard/backend/internal/models"
	"gorm.io/gorm"
)

// CountyService exposes the county registry.
type CountyService struct {
	db *gorm.DB
}

func NewCountyService(db *gorm.DB) *CountyService {
	return &CountyService{db: db}
}

// List returns all counties ordered by name.
func (s *CountyService) List() ([]models.County, error) {
	var counties []models.County
	err := s.db.Order("name ASC").Find(&counties).Error
	return counties, err
}

// GetByID returns a county by its slug id.
func (s *CountyService) GetByID(id string) (*models.County, error) {
	var county models.County
	if err := s.db.First(&county, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCounty
		}
		return nil, err
	}
	return &county, nil
}
