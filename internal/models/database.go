package models

import (
	"fmt"

	"github.com/aquaguard/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&County{},
		&EnvironmentalReport{},
		&CountyWeather{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the county registry if it is empty.
func SeedDefaultData() error {
	var countyCount int64
	DB.Model(&County{}).Count(&countyCount)
	if countyCount > 0 {
		return nil
	}

	counties := []County{
		{ID: "nairobi", Name: "Nairobi", Latitude: -1.2921, Longitude: 36.8219},
		{ID: "mombasa", Name: "Mombasa", Latitude: -4.0435, Longitude: 39.6682},
		{ID: "kisumu", Name: "Kisumu", Latitude: -0.0917, Longitude: 34.7680},
		{ID: "turkana", Name: "Turkana", Latitude: 3.3122, Longitude: 35.5658},
		{ID: "garissa", Name: "Garissa", Latitude: -0.4532, Longitude: 39.6461},
		{ID: "tana_river", Name: "Tana River", Latitude: -1.5236, Longitude: 39.9872},
		{ID: "nakuru", Name: "Nakuru", Latitude: -0.3031, Longitude: 36.0800},
		{ID: "kilifi", Name: "Kilifi", Latitude: -3.5107, Longitude: 39.9093},
		{ID: "marsabit", Name: "Marsabit", Latitude: 2.3284, Longitude: 37.9899},
		{ID: "baringo", Name: "Baringo", Latitude: 0.4699, Longitude: 35.9736},
	}

	for _, county := range counties {
		if err := DB.Create(&county).Error; err != nil {
			return err
		}
	}

	return nil
}
