package models

import "time"

// CountyWeather is the latest observed weather for a county. Snapshots are
// advisory context for report analysis, not an authoritative weather record;
// stale rows are purged by the retention scheduler.
type CountyWeather struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CountyID    string    `gorm:"size:100;index;not null" json:"county_id"`
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // percent
	Rainfall24h float64   `json:"rainfall_24h"`
	RecordedAt  time.Time `gorm:"index" json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CountyWeather) TableName() string { return "county_weather" }
