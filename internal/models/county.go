package models

import "time"

// County is an administrative region reports are filed against.
// IDs are stable slugs ("turkana") referenced by reports and user accounts.
type County struct {
	ID        string    `gorm:"primaryKey;size:100" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Latitude  float64   `json:"latitude"` // centroid, for map centering
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (County) TableName() string { return "counties" }
