package models

import (
	"time"

	"gorm.io/gorm"
)

// Report types (closed enumeration)
const (
	ReportTypeFloodedRoad      = "flooded_road"
	ReportTypeDryBorehole      = "dry_borehole"
	ReportTypeBrokenKiosk      = "broken_kiosk"
	ReportTypeOverflowingRiver = "overflowing_river"
)

// Report statuses
const (
	ReportStatusPending  = "pending"
	ReportStatusVerified = "verified"
	ReportStatusRejected = "rejected"
)

// ValidReportType reports whether t is one of the closed enum values.
func ValidReportType(t string) bool {
	switch t {
	case ReportTypeFloodedRoad, ReportTypeDryBorehole, ReportTypeBrokenKiosk, ReportTypeOverflowingRiver:
		return true
	}
	return false
}

// EnvironmentalReport is a community-submitted water incident report.
//
// The four ai_* / duplicate columns are owned exclusively by the analyzer
// pipeline and stay null until a report has been analyzed.
type EnvironmentalReport struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"` // uuid
	ReporterID  uint    `gorm:"index;not null" json:"reporter_id"`
	CountyID    string  `gorm:"size:100;index;not null" json:"county_id"`
	County      *County `gorm:"foreignKey:CountyID" json:"county,omitempty"`
	ReportType  string  `gorm:"size:50;index;not null" json:"report_type"`
	TownName    *string `gorm:"size:200" json:"town_name"`
	Latitude    float64 `gorm:"not null" json:"latitude"`
	Longitude   float64 `gorm:"not null" json:"longitude"`
	Description *string `gorm:"size:2000" json:"description"`
	ImageURL    *string `gorm:"size:500" json:"image_url"`
	Status      string  `gorm:"size:50;default:pending;index" json:"status"` // pending, verified, rejected

	// Analyzer-owned fields, written once per analysis.
	AIConfidenceScore *int    `json:"ai_confidence_score"`
	AIAnalysis        *string `gorm:"type:text" json:"ai_analysis"`
	IsDuplicate       *bool   `json:"is_duplicate"`
	DuplicateOf       *string `gorm:"size:36" json:"duplicate_of"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EnvironmentalReport) TableName() string { return "environmental_reports" }
