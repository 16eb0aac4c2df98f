package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin       = "admin"
	RoleCountyAdmin = "county_admin"
	RoleUser        = "user"
)

// User represents a registered reporter or administrator.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	Email     string         `gorm:"size:255" json:"email"`
	FullName  string         `gorm:"size:200" json:"full_name"`
	Role      string         `gorm:"size:50;default:user" json:"role"` // admin, county_admin, user
	CountyID  *string        `gorm:"size:100;index" json:"county_id"`  // set for county admins
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
