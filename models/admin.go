package models

import (
	"time"

	"gorm.io/gorm"
)

// RoleAdmin is the only role allowed into the back office.
const RoleAdmin = "admin"

// Admin represents a back office user
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role" gorm:"default:'admin'"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	LastLogin time.Time `json:"last_login"`
}
