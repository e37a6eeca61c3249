package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Collection struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	Title       string            `json:"title" gorm:"not null"`
	Slug        string            `json:"slug" gorm:"uniqueIndex;not null"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Meta        datatypes.JSONMap `json:"meta,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// BeforeSave hook to standardize collection titles
func (c *Collection) BeforeSave(tx *gorm.DB) error {
	c.Title = strings.TrimSpace(c.Title)
	c.Slug = strings.TrimSpace(c.Slug)
	return nil
}
