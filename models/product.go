package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `json:"title" gorm:"not null"`
	Slug         string                      `json:"slug" gorm:"uniqueIndex;not null"`
	SKU          string                      `json:"sku" gorm:"column:sku"`
	Price        int64                       `json:"price"` // paisa
	Currency     string                      `json:"currency" gorm:"default:'INR'"`
	CollectionID uint                        `json:"collectionId" gorm:"index"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Description  string                      `json:"description"`
	Specs        datatypes.JSONMap           `json:"specs,omitempty"`
	Stock        int                         `json:"stock"`
	Featured     bool                        `json:"featured" gorm:"default:false"`
	IsPublished  bool                        `json:"isPublished" gorm:"default:false;index"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// BeforeSave trims user supplied identifiers
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	p.SKU = strings.TrimSpace(p.SKU)
	return nil
}
