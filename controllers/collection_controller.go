package controllers

import (
	"errors"

	"github.com/Amber-bisht/watch-me/config"
	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetCollections lists every collection, newest first
func GetCollections(c *gin.Context) {
	var collections []models.Collection
	if err := config.DB.Order("created_at DESC, id DESC").Find(&collections).Error; err != nil {
		utils.LogError("Failed to fetch collections: %v", err)
		utils.InternalServerError(c, "Failed to fetch collections", err.Error())
		return
	}
	utils.Success(c, "Collections retrieved successfully", collections)
}

// GetCollectionBySlug returns a collection with its published products
func GetCollectionBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var collection models.Collection
	err := config.DB.Where("slug = ?", slug).First(&collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Collection not found")
		return
	}
	if err != nil {
		utils.LogError("Failed to fetch collection %s: %v", slug, err)
		utils.InternalServerError(c, "Failed to fetch collection", err.Error())
		return
	}

	var products []models.Product
	err = config.DB.Where("collection_id = ? AND is_published = ?", collection.ID, true).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	if err != nil {
		utils.LogError("Failed to fetch products of collection %s: %v", slug, err)
		utils.InternalServerError(c, "Failed to fetch collection", err.Error())
		return
	}

	utils.Success(c, "Collection retrieved successfully", gin.H{
		"collection": collection,
		"products":   products,
	})
}
