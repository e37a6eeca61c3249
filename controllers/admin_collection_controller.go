package controllers

import (
	"errors"
	"strings"

	"github.com/Amber-bisht/watch-me/config"
	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CollectionRequest is the body of a collection creation
type CollectionRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Slug        string                 `json:"slug" binding:"omitempty,slug"`
	Description string                 `json:"description" binding:"required"`
	Image       string                 `json:"image" binding:"required"`
	Meta        map[string]interface{} `json:"meta"`
}

// CollectionUpdateRequest is a partial collection update
type CollectionUpdateRequest struct {
	Title       *string                `json:"title" binding:"omitempty,min=1"`
	Slug        *string                `json:"slug" binding:"omitempty,slug"`
	Description *string                `json:"description"`
	Image       *string                `json:"image" binding:"omitempty,min=1"`
	Meta        map[string]interface{} `json:"meta"`
}

// AdminListCollections lists collections with search and pagination
func AdminListCollections(c *gin.Context) {
	p := utils.NewPagination(c, utils.DefaultPaginationLimit)

	query := config.DB.Model(&models.Collection{})
	if search := c.Query("search"); strings.TrimSpace(search) != "" {
		like := likePattern(search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(slug) LIKE ? OR LOWER(description) LIKE ?)", like, like, like)
	}

	if err := query.Count(&p.Total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch collections", err.Error())
		return
	}

	var collections []models.Collection
	if err := query.Order("created_at DESC, id DESC").Offset(p.Offset).Limit(p.Limit).Find(&collections).Error; err != nil {
		utils.LogError("Failed to fetch collections: %v", err)
		utils.InternalServerError(c, "Failed to fetch collections", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Collections retrieved successfully", collections, p)
}

// AdminGetCollection returns one collection by id
func AdminGetCollection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var collection models.Collection
	err := config.DB.First(&collection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Collection not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch collection", err.Error())
		return
	}
	utils.Success(c, "Collection retrieved successfully", collection)
}

// AdminCreateCollection creates a collection
func AdminCreateCollection(c *gin.Context) {
	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Title)
	}
	if !utils.IsValidSlug(slug) {
		utils.BadRequest(c, "Invalid slug", slug)
		return
	}

	taken, err := slugTaken(&models.Collection{}, slug, 0)
	if err != nil {
		utils.InternalServerError(c, "Failed to create collection", err.Error())
		return
	}
	if taken {
		utils.BadRequest(c, "Collection with this slug already exists", slug)
		return
	}

	collection := models.Collection{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
	}
	if req.Meta != nil {
		collection.Meta = datatypes.JSONMap(req.Meta)
	}

	if err := config.DB.Create(&collection).Error; err != nil {
		utils.LogError("Failed to create collection %s: %v", slug, err)
		utils.InternalServerError(c, "Failed to create collection", err.Error())
		return
	}

	utils.LogInfo("Collection %d (%s) created", collection.ID, collection.Slug)
	utils.Created(c, "Collection created successfully", collection)
}

// AdminUpdateCollection applies a partial update to a collection
func AdminUpdateCollection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req CollectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return
	}

	var collection models.Collection
	err := config.DB.First(&collection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Collection not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to update collection", err.Error())
		return
	}

	if req.Slug != nil && *req.Slug != collection.Slug {
		taken, err := slugTaken(&models.Collection{}, *req.Slug, collection.ID)
		if err != nil {
			utils.InternalServerError(c, "Failed to update collection", err.Error())
			return
		}
		if taken {
			utils.BadRequest(c, "Collection with this slug already exists", *req.Slug)
			return
		}
		collection.Slug = *req.Slug
	}
	if req.Title != nil {
		collection.Title = *req.Title
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	if req.Image != nil {
		collection.Image = *req.Image
	}
	if req.Meta != nil {
		collection.Meta = datatypes.JSONMap(req.Meta)
	}

	if err := config.DB.Save(&collection).Error; err != nil {
		utils.LogError("Failed to update collection %d: %v", collection.ID, err)
		utils.InternalServerError(c, "Failed to update collection", err.Error())
		return
	}

	utils.Success(c, "Collection updated successfully", collection)
}

// AdminDeleteCollection deletes a collection that no product references
func AdminDeleteCollection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var products int64
	if err := config.DB.Model(&models.Product{}).Where("collection_id = ?", id).Count(&products).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete collection", err.Error())
		return
	}
	if products > 0 {
		utils.BadRequest(c, "Cannot delete collection with products", gin.H{"productCount": products})
		return
	}

	result := config.DB.Delete(&models.Collection{}, id)
	if result.Error != nil {
		utils.LogError("Failed to delete collection %d: %v", id, result.Error)
		utils.InternalServerError(c, "Failed to delete collection", result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Collection not found")
		return
	}

	utils.LogInfo("Collection %d deleted", id)
	utils.Success(c, "Collection deleted successfully", nil)
}
