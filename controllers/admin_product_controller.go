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

// ProductRequest is the body of a product creation. Price is in rupees.
type ProductRequest struct {
	Title        string                 `json:"title" binding:"required"`
	Slug         string                 `json:"slug" binding:"omitempty,slug"`
	SKU          string                 `json:"sku" binding:"required"`
	Price        float64                `json:"price" binding:"required,gt=0"`
	CollectionID uint                   `json:"collectionId" binding:"required"`
	Images       []string               `json:"images" binding:"required,min=1,dive,required"`
	Description  string                 `json:"description" binding:"required"`
	Specs        map[string]interface{} `json:"specs"`
	Stock        *int                   `json:"stock" binding:"required,min=0"`
	Featured     bool                   `json:"featured"`
	IsPublished  bool                   `json:"isPublished"`
}

// ProductUpdateRequest is a partial product update; nil fields are left alone
type ProductUpdateRequest struct {
	Title        *string                `json:"title" binding:"omitempty,min=1"`
	Slug         *string                `json:"slug" binding:"omitempty,slug"`
	SKU          *string                `json:"sku" binding:"omitempty,min=1"`
	Price        *float64               `json:"price" binding:"omitempty,gt=0"`
	CollectionID *uint                  `json:"collectionId" binding:"omitempty,gt=0"`
	Images       []string               `json:"images" binding:"omitempty,min=1,dive,required"`
	Description  *string                `json:"description"`
	Specs        map[string]interface{} `json:"specs"`
	Stock        *int                   `json:"stock" binding:"omitempty,min=0"`
	Featured     *bool                  `json:"featured"`
	IsPublished  *bool                  `json:"isPublished"`
}

func slugTaken(model interface{}, slug string, exceptID uint) (bool, error) {
	var count int64
	err := config.DB.Model(model).Where("slug = ? AND id <> ?", slug, exceptID).Count(&count).Error
	return count > 0, err
}

func collectionExists(id uint) (bool, error) {
	var count int64
	err := config.DB.Model(&models.Collection{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// AdminListProducts lists every product, published or not
func AdminListProducts(c *gin.Context) {
	p := utils.NewPagination(c, utils.DefaultPaginationLimit)

	query := config.DB.Model(&models.Product{})
	if search := c.Query("search"); strings.TrimSpace(search) != "" {
		like := likePattern(search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(slug) LIKE ?)", like, like, like)
	}

	if err := query.Count(&p.Total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", err.Error())
		return
	}

	var products []models.Product
	if err := query.Order("created_at DESC, id DESC").Offset(p.Offset).Limit(p.Limit).Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Products retrieved successfully", products, p)
}

// AdminGetProduct returns one product by id
func AdminGetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var product models.Product
	err := config.DB.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Product not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch product", err.Error())
		return
	}
	utils.Success(c, "Product retrieved successfully", product)
}

// AdminCreateProduct creates a product
func AdminCreateProduct(c *gin.Context) {
	var req ProductRequest
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

	taken, err := slugTaken(&models.Product{}, slug, 0)
	if err != nil {
		utils.InternalServerError(c, "Failed to create product", err.Error())
		return
	}
	if taken {
		utils.BadRequest(c, "Product with this slug already exists", slug)
		return
	}

	exists, err := collectionExists(req.CollectionID)
	if err != nil {
		utils.InternalServerError(c, "Failed to create product", err.Error())
		return
	}
	if !exists {
		utils.BadRequest(c, "Collection not found", req.CollectionID)
		return
	}

	product := models.Product{
		Title:        req.Title,
		Slug:         slug,
		SKU:          req.SKU,
		Price:        utils.RupeesToPaisa(req.Price),
		Currency:     utils.DefaultCurrency,
		CollectionID: req.CollectionID,
		Images:       datatypes.JSONSlice[string](req.Images),
		Description:  req.Description,
		Stock:        *req.Stock,
		Featured:     req.Featured,
		IsPublished:  req.IsPublished,
	}
	if req.Specs != nil {
		product.Specs = datatypes.JSONMap(req.Specs)
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.LogError("Failed to create product %s: %v", slug, err)
		utils.InternalServerError(c, "Failed to create product", err.Error())
		return
	}

	utils.LogInfo("Product %d (%s) created", product.ID, product.Slug)
	utils.Created(c, "Product created successfully", product)
}

// AdminUpdateProduct applies a partial update to a product
func AdminUpdateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return
	}

	var product models.Product
	err := config.DB.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Product not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to update product", err.Error())
		return
	}

	if req.Slug != nil && *req.Slug != product.Slug {
		taken, err := slugTaken(&models.Product{}, *req.Slug, product.ID)
		if err != nil {
			utils.InternalServerError(c, "Failed to update product", err.Error())
			return
		}
		if taken {
			utils.BadRequest(c, "Product with this slug already exists", *req.Slug)
			return
		}
		product.Slug = *req.Slug
	}
	if req.CollectionID != nil && *req.CollectionID != product.CollectionID {
		exists, err := collectionExists(*req.CollectionID)
		if err != nil {
			utils.InternalServerError(c, "Failed to update product", err.Error())
			return
		}
		if !exists {
			utils.BadRequest(c, "Collection not found", *req.CollectionID)
			return
		}
		product.CollectionID = *req.CollectionID
	}
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Price != nil {
		product.Price = utils.RupeesToPaisa(*req.Price)
	}
	if req.Images != nil {
		product.Images = datatypes.JSONSlice[string](req.Images)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Specs != nil {
		product.Specs = datatypes.JSONMap(req.Specs)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.IsPublished != nil {
		product.IsPublished = *req.IsPublished
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", err.Error())
		return
	}

	utils.LogInfo("Product %d updated", product.ID)
	utils.Success(c, "Product updated successfully", product)
}

// AdminDeleteProduct deletes a product. Order lines keep their own title and price.
func AdminDeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	result := config.DB.Delete(&models.Product{}, id)
	if result.Error != nil {
		utils.LogError("Failed to delete product %d: %v", id, result.Error)
		utils.InternalServerError(c, "Failed to delete product", result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Product not found")
		return
	}

	utils.LogInfo("Product %d deleted", id)
	utils.Success(c, "Product deleted successfully", nil)
}
