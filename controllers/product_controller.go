package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Amber-bisht/watch-me/config"
	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var productSortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"title":      "title",
}

// GetProducts lists published products with filters, sorting and pagination
func GetProducts(c *gin.Context) {
	p := utils.NewPagination(c, utils.DefaultPublicPaginationLimit)

	query := config.DB.Model(&models.Product{}).Where("is_published = ?", true)

	if raw := c.Query("collection_id"); raw != "" {
		collectionID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.BadRequest(c, "Invalid collection_id", raw)
			return
		}
		query = query.Where("collection_id = ?", collectionID)
	}
	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.BadRequest(c, "Invalid min_price", raw)
			return
		}
		query = query.Where("price >= ?", minPrice)
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.BadRequest(c, "Invalid max_price", raw)
			return
		}
		query = query.Where("price <= ?", maxPrice)
	}
	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}

	sortBy := c.DefaultQuery("sort_by", "created_at")
	column, ok := productSortColumns[sortBy]
	if !ok {
		utils.BadRequest(c, "Invalid sort_by", gin.H{"allowed": []string{"created_at", "price", "title"}})
		return
	}
	order := strings.ToLower(c.DefaultQuery("order", "desc"))
	if order != "asc" && order != "desc" {
		utils.BadRequest(c, "Invalid order", gin.H{"allowed": []string{"asc", "desc"}})
		return
	}

	if err := query.Count(&p.Total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", err.Error())
		return
	}

	var products []models.Product
	err := query.Order(column + " " + order).Order("id " + order).
		Offset(p.Offset).Limit(p.Limit).
		Find(&products).Error
	if err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Products retrieved successfully", products, p)
}

// GetProductBySlug returns a published product
func GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var product models.Product
	err := config.DB.Where("slug = ? AND is_published = ?", slug, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Product not found")
		return
	}
	if err != nil {
		utils.LogError("Failed to fetch product %s: %v", slug, err)
		utils.InternalServerError(c, "Failed to fetch product", err.Error())
		return
	}

	utils.Success(c, "Product retrieved successfully", product)
}
