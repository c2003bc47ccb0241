package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/stylesphere/StyleSphere/config"
	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/utils"
)

// GetProducts lists active products with their variants, paginated
func GetProducts(c *gin.Context) {
	utils.LogInfo("GetProducts called")

	page, limit := utils.GetPaginationParams(c)

	query := config.DB.Model(&models.Product{}).Where("is_active = ?", true)
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	var products []models.Product
	err := query.Preload("Variants").Preload("Category").
		Offset((page - 1) * limit).Limit(limit).
		Find(&products).Error
	if err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	utils.SuccessWithPagination(c, "Products retrieved", gin.H{"products": products}, total, page, limit)
}

// GetProductDetails returns a single product with variants
func GetProductDetails(c *gin.Context) {
	utils.LogInfo("GetProductDetails called")

	var product models.Product
	err := config.DB.Preload("Variants").Preload("Category").
		Where("id = ? AND is_active = ?", c.Param("id"), true).
		First(&product).Error
	if err != nil {
		utils.LogError("Product not found: %s", c.Param("id"))
		utils.NotFound(c, "Product not found")
		return
	}

	utils.Success(c, "Product retrieved", gin.H{"product": product})
}
