package controllers

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/stylesphere/StyleSphere/config"
	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/utils"
)

// AddToCart adds a product variant to the user's cart
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	user := userVal.(models.User)
	utils.LogInfo("Processing add to cart for user ID: %d", user.ID)

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		VariantID uint `json:"variant_id" binding:"required"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	const maxQuantity = 5
	if req.Quantity > maxQuantity {
		req.Quantity = maxQuantity
	}

	var variant models.ProductVariant
	if err := config.DB.Where("id = ? AND product_id = ?", req.VariantID, req.ProductID).First(&variant).Error; err != nil {
		utils.LogError("Variant %d not found for product %d", req.VariantID, req.ProductID)
		utils.NotFound(c, "Product variant not found")
		return
	}

	var product models.Product
	if err := config.DB.First(&product, req.ProductID).Error; err != nil || !product.IsActive {
		utils.LogError("Product %d not found or inactive", req.ProductID)
		utils.NotFound(c, "Product not found")
		return
	}

	if variant.Stock < req.Quantity {
		utils.LogError("Insufficient stock for variant %d: have %d, want %d", variant.ID, variant.Stock, req.Quantity)
		utils.BadRequest(c, "Insufficient stock", nil)
		return
	}

	var line models.Cart
	err := config.DB.Where("user_id = ? AND product_id = ? AND variant_id = ?", user.ID, req.ProductID, req.VariantID).First(&line).Error
	if err == nil {
		line.Quantity += req.Quantity
		if line.Quantity > maxQuantity {
			line.Quantity = maxQuantity
		}
		if err := config.DB.Save(&line).Error; err != nil {
			utils.LogError("Failed to update cart line for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	} else {
		line = models.Cart{
			UserID:    user.ID,
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
		}
		if err := config.DB.Create(&line).Error; err != nil {
			utils.LogError("Failed to add cart line for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to add to cart", nil)
			return
		}
	}

	utils.LogInfo("Added product %d variant %d x%d to cart for user ID: %d", req.ProductID, req.VariantID, line.Quantity, user.ID)
	utils.Success(c, "Added to cart", gin.H{
		"product_id": line.ProductID,
		"variant_id": line.VariantID,
		"quantity":   line.Quantity,
	})
}

// GetCart returns the user's cart with per-line discounts applied
func GetCart(c *gin.Context) {
	utils.LogInfo("GetCart called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	user := userVal.(models.User)

	var lines []models.Cart
	err := config.DB.Preload("Product").Preload("Variant").
		Where("user_id = ?", user.ID).
		Find(&lines).Error
	if err != nil {
		utils.LogError("Failed to fetch cart for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}

	var subtotal, discountTotal float64
	items := make([]gin.H, 0, len(lines))
	for _, line := range lines {
		lineTotal := line.Product.Price * float64(line.Quantity)
		lineDiscount := lineTotal * float64(line.DiscountPercent) / 100
		subtotal += lineTotal
		discountTotal += lineDiscount

		items = append(items, gin.H{
			"product_id":        line.ProductID,
			"product_name":      line.Product.Name,
			"variant_id":        line.VariantID,
			"size":              line.Variant.Size,
			"color":             line.Variant.Color,
			"quantity":          line.Quantity,
			"unit_price":        line.Product.Price,
			"discount_percent":  line.DiscountPercent,
			"discount_key_type": line.DiscountKeyType,
			"line_total":        math.Round((lineTotal-lineDiscount)*100) / 100,
		})
	}

	utils.Success(c, "Cart retrieved", gin.H{
		"items":    items,
		"subtotal": math.Round(subtotal*100) / 100,
		"discount": math.Round(discountTotal*100) / 100,
		"total":    math.Round((subtotal-discountTotal)*100) / 100,
	})
}
