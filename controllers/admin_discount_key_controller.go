package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/stylesphere/StyleSphere/config"
	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/utils"
)

// DiscountKeyRequest represents the create/update request body
type DiscountKeyRequest struct {
	KeyType    string `json:"key_type" binding:"required"`
	Percentage int    `json:"percentage" binding:"required"`
	IsActive   *bool  `json:"is_active"`
}

func validateDiscountKeyRequest(req *DiscountKeyRequest) *utils.AppError {
	if !models.ValidDiscountKeyType(req.KeyType) {
		return utils.BadRequestError("Key type must be silver, bronze, or gold", nil)
	}
	if req.Percentage < 1 || req.Percentage > 100 {
		return utils.BadRequestError("Percentage must be between 1 and 100", nil)
	}
	return nil
}

func respondAppError(c *gin.Context, appErr *utils.AppError) {
	utils.LogError("Discount key request failed: %v", appErr)
	utils.Error(c, appErr.Code, appErr.Message, nil)
}

// ListDiscountKeys returns all discount keys
func ListDiscountKeys(c *gin.Context) {
	utils.LogInfo("ListDiscountKeys called")

	var keys []models.DiscountKey
	if err := config.DB.Order("key_type").Find(&keys).Error; err != nil {
		utils.LogError("Failed to fetch discount keys: %v", err)
		utils.InternalServerError(c, "Failed to fetch discount keys", nil)
		return
	}

	utils.Success(c, "Discount keys retrieved", gin.H{"discount_keys": keys})
}

// CreateDiscountKey creates a new discount key tier
func CreateDiscountKey(c *gin.Context) {
	utils.LogInfo("CreateDiscountKey called")

	var req DiscountKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid discount key request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if appErr := validateDiscountKeyRequest(&req); appErr != nil {
		respondAppError(c, appErr)
		return
	}

	var existing models.DiscountKey
	if err := config.DB.Where("key_type = ?", req.KeyType).First(&existing).Error; err == nil {
		respondAppError(c, utils.ConflictError("A discount key of this type already exists", nil))
		return
	}

	key := models.DiscountKey{
		KeyType:    req.KeyType,
		Percentage: req.Percentage,
		IsActive:   true,
	}
	if req.IsActive != nil {
		key.IsActive = *req.IsActive
	}

	if err := config.DB.Create(&key).Error; err != nil {
		utils.LogError("Failed to create discount key %s: %v", req.KeyType, err)
		utils.InternalServerError(c, "Failed to create discount key", nil)
		return
	}

	utils.LogInfo("Discount key created: %s (%d%%)", key.KeyType, key.Percentage)
	utils.Created(c, "Discount key created", gin.H{"discount_key": key})
}

// UpdateDiscountKey updates an existing discount key tier
func UpdateDiscountKey(c *gin.Context) {
	utils.LogInfo("UpdateDiscountKey called")

	keyType := c.Param("type")
	var key models.DiscountKey
	if err := config.DB.Where("key_type = ?", keyType).First(&key).Error; err != nil {
		respondAppError(c, utils.NotFoundError("Discount key not found", err))
		return
	}

	var req struct {
		Percentage *int  `json:"percentage"`
		IsActive   *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid discount key update request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.Percentage != nil {
		if *req.Percentage < 1 || *req.Percentage > 100 {
			utils.BadRequest(c, "Percentage must be between 1 and 100", nil)
			return
		}
		key.Percentage = *req.Percentage
	}
	if req.IsActive != nil {
		key.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&key).Error; err != nil {
		utils.LogError("Failed to update discount key %s: %v", keyType, err)
		utils.InternalServerError(c, "Failed to update discount key", nil)
		return
	}

	utils.LogInfo("Discount key updated: %s (%d%%, active=%v)", key.KeyType, key.Percentage, key.IsActive)
	utils.Success(c, "Discount key updated", gin.H{"discount_key": key})
}
