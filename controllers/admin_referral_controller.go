package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stylesphere/StyleSphere/config"
	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/referral"
	"github.com/stylesphere/StyleSphere/utils"
)

// ListReferralUsages returns the usage ledger, newest first, paginated
func ListReferralUsages(c *gin.Context) {
	utils.LogInfo("ListReferralUsages called")

	page, limit := utils.GetPaginationParams(c)

	var total int64
	if err := config.DB.Model(&models.ReferralUsage{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count referral usages: %v", err)
		utils.InternalServerError(c, "Failed to fetch referral usages", nil)
		return
	}

	var usages []models.ReferralUsage
	err := config.DB.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&usages).Error
	if err != nil {
		utils.LogError("Failed to fetch referral usages: %v", err)
		utils.InternalServerError(c, "Failed to fetch referral usages", nil)
		return
	}

	utils.SuccessWithPagination(c, "Referral usages retrieved", gin.H{"usages": usages}, total, page, limit)
}

// ListReferralIdentities returns all referral identities for the back office
func ListReferralIdentities(c *gin.Context) {
	utils.LogInfo("ListReferralIdentities called")

	page, limit := utils.GetPaginationParams(c)

	var total int64
	if err := config.DB.Model(&models.ReferralIdentity{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count referral identities: %v", err)
		utils.InternalServerError(c, "Failed to fetch referral identities", nil)
		return
	}

	var identities []models.ReferralIdentity
	err := config.DB.Preload("User").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&identities).Error
	if err != nil {
		utils.LogError("Failed to fetch referral identities: %v", err)
		utils.InternalServerError(c, "Failed to fetch referral identities", nil)
		return
	}

	utils.SuccessWithPagination(c, "Referral identities retrieved", gin.H{"identities": identities}, total, page, limit)
}

// ResetReferralAttempts clears a locked-out account's failure counter. This
// is the administrative reset; the only other path back is a successful
// redemption.
func ResetReferralAttempts(c *gin.Context) {
	utils.LogInfo("ResetReferralAttempts called")

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	if err := referralStore.Reset(c.Request.Context(), uint(userID)); err != nil {
		if errors.Is(err, referral.ErrIdentityNotFound) {
			utils.NotFound(c, "Referral identity not found")
			return
		}
		utils.LogError("Failed to reset attempts for user %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to reset attempts", nil)
		return
	}

	utils.LogInfo("Referral attempts reset for user %d", userID)
	utils.Success(c, "Attempt counter reset", gin.H{"user_id": userID})
}
