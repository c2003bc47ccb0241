package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/referral"
	"github.com/stylesphere/StyleSphere/utils"
)

// RedeemReferralRequest represents the redemption request body
type RedeemReferralRequest struct {
	OwnHalf     string `json:"own_half" binding:"required"`
	PartnerHalf string `json:"partner_half" binding:"required"`
	KeyType     string `json:"key_type" binding:"required"`
	ProductID   uint   `json:"product_id" binding:"required"`
	VariantID   uint   `json:"variant_id" binding:"required"`
}

// failureStatus maps a redemption failure reason to its HTTP status.
func failureStatus(reason referral.FailureReason) int {
	switch reason {
	case referral.ReasonNotAuthenticated:
		return http.StatusUnauthorized
	case referral.ReasonAttemptsExceeded:
		return http.StatusTooManyRequests
	case referral.ReasonDiscountKeyNotFound:
		return http.StatusNotFound
	case referral.ReasonCodeAlreadyUsed:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// RedeemReferralCode redeems a combined referral code against one cart line
// item. Malformed digit groups are rejected here, before the validator ever
// touches throttle or ledger state.
func RedeemReferralCode(c *gin.Context) {
	utils.LogInfo("RedeemReferralCode called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	utils.LogInfo("Processing redemption for user ID: %d", user.ID)

	var req RedeemReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid redemption request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if valid, msg := utils.ValidateDigitGroup(req.OwnHalf); !valid {
		utils.LogError("Malformed own half for user ID: %d", user.ID)
		utils.BadRequest(c, "Invalid own half", msg)
		return
	}
	if valid, msg := utils.ValidateDigitGroup(req.PartnerHalf); !valid {
		utils.LogError("Malformed partner half for user ID: %d", user.ID)
		utils.BadRequest(c, "Invalid partner half", msg)
		return
	}
	if !models.ValidDiscountKeyType(req.KeyType) {
		utils.LogError("Unknown discount key type %q for user ID: %d", req.KeyType, user.ID)
		utils.BadRequest(c, "Invalid key type", "Key type must be silver, bronze, or gold")
		return
	}

	result, err := referralService.Redeem(c.Request.Context(), referral.RedeemRequest{
		UserID:      user.ID,
		OwnHalf:     req.OwnHalf,
		PartnerHalf: req.PartnerHalf,
		KeyType:     req.KeyType,
		Item: referral.CartItemRef{
			ProductID: req.ProductID,
			VariantID: req.VariantID,
		},
	})
	if err != nil {
		if errors.Is(err, referral.ErrMalformedInput) {
			utils.BadRequest(c, "Invalid code format", nil)
			return
		}
		if errors.Is(err, referral.ErrCartItemNotFound) {
			utils.LogError("Redemption target cart item missing for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Discount could not be applied", "The redeemed code was recorded but the cart item was not found. Contact support.")
			return
		}
		utils.LogError("Redemption failed for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to process redemption", nil)
		return
	}

	if !result.Succeeded {
		utils.LogInfo("Redemption rejected for user ID: %d, reason: %s", user.ID, result.Reason)
		utils.Error(c, failureStatus(result.Reason), "Redemption failed", gin.H{"reason": result.Reason})
		return
	}

	utils.LogInfo("Redemption succeeded for user ID: %d, code: %s, discount: %d%%", user.ID, result.Code, result.Percentage)

	// Confirmation email is best effort; the redemption already stands.
	go func(email, keyType string, percentage int, code string) {
		if err := utils.SendRedemptionEmail(email, keyType, percentage, code); err != nil {
			utils.LogError("Failed to send redemption email to %s: %v", email, err)
		}
	}(user.Email, result.KeyType, result.Percentage, result.Code)

	utils.Success(c, "Discount applied", gin.H{
		"code":       result.Code,
		"key_type":   result.KeyType,
		"percentage": result.Percentage,
	})
}

// GetReferralProfile returns the caller's own identifier and sharing status
func GetReferralProfile(c *gin.Context) {
	utils.LogInfo("GetReferralProfile called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	identity, err := referralStore.ByUser(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, referral.ErrIdentityNotFound) {
			utils.LogError("Referral identity missing for user ID: %d", user.ID)
			utils.NotFound(c, "Referral identity not found")
			return
		}
		utils.LogError("Failed to load referral identity for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load referral profile", nil)
		return
	}

	attemptsLeft := referral.MaxFailedAttempts - identity.FailedAttempts
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}

	utils.Success(c, "Referral profile", gin.H{
		"identifier":           identity.Identifier,
		"sharing_enabled":      identity.SharingEnabled,
		"prior_purchase_count": identity.PriorPurchaseCount,
		"attempts_left":        attemptsLeft,
	})
}

// UpdateSharingRequest represents the sharing toggle request body
type UpdateSharingRequest struct {
	SharingEnabled *bool `json:"sharing_enabled" binding:"required"`
}

// UpdateReferralSharing flips the caller's sharing consent flag
func UpdateReferralSharing(c *gin.Context) {
	utils.LogInfo("UpdateReferralSharing called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req UpdateSharingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid sharing request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if err := referralStore.SetSharingEnabled(c.Request.Context(), user.ID, *req.SharingEnabled); err != nil {
		if errors.Is(err, referral.ErrIdentityNotFound) {
			utils.NotFound(c, "Referral identity not found")
			return
		}
		utils.LogError("Failed to update sharing for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update sharing", nil)
		return
	}

	utils.LogInfo("Sharing set to %v for user ID: %d", *req.SharingEnabled, user.ID)
	utils.Success(c, "Sharing preference updated", gin.H{
		"sharing_enabled": *req.SharingEnabled,
	})
}
