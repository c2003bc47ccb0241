package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylesphere/StyleSphere/config"
	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/utils"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

// RegisterUser handles user registration. The referral identity is minted in
// the same transaction as the user row so every account always has one.
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", "Please check your input data and ensure all required fields are provided correctly.")
		return
	}

	utils.LogInfo("Registration attempt for email: %s, username: %s", req.Email, req.Username)

	var fieldErrors utils.FieldValidationErrors
	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		fieldErrors = append(fieldErrors, utils.FieldValidationError{Field: "username", Message: msg})
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		fieldErrors = append(fieldErrors, utils.FieldValidationError{Field: "email", Message: msg})
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		fieldErrors = append(fieldErrors, utils.FieldValidationError{Field: "password", Message: msg})
	}
	if req.Password != req.ConfirmPassword {
		fieldErrors = append(fieldErrors, utils.FieldValidationError{Field: "confirm_password", Message: "Password and confirm password must be the same"})
	}
	if len(fieldErrors) > 0 {
		utils.LogError("Registration attempt failed - Validation errors for email: %s - %v", req.Email, fieldErrors)
		utils.ValidationError(c, "Validation failed", fieldErrors)
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration attempt failed - Account already exists for email: %s", req.Email)
		utils.Conflict(c, "An account with this email or username already exists", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process registration", nil)
		return
	}

	identifier, err := referralGenerator.Generate(c.Request.Context())
	if err != nil {
		utils.LogError("Failed to generate referral identifier for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process registration", nil)
		return
	}

	user := models.User{
		Username:   utils.SanitizeString(req.Username),
		Email:      req.Email,
		Password:   hashedPassword,
		FirstName:  utils.SanitizeString(req.FirstName),
		LastName:   utils.SanitizeString(req.LastName),
		Phone:      req.Phone,
		IsVerified: true,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for registration: %v", tx.Error)
		utils.InternalServerError(c, "Failed to process registration", nil)
		return
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create user for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}
	identity := models.ReferralIdentity{
		UserID:     user.ID,
		Identifier: identifier,
	}
	if err := tx.Create(&identity).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create referral identity for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit registration for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	utils.LogInfo("User registered successfully: %d (%s)", user.ID, user.Email)
	utils.Created(c, "Registration successful", gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser handles user login
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	utils.LogInfo("Login attempt for email: %s", req.Email)

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login failed - User not found for email: %s", req.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if user.IsBlocked {
		utils.LogError("Login failed - Blocked user: %d", user.ID)
		utils.Forbidden(c, "Account is blocked")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login failed - Invalid password for user: %d", user.ID)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	user.LastLoginAt = time.Now()
	if err := config.DB.Save(&user).Error; err != nil {
		utils.LogError("Failed to update last login for user %d: %v", user.ID, err)
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("User %d logged in successfully", user.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// mintIdentityForUser creates a referral identity for accounts created
// outside the standard registration flow (OAuth sign-ins).
func mintIdentityForUser(c *gin.Context, userID uint) error {
	identifier, err := referralGenerator.Generate(c.Request.Context())
	if err != nil {
		return err
	}
	return referralStore.Create(c.Request.Context(), &models.ReferralIdentity{
		UserID:     userID,
		Identifier: identifier,
	})
}
