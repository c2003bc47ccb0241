package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylesphere/StyleSphere/controllers"
	"github.com/stylesphere/StyleSphere/middleware"
)

// initUserRoutes initializes all user-related routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes (no authentication required)
	router.POST("/register", controllers.RegisterUser)
	router.POST("/login", controllers.LoginUser)

	// Catalog routes
	router.GET("/products", controllers.GetProducts)
	router.GET("/products/:id", controllers.GetProductDetails)

	// Protected routes (require authentication)
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		// Cart operations
		protected.POST("/cart/add", controllers.AddToCart)
		protected.GET("/cart", controllers.GetCart)

		// Referral operations
		protected.GET("/referral", controllers.GetReferralProfile)
		protected.PUT("/referral/sharing", controllers.UpdateReferralSharing)
		protected.POST("/referral/redeem", controllers.RedeemReferralCode)
	}
}
