package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylesphere/StyleSphere/controllers"
	"github.com/stylesphere/StyleSphere/middleware"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)
		admin.POST("/logout", controllers.AdminLogout)

		// Protected admin routes
		admin.Use(middleware.AdminAuthMiddleware())
		{
			// Discount key management
			admin.GET("/discount-keys", controllers.ListDiscountKeys)
			admin.POST("/discount-keys", controllers.CreateDiscountKey)
			admin.PUT("/discount-keys/:type", controllers.UpdateDiscountKey)

			// Referral back office
			admin.GET("/referral/usages", controllers.ListReferralUsages)
			admin.GET("/referral/usages/export/excel", controllers.DownloadReferralUsageExcel)
			admin.GET("/referral/usages/export/pdf", controllers.DownloadReferralUsagePDF)
			admin.GET("/referral/identities", controllers.ListReferralIdentities)
			admin.POST("/referral/attempts/:id/reset", controllers.ResetReferralAttempts)
		}
	}
}
