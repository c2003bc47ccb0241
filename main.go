package main

import (
	"log"

	"github.com/stylesphere/StyleSphere/config"
	"github.com/stylesphere/StyleSphere/controllers"
	"github.com/stylesphere/StyleSphere/referral"
	"github.com/stylesphere/StyleSphere/routes"
	"github.com/stylesphere/StyleSphere/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	_, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Wire the referral core
	store := referral.NewStore(config.DB)
	generator := referral.NewGenerator(store, referral.GeneratorConfig{})
	service := referral.NewService(store, store, store, store, referral.NewCartApplicator(config.DB))
	controllers.InitReferralService(service, generator, store)

	// Bootstrap data
	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}
	if err := controllers.SeedDiscountKeys(); err != nil {
		utils.LogError("Failed to seed discount keys: %v", err)
		log.Fatal("Failed to seed discount keys:", err)
	}
	if err := controllers.SeedCatalog(); err != nil {
		utils.LogError("Failed to seed catalog: %v", err)
		log.Fatal("Failed to seed catalog:", err)
	}

	// Initialize Google OAuth
	config.InitGoogleOAuth()

	// Set up router
	router := routes.SetupRouter()

	// Add middleware
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	utils.LogInfo("Server starting on port 8080")
	// Start server
	if err := router.Run(":8080"); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
