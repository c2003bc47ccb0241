package controllers

import (
	"os"

	"github.com/stylesphere/StyleSphere/config"
	"github.com/stylesphere/StyleSphere/models"
	"github.com/stylesphere/StyleSphere/utils"
)

// CreateSampleAdmin creates the initial admin account if none exists
func CreateSampleAdmin() error {
	var count int64
	if err := config.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@stylesphere.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin@123"
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Email:     email,
		Password:  hashed,
		FirstName: "Store",
		LastName:  "Admin",
		IsActive:  true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		return err
	}
	utils.LogInfo("Sample admin created: %s", email)
	return nil
}

// SeedDiscountKeys creates the three discount tiers if they do not exist
func SeedDiscountKeys() error {
	defaults := []models.DiscountKey{
		{KeyType: models.DiscountKeySilver, Percentage: 10, IsActive: true},
		{KeyType: models.DiscountKeyBronze, Percentage: 5, IsActive: true},
		{KeyType: models.DiscountKeyGold, Percentage: 20, IsActive: true},
	}
	for _, key := range defaults {
		var existing models.DiscountKey
		if err := config.DB.Where("key_type = ?", key.KeyType).First(&existing).Error; err == nil {
			continue
		}
		if err := config.DB.Create(&key).Error; err != nil {
			return err
		}
		utils.LogInfo("Seeded discount key: %s (%d%%)", key.KeyType, key.Percentage)
	}
	return nil
}

// SeedCatalog creates a default category and product so the cart endpoints
// work out of the box
func SeedCatalog() error {
	var count int64
	if err := config.DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	category := models.Category{
		Name:        "Dresses",
		Description: "Default category",
	}
	if err := config.DB.Create(&category).Error; err != nil {
		return err
	}

	product := models.Product{
		Name:        "Classic Wrap Dress",
		Description: "A versatile wrap dress for any occasion",
		Brand:       "StyleSphere Basics",
		Price:       79.90,
		CategoryID:  category.ID,
		IsActive:    true,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		return err
	}

	variants := []models.ProductVariant{
		{ProductID: product.ID, Size: "S", Color: "Black", SKU: "CWD-S-BLK", Stock: 25},
		{ProductID: product.ID, Size: "M", Color: "Black", SKU: "CWD-M-BLK", Stock: 25},
		{ProductID: product.ID, Size: "M", Color: "Navy", SKU: "CWD-M-NVY", Stock: 15},
	}
	for i := range variants {
		if err := config.DB.Create(&variants[i]).Error; err != nil {
			return err
		}
	}

	utils.LogInfo("Seeded default catalog: category %q with product %q", category.Name, product.Name)
	return nil
}
