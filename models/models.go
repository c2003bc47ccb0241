package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a regular customer in the system
type User struct {
	gorm.Model
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	IsBlocked    bool      `json:"is_blocked"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	LastLoginAt  time.Time `json:"last_login_at"`
	GoogleID     string    `gorm:"default:null" json:"google_id"`
}

// Admin represents an administrator in the system
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// Category represents a product category (e.g. dresses, outerwear)
type Category struct {
	gorm.Model
	Name        string    `json:"name" gorm:"uniqueIndex"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
	Blocked     bool      `json:"blocked" gorm:"default:false"`
}

// Product represents a garment in the catalog
type Product struct {
	gorm.Model
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Brand       string           `json:"brand"`
	Price       float64          `json:"price"`
	CategoryID  uint             `json:"category_id"`
	Category    Category         `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	ImageURL    string           `json:"image_url"`
	IsActive    bool             `json:"is_active" gorm:"default:true"`
	Variants    []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
}

// ProductVariant is one purchasable size/color combination of a product
type ProductVariant struct {
	gorm.Model
	ProductID uint   `json:"product_id" gorm:"index;not null"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	SKU       string `json:"sku" gorm:"uniqueIndex"`
	Stock     int    `json:"stock" gorm:"default:0"`
}

// Cart is one line item in a user's cart. A line is identified by
// (user, product, variant) and carries at most one active discount.
type Cart struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"uniqueIndex:idx_cart_line;not null"`
	User            User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProductID       uint           `json:"product_id" gorm:"uniqueIndex:idx_cart_line;not null"`
	Product         Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	VariantID       uint           `json:"variant_id" gorm:"uniqueIndex:idx_cart_line;not null"`
	Variant         ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Quantity        int            `json:"quantity"`
	DiscountPercent int            `json:"discount_percent" gorm:"default:0"`
	DiscountKeyType string         `json:"discount_key_type"`
}
