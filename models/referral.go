package models

import (
	"time"
)

// ReferralIdentity holds an account's private 8-digit identifier along with
// the sharing consent flag and the per-account redemption bookkeeping.
// The identifier is minted at registration and never changes afterwards.
type ReferralIdentity struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User               User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Identifier         string    `gorm:"uniqueIndex;size:8;not null" json:"identifier"`
	SharingEnabled     bool      `gorm:"default:false" json:"sharing_enabled"`
	PriorPurchaseCount int       `gorm:"default:0" json:"prior_purchase_count"`
	FailedAttempts     int       `gorm:"default:0" json:"failed_attempts"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ReferralUsage records one successfully redeemed code. The unique index on
// Code is the single-use guarantee: the insert either lands exactly once or
// fails with a duplicate-key violation. Rows are never updated or deleted.
type ReferralUsage struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"uniqueIndex;size:8;not null" json:"code"`
	RedeemerUserID  uint      `gorm:"index;not null" json:"redeemer_user_id"`
	PartnerUserID   uint      `gorm:"index;not null" json:"partner_user_id"`
	DiscountKeyType string    `gorm:"size:16;not null" json:"discount_key_type"`
	CreatedAt       time.Time `json:"created_at"`
}
