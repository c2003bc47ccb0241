package models

import (
	"time"

	"gorm.io/gorm"
)

// Discount key tiers
const (
	DiscountKeySilver = "silver"
	DiscountKeyBronze = "bronze"
	DiscountKeyGold   = "gold"
)

// DiscountKey defines a redeemable discount tier. Reference data managed by
// admins; the redemption flow only ever reads it.
//
// IsActive carries no column default: GORM omits zero-valued fields that have
// one, which would silently persist a key created inactive as active. Callers
// set the flag explicitly.
type DiscountKey struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	KeyType    string         `gorm:"uniqueIndex;size:16;not null" json:"key_type"`
	Percentage int            `gorm:"not null;check:percentage >= 1 AND percentage <= 100" json:"percentage"`
	IsActive   bool           `json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidDiscountKeyType reports whether t names a known tier.
func ValidDiscountKeyType(t string) bool {
	switch t {
	case DiscountKeySilver, DiscountKeyBronze, DiscountKeyGold:
		return true
	}
	return false
}
