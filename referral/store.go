package referral

import (
	"context"

	"github.com/stylesphere/StyleSphere/models"
)

// CartItemRef identifies one cart line item by product and chosen variant.
type CartItemRef struct {
	ProductID uint `json:"product_id"`
	VariantID uint `json:"variant_id"`
}

// IdentityStore is the persistence contract for referral identities.
// Identifiers are append-only: created once per account, never mutated.
type IdentityStore interface {
	// ByUser returns the identity owned by userID, or ErrIdentityNotFound.
	ByUser(ctx context.Context, userID uint) (*models.ReferralIdentity, error)

	// PartnersByLastFour returns every identity (excluding userID's own)
	// whose identifier ends with the given four digits.
	PartnersByLastFour(ctx context.Context, lastFour string, excludeUserID uint) ([]models.ReferralIdentity, error)

	// IdentifierTaken reports whether the identifier already exists.
	IdentifierTaken(ctx context.Context, identifier string) (bool, error)

	// Neighbors returns the closest existing identifiers strictly below and
	// above the candidate, or empty strings where none exist.
	Neighbors(ctx context.Context, identifier string) (lower, higher string, err error)

	// Create persists a new identity. The unique index on the identifier
	// column backs the global-uniqueness invariant.
	Create(ctx context.Context, identity *models.ReferralIdentity) error

	// SetSharingEnabled flips the account's sharing consent flag.
	SetSharingEnabled(ctx context.Context, userID uint, enabled bool) error
}

// Throttle tracks failed redemption attempts per account. Increments must be
// atomic against the backing store so concurrent failures never lose counts.
type Throttle interface {
	// RecordFailure atomically increments the account's failure count and
	// returns the new count.
	RecordFailure(ctx context.Context, userID uint) (int, error)

	// IsLocked reports whether the account has reached the lockout ceiling.
	IsLocked(ctx context.Context, userID uint) (bool, error)

	// Reset clears the account's failure count. Called on successful
	// redemption and by administrative reset.
	Reset(ctx context.Context, userID uint) error
}

// UsageLedger is the append-only record of redeemed codes.
type UsageLedger interface {
	// Record inserts the usage row exactly once per code. When the code was
	// already redeemed it returns ErrCodeAlreadyUsed; the check and the
	// insert are a single atomic operation, not a read followed by a write.
	Record(ctx context.Context, usage *models.ReferralUsage) error
}

// DiscountKeyCatalog reads the admin-managed discount key reference data.
type DiscountKeyCatalog interface {
	// ActiveKey returns the active key of the given type, or ErrKeyNotFound.
	ActiveKey(ctx context.Context, keyType string) (*models.DiscountKey, error)
}

// DiscountApplicator is the boundary into cart/pricing. Apply marks one
// specific line item with a percentage discount, replacing any discount the
// line already carries.
type DiscountApplicator interface {
	Apply(ctx context.Context, userID uint, item CartItemRef, keyType string, percentage int) error
}
