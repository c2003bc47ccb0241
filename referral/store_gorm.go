package referral

import (
	"context"
	"errors"
	"time"

	"github.com/stylesphere/StyleSphere/models"
	"gorm.io/gorm"
)

// Store implements IdentityStore, Throttle, UsageLedger and
// DiscountKeyCatalog on top of GORM. The database must be opened with
// TranslateError enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store over the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ByUser returns the identity owned by userID.
func (s *Store) ByUser(ctx context.Context, userID uint) (*models.ReferralIdentity, error) {
	var identity models.ReferralIdentity
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// PartnersByLastFour returns every identity, other than the requester's own,
// whose identifier ends with the given four digits.
func (s *Store) PartnersByLastFour(ctx context.Context, lastFour string, excludeUserID uint) ([]models.ReferralIdentity, error) {
	var identities []models.ReferralIdentity
	err := s.db.WithContext(ctx).
		Where("substr(identifier, 5, 4) = ? AND user_id <> ?", lastFour, excludeUserID).
		Find(&identities).Error
	if err != nil {
		return nil, err
	}
	return identities, nil
}

// IdentifierTaken reports whether the identifier already exists.
func (s *Store) IdentifierTaken(ctx context.Context, identifier string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ReferralIdentity{}).
		Where("identifier = ?", identifier).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Neighbors returns the closest identifiers strictly below and above the
// candidate. Lexicographic order equals numeric order for fixed-width digits.
func (s *Store) Neighbors(ctx context.Context, identifier string) (string, string, error) {
	var lower, higher models.ReferralIdentity
	err := s.db.WithContext(ctx).
		Where("identifier < ?", identifier).
		Order("identifier DESC").Limit(1).Find(&lower).Error
	if err != nil {
		return "", "", err
	}
	err = s.db.WithContext(ctx).
		Where("identifier > ?", identifier).
		Order("identifier ASC").Limit(1).Find(&higher).Error
	if err != nil {
		return "", "", err
	}
	return lower.Identifier, higher.Identifier, nil
}

// Create persists a new identity.
func (s *Store) Create(ctx context.Context, identity *models.ReferralIdentity) error {
	return s.db.WithContext(ctx).Create(identity).Error
}

// SetSharingEnabled flips the sharing consent flag.
func (s *Store) SetSharingEnabled(ctx context.Context, userID uint, enabled bool) error {
	res := s.db.WithContext(ctx).Model(&models.ReferralIdentity{}).
		Where("user_id = ?", userID).
		Update("sharing_enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// RecordFailure increments the failure count in a single statement so two
// concurrent failures can never both read N and write N+1.
func (s *Store) RecordFailure(ctx context.Context, userID uint) (int, error) {
	var count int
	res := s.db.WithContext(ctx).Raw(
		`UPDATE referral_identities SET failed_attempts = failed_attempts + 1, updated_at = ? WHERE user_id = ? RETURNING failed_attempts`,
		time.Now(), userID,
	).Scan(&count)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrIdentityNotFound
	}
	return count, nil
}

// IsLocked reports whether the account reached the lockout ceiling.
func (s *Store) IsLocked(ctx context.Context, userID uint) (bool, error) {
	identity, err := s.ByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return identity.FailedAttempts >= MaxFailedAttempts, nil
}

// Reset clears the failure count.
func (s *Store) Reset(ctx context.Context, userID uint) error {
	res := s.db.WithContext(ctx).Model(&models.ReferralIdentity{}).
		Where("user_id = ?", userID).
		Update("failed_attempts", 0)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// Record inserts the usage row. The unique index on code turns a concurrent
// double-redeem into a duplicate-key violation, reported as
// ErrCodeAlreadyUsed.
func (s *Store) Record(ctx context.Context, usage *models.ReferralUsage) error {
	if err := s.db.WithContext(ctx).Create(usage).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCodeAlreadyUsed
		}
		return err
	}
	return nil
}

// ActiveKey returns the active discount key of the given type.
func (s *Store) ActiveKey(ctx context.Context, keyType string) (*models.DiscountKey, error) {
	var key models.DiscountKey
	err := s.db.WithContext(ctx).
		Where("key_type = ? AND is_active = ?", keyType, true).
		First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return &key, nil
}

// CartApplicator writes line-item discounts into the cart table. It is the
// production DiscountApplicator.
type CartApplicator struct {
	db *gorm.DB
}

// NewCartApplicator creates a CartApplicator over the given database handle.
func NewCartApplicator(db *gorm.DB) *CartApplicator {
	return &CartApplicator{db: db}
}

// Apply sets the discount on one cart line item, replacing whatever discount
// the line carried before. A missing line is an error, never a silent no-op.
func (a *CartApplicator) Apply(ctx context.Context, userID uint, item CartItemRef, keyType string, percentage int) error {
	res := a.db.WithContext(ctx).Model(&models.Cart{}).
		Where("user_id = ? AND product_id = ? AND variant_id = ?", userID, item.ProductID, item.VariantID).
		Updates(map[string]interface{}{
			"discount_percent":  percentage,
			"discount_key_type": keyType,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}
