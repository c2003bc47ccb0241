package referral

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylesphere/StyleSphere/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. TranslateError must
// be on, as in production, so unique violations map to gorm.ErrDuplicatedKey.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second pool connection would see a different empty in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.ReferralIdentity{},
		&models.ReferralUsage{},
		&models.DiscountKey{},
		&models.Cart{},
	))
	return db
}

func seedIdentity(t *testing.T, db *gorm.DB, userID uint, identifier string, sharing bool) {
	t.Helper()
	require.NoError(t, db.Create(&models.ReferralIdentity{
		UserID:         userID,
		Identifier:     identifier,
		SharingEnabled: sharing,
	}).Error)
}

func TestStoreByUser(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "12345678", true)

	identity, err := store.ByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "12345678", identity.Identifier)
	assert.True(t, identity.SharingEnabled)

	_, err = store.ByUser(context.Background(), 2)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestStorePartnersByLastFour(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "12344321", true)
	seedIdentity(t, db, 2, "87654321", true)
	seedIdentity(t, db, 3, "55554321", false)
	seedIdentity(t, db, 4, "43210000", true) // prefix match only, must not hit

	partners, err := store.PartnersByLastFour(context.Background(), "4321", 1)
	require.NoError(t, err)
	require.Len(t, partners, 2, "the requester's own identity is excluded")
	for _, p := range partners {
		assert.NotEqual(t, uint(1), p.UserID)
		assert.Equal(t, "4321", p.Identifier[4:])
	}

	partners, err = store.PartnersByLastFour(context.Background(), "9999", 1)
	require.NoError(t, err)
	assert.Empty(t, partners)
}

func TestStoreIdentifierTaken(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "12345678", false)

	taken, err := store.IdentifierTaken(context.Background(), "12345678")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = store.IdentifierTaken(context.Background(), "87654321")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestStoreCreateRejectsDuplicateIdentifier(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "12345678", false)

	err := store.Create(context.Background(), &models.ReferralIdentity{
		UserID:     2,
		Identifier: "12345678",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestStoreNeighbors(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "10000000", false)
	seedIdentity(t, db, 2, "50000000", false)
	seedIdentity(t, db, 3, "90000000", false)

	lower, higher, err := store.Neighbors(context.Background(), "60000000")
	require.NoError(t, err)
	assert.Equal(t, "50000000", lower)
	assert.Equal(t, "90000000", higher)

	lower, higher, err = store.Neighbors(context.Background(), "00000001")
	require.NoError(t, err)
	assert.Empty(t, lower)
	assert.Equal(t, "10000000", higher)

	lower, higher, err = store.Neighbors(context.Background(), "99999999")
	require.NoError(t, err)
	assert.Equal(t, "90000000", lower)
	assert.Empty(t, higher)
}

func TestStoreSetSharingEnabled(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "12345678", false)

	require.NoError(t, store.SetSharingEnabled(context.Background(), 1, true))
	identity, err := store.ByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, identity.SharingEnabled)

	require.NoError(t, store.SetSharingEnabled(context.Background(), 1, false))
	identity, err = store.ByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, identity.SharingEnabled)

	assert.ErrorIs(t, store.SetSharingEnabled(context.Background(), 42, true), ErrIdentityNotFound)
}

func TestStoreRecordFailureIncrements(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "12345678", false)

	for want := 1; want <= 3; want++ {
		count, err := store.RecordFailure(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	_, err := store.RecordFailure(context.Background(), 42)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestStoreRecordFailureConcurrent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "12345678", false)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.RecordFailure(context.Background(), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	identity, err := store.ByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, workers, identity.FailedAttempts, "no increment may be lost")
}

func TestStoreLockingAndReset(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedIdentity(t, db, 1, "12345678", false)

	locked, err := store.IsLocked(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, locked)

	for i := 0; i < MaxFailedAttempts; i++ {
		_, err := store.RecordFailure(context.Background(), 1)
		require.NoError(t, err)
	}
	locked, err = store.IsLocked(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, store.Reset(context.Background(), 1))
	locked, err = store.IsLocked(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, locked)

	assert.ErrorIs(t, store.Reset(context.Background(), 42), ErrIdentityNotFound)
}

func TestStoreRecordUsageSingleUse(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	usage := &models.ReferralUsage{
		Code:            "12344321",
		RedeemerUserID:  1,
		PartnerUserID:   2,
		DiscountKeyType: models.DiscountKeyGold,
	}
	require.NoError(t, store.Record(context.Background(), usage))

	again := &models.ReferralUsage{
		Code:            "12344321",
		RedeemerUserID:  3,
		PartnerUserID:   4,
		DiscountKeyType: models.DiscountKeySilver,
	}
	assert.ErrorIs(t, store.Record(context.Background(), again), ErrCodeAlreadyUsed)

	var count int64
	require.NoError(t, db.Model(&models.ReferralUsage{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStoreRecordUsageConcurrent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Record(context.Background(), &models.ReferralUsage{
				Code:            "56781234",
				RedeemerUserID:  uint(i + 1),
				PartnerUserID:   99,
				DiscountKeyType: models.DiscountKeyGold,
			})
		}(i)
	}
	wg.Wait()

	var recorded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			recorded++
		default:
			require.ErrorIs(t, err, ErrCodeAlreadyUsed)
			rejected++
		}
	}
	assert.Equal(t, 1, recorded, "the code is spendable exactly once")
	assert.Equal(t, workers-1, rejected)
}

func TestStoreActiveKey(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	require.NoError(t, db.Create(&models.DiscountKey{
		KeyType:    models.DiscountKeyGold,
		Percentage: 20,
		IsActive:   true,
	}).Error)
	require.NoError(t, db.Create(&models.DiscountKey{
		KeyType:    models.DiscountKeyBronze,
		Percentage: 5,
		IsActive:   false,
	}).Error)

	key, err := store.ActiveKey(context.Background(), models.DiscountKeyGold)
	require.NoError(t, err)
	assert.Equal(t, 20, key.Percentage)

	_, err = store.ActiveKey(context.Background(), models.DiscountKeyBronze)
	assert.ErrorIs(t, err, ErrKeyNotFound, "inactive keys are invisible")

	_, err = store.ActiveKey(context.Background(), "platinum")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStoreInactiveKeyStaysInactive(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	// Created inactive, the flag must survive the insert as written.
	require.NoError(t, db.Create(&models.DiscountKey{
		KeyType:    models.DiscountKeyBronze,
		Percentage: 5,
		IsActive:   false,
	}).Error)

	var stored models.DiscountKey
	require.NoError(t, db.Where("key_type = ?", models.DiscountKeyBronze).First(&stored).Error)
	assert.False(t, stored.IsActive, "a key created inactive must not be persisted as active")

	_, err := store.ActiveKey(context.Background(), models.DiscountKeyBronze)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestCartApplicatorApply(t *testing.T) {
	db := newTestDB(t)
	applicator := NewCartApplicator(db)
	require.NoError(t, db.Create(&models.Cart{
		UserID:    1,
		ProductID: 10,
		VariantID: 100,
		Quantity:  2,
	}).Error)

	item := CartItemRef{ProductID: 10, VariantID: 100}
	require.NoError(t, applicator.Apply(context.Background(), 1, item, models.DiscountKeySilver, 10))

	var line models.Cart
	require.NoError(t, db.Where("user_id = ? AND product_id = ? AND variant_id = ?", 1, 10, 100).First(&line).Error)
	assert.Equal(t, 10, line.DiscountPercent)
	assert.Equal(t, models.DiscountKeySilver, line.DiscountKeyType)

	// A later redemption against the same line replaces the discount.
	require.NoError(t, applicator.Apply(context.Background(), 1, item, models.DiscountKeyGold, 20))
	require.NoError(t, db.Where("user_id = ? AND product_id = ? AND variant_id = ?", 1, 10, 100).First(&line).Error)
	assert.Equal(t, 20, line.DiscountPercent)
	assert.Equal(t, models.DiscountKeyGold, line.DiscountKeyType)
}

func TestCartApplicatorMissingLine(t *testing.T) {
	db := newTestDB(t)
	applicator := NewCartApplicator(db)

	err := applicator.Apply(context.Background(), 1, CartItemRef{ProductID: 10, VariantID: 100}, models.DiscountKeyGold, 20)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

// End-to-end over the real store: the scenario a support ticket would
// describe, driven through Service with SQLite backing everything.
func TestRedeemAgainstDatabase(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	service := NewService(store, store, store, store, NewCartApplicator(db))

	require.NoError(t, db.Create(&models.ReferralIdentity{
		UserID:             1,
		Identifier:         "12345678",
		PriorPurchaseCount: 1,
	}).Error)
	require.NoError(t, db.Create(&models.ReferralIdentity{
		UserID:         2,
		Identifier:     "87654321",
		SharingEnabled: true,
	}).Error)
	require.NoError(t, db.Create(&models.DiscountKey{
		KeyType:    models.DiscountKeyGold,
		Percentage: 20,
		IsActive:   true,
	}).Error)
	require.NoError(t, db.Create(&models.Cart{
		UserID:    1,
		ProductID: 10,
		VariantID: 100,
		Quantity:  1,
	}).Error)

	req := RedeemRequest{
		UserID:      1,
		OwnHalf:     "1234",
		PartnerHalf: "4321",
		KeyType:     models.DiscountKeyGold,
		Item:        CartItemRef{ProductID: 10, VariantID: 100},
	}
	result, err := service.Redeem(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Succeeded)
	assert.Equal(t, "12344321", result.Code)
	assert.Equal(t, 20, result.Percentage)

	var line models.Cart
	require.NoError(t, db.Where("user_id = ?", 1).First(&line).Error)
	assert.Equal(t, 20, line.DiscountPercent)

	result, err = service.Redeem(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Succeeded)
	assert.Equal(t, ReasonCodeAlreadyUsed, result.Reason)
}
