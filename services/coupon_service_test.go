package services

import (
	"testing"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCoupon() *models.Coupon {
	return &models.Coupon{
		Code:          "CLEAN20",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidTo:       time.Now().Add(time.Hour),
		Active:        true,
	}
}

func TestComputeDiscountPercentage(t *testing.T) {
	discount, err := ComputeDiscount(validCoupon(), money.INR(50000), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), discount.Paise)
}

func TestComputeDiscountPercentageRoundsHalfUp(t *testing.T) {
	// 20% of ₹11.79 is ₹2.358, which rounds to ₹2.36.
	discount, err := ComputeDiscount(validCoupon(), money.INR(1179), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(236), discount.Paise)
}

func TestComputeDiscountFlatCappedAtSubtotal(t *testing.T) {
	coupon := validCoupon()
	coupon.DiscountType = models.DiscountTypeFlat
	coupon.DiscountValue = 100000

	discount, err := ComputeDiscount(coupon, money.INR(30000), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(30000), discount.Paise, "flat discount must never exceed the subtotal")
}

func TestComputeDiscountValidationFailures(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		mutate  func(c *models.Coupon)
		wantErr error
	}{
		{"inactive", func(c *models.Coupon) { c.Active = false }, ErrCouponInactive},
		{"not yet valid", func(c *models.Coupon) { c.ValidFrom = now.Add(time.Hour) }, ErrCouponNotYetValid},
		{"expired", func(c *models.Coupon) { c.ValidTo = now.Add(-time.Minute) }, ErrCouponExpired},
		{"below minimum", func(c *models.Coupon) { c.MinOrderPaise = 99999 }, ErrMinimumAmountNotMet},
		{"exhausted", func(c *models.Coupon) {
			max := int64(5)
			c.MaxUses = &max
			c.UsedCount = 5
		}, ErrCouponExhausted},
		{"unknown type", func(c *models.Coupon) { c.DiscountType = "mystery" }, ErrCouponInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := validCoupon()
			tt.mutate(coupon)
			_, err := ComputeDiscount(coupon, money.INR(50000), now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyCouponUnknownCode(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := ApplyCoupon(db, "NOPE", money.INR(50000), time.Now())
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestRedeemCouponConsumesUses(t *testing.T) {
	db := setupTestDB(t)

	max := int64(2)
	coupon := validCoupon()
	coupon.MaxUses = &max
	require.NoError(t, db.Create(coupon).Error)

	require.NoError(t, RedeemCoupon(db, coupon.ID))
	require.NoError(t, RedeemCoupon(db, coupon.ID))

	// Third redemption loses the compare-and-swap.
	err := RedeemCoupon(db, coupon.ID)
	assert.ErrorIs(t, err, ErrCouponExhausted)

	var persisted models.Coupon
	require.NoError(t, db.First(&persisted, "id = ?", coupon.ID).Error)
	assert.Equal(t, int64(2), persisted.UsedCount)
}

func TestRedeemCouponInactive(t *testing.T) {
	db := setupTestDB(t)

	coupon := validCoupon()
	coupon.Active = false
	require.NoError(t, db.Create(coupon).Error)

	err := RedeemCoupon(db, coupon.ID)
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestRedeemCouponUnlimitedUses(t *testing.T) {
	db := setupTestDB(t)

	coupon := validCoupon()
	require.NoError(t, db.Create(coupon).Error)

	for i := 0; i < 10; i++ {
		require.NoError(t, RedeemCoupon(db, coupon.ID))
	}

	var persisted models.Coupon
	require.NoError(t, db.First(&persisted, "id = ?", coupon.ID).Error)
	assert.Equal(t, int64(10), persisted.UsedCount)
}
