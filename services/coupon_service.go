package services

import (
	"errors"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComputeDiscount validates the coupon against the subtotal at the given
// instant and returns the discount. The discount is capped at the subtotal
// so a generous flat coupon can never drive the total negative.
func ComputeDiscount(coupon *models.Coupon, subtotal money.Money, now time.Time) (money.Money, error) {
	if !coupon.Active {
		return money.Money{}, ErrCouponInactive
	}
	if now.Before(coupon.ValidFrom) {
		return money.Money{}, ErrCouponNotYetValid
	}
	if now.After(coupon.ValidTo) {
		return money.Money{}, ErrCouponExpired
	}
	if subtotal.Paise < coupon.MinOrderPaise {
		return money.Money{}, ErrMinimumAmountNotMet
	}
	if coupon.MaxUses != nil && coupon.UsedCount >= *coupon.MaxUses {
		return money.Money{}, ErrCouponExhausted
	}

	var discount money.Money
	switch coupon.DiscountType {
	case models.DiscountTypeFlat:
		discount = money.New(coupon.DiscountValue, subtotal.Currency)
	case models.DiscountTypePercentage:
		discount = subtotal.MulRate(coupon.DiscountValue, 100)
	default:
		return money.Money{}, ErrCouponInactive
	}

	if discount.Paise > subtotal.Paise {
		discount = subtotal
	}
	return discount, nil
}

// ApplyCoupon looks up the code and computes the discount it would grant.
// It does not consume a use; that happens at RedeemCoupon when the booking
// is actually committed.
func ApplyCoupon(db *gorm.DB, code string, subtotal money.Money, now time.Time) (*models.Coupon, money.Money, error) {
	var coupon models.Coupon
	if err := db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, money.Money{}, ErrCouponInactive
		}
		return nil, money.Money{}, err
	}

	discount, err := ComputeDiscount(&coupon, subtotal, now)
	if err != nil {
		return nil, money.Money{}, err
	}
	return &coupon, discount, nil
}

// RedeemCoupon consumes one use with compare-and-swap semantics: the guarded
// UPDATE re-checks max_uses at commit time, so two customers racing for the
// last slot of a limited coupon cannot both win.
func RedeemCoupon(tx *gorm.DB, couponID uuid.UUID) error {
	result := tx.Model(&models.Coupon{}).
		Where("id = ? AND active = ? AND (max_uses IS NULL OR used_count < max_uses)", couponID, true).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}
