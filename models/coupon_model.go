package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DiscountTypeFlat       = "flat"
	DiscountTypePercentage = "percentage"
)

// Coupon holds a discount code. DiscountValue is paise for flat coupons and
// whole percent for percentage coupons. MaxUses nil means unlimited.
type Coupon struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Code          string    `gorm:"size:20;not null;unique" json:"code"`
	DiscountType  string    `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue int64     `gorm:"not null" json:"discount_value"`
	MinOrderPaise int64     `gorm:"not null;default:0" json:"min_order_paise"`
	MaxUses       *int64    `json:"max_uses"`
	UsedCount     int64     `gorm:"not null;default:0" json:"used_count"`
	ValidFrom     time.Time `gorm:"not null" json:"valid_from"`
	ValidTo       time.Time `gorm:"not null" json:"valid_to"`
	Active        bool      `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
