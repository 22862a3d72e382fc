package models

import (
	"time"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Referral struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ReferrerID     uuid.UUID   `gorm:"not null" json:"referrer_id"`
	ReferredUserID uuid.UUID   `gorm:"not null;unique" json:"referred_user_id"`
	Status         string      `gorm:"size:20;not null;default:'pending'" json:"status"`
	RewardAmount   money.Money `gorm:"embedded;embeddedPrefix:reward_amount_" json:"reward_amount"`

	Referrer     User `gorm:"foreignkey:ReferrerID" json:"-"`
	ReferredUser User `gorm:"foreignkey:ReferredUserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
