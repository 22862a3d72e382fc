package models

import (
	"time"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TxnTypePayout     = "payout"
	TxnTypeCommission = "commission"
	TxnTypeRefund     = "refund"
)

// Transaction is a settlement record. A completed booking produces exactly
// one payout row and one commission row; a refunded booking one refund row.
type Transaction struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	BookingID uuid.UUID   `gorm:"not null" json:"booking_id"`
	WorkerID  *uuid.UUID  `json:"worker_id"`
	Type      string      `gorm:"size:20;not null" json:"type"`
	Amount    money.Money `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
