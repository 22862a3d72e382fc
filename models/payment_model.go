package models

import (
	"time"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentCreated  = "created"
	PaymentPending  = "pending"
	PaymentCaptured = "captured"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

const (
	PaymentPurposeBooking     = "booking"
	PaymentPurposeWalletTopUp = "wallet_topup"
)

// Payment is one collection attempt. A booking may accumulate several rows
// across retries; at most one of them ever reaches "captured".
type Payment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BookingID *uuid.UUID `json:"booking_id"`
	UserID    uuid.UUID  `gorm:"not null" json:"user_id"`
	Purpose   string     `gorm:"size:20;not null;default:'booking'" json:"purpose"`

	Amount money.Money `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	Method string      `gorm:"size:20;not null" json:"method"`
	Status string      `gorm:"size:20;not null;default:'created'" json:"status"`

	GatewayOrderID   *string `gorm:"size:255;unique" json:"gateway_order_id"`
	GatewayPaymentID *string `gorm:"size:255;unique" json:"gateway_payment_id"`
	Signature        *string `gorm:"size:255" json:"-"`
	RefundID         *string `gorm:"size:255" json:"refund_id"`

	Booking *Booking `gorm:"foreignkey:BookingID" json:"booking,omitempty"`
	User    User     `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
