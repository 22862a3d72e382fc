package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types are a closed set; every row carries the fields its type
// needs explicitly instead of a free-form metadata blob.
const (
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingAssigned  = "booking_assigned"
	NotificationBookingStarted   = "booking_started"
	NotificationBookingCompleted = "booking_completed"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationPayoutCredited   = "payout_credited"
	NotificationWithdrawalUpdate = "withdrawal_update"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID  `gorm:"not null" json:"user_id"`
	Type      string     `gorm:"size:30;not null" json:"type"`
	BookingID *uuid.UUID `json:"booking_id"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	ReadAt    *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
