package models

import (
	"time"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusAssigned   = "assigned"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
)

const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

type Booking struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Reference  string     `gorm:"size:20;not null;unique" json:"reference"`
	CustomerID uuid.UUID  `gorm:"not null" json:"customer_id"`
	WorkerID   *uuid.UUID `json:"worker_id"`
	ServiceID  uuid.UUID  `gorm:"not null" json:"service_id"`

	ScheduledAt     time.Time `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	AddressLine     string    `gorm:"size:255;not null" json:"address_line"`
	City            string    `gorm:"size:100" json:"city"`
	Pincode         string    `gorm:"size:10" json:"pincode"`

	BasePrice   money.Money `gorm:"embedded;embeddedPrefix:base_price_" json:"base_price"`
	Discount    money.Money `gorm:"embedded;embeddedPrefix:discount_" json:"discount"`
	TotalAmount money.Money `gorm:"embedded;embeddedPrefix:total_amount_" json:"total_amount"`
	CouponCode  *string     `gorm:"size:20" json:"coupon_code"`

	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;not null;default:'unpaid'" json:"payment_status"`

	CheckedInAt    *time.Time `json:"checked_in_at"`
	BeforePhotoURL *string    `gorm:"type:text" json:"before_photo_url"`
	AfterPhotoURL  *string    `gorm:"type:text" json:"after_photo_url"`
	RefundedAt     *time.Time `json:"refunded_at"`
	SettledAt      *time.Time `json:"settled_at"`
	InvoiceURL     *string    `gorm:"type:text" json:"invoice_url"`
	CancelReason   *string    `gorm:"type:text" json:"cancel_reason"`

	AddOns []BookingAddOn `gorm:"foreignkey:BookingID" json:"add_ons"`

	Customer User    `gorm:"foreignkey:CustomerID" json:"customer,omitempty"`
	Worker   *User   `gorm:"foreignkey:WorkerID" json:"worker,omitempty"`
	Service  Service `gorm:"foreignkey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingAddOn snapshots a chosen add-on's name and price at booking time so
// later catalog edits never change what the customer was charged.
type BookingAddOn struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	BookingID uuid.UUID   `gorm:"not null" json:"-"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	Price     money.Money `gorm:"embedded;embeddedPrefix:price_" json:"price"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (a *BookingAddOn) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ComputeTotal recalculates TotalAmount = basePrice + sum(addOns) - discount.
// The pricing rule lives here, not in a persistence hook, so transitions can
// call it explicitly and tests can exercise it in isolation.
func (b *Booking) ComputeTotal() error {
	total := b.BasePrice
	var err error
	for _, addOn := range b.AddOns {
		total, err = total.Add(addOn.Price)
		if err != nil {
			return err
		}
	}
	total, err = total.Sub(b.Discount)
	if err != nil {
		return err
	}
	b.TotalAmount = total
	return nil
}

// End returns the end of the booking's scheduled window.
func (b *Booking) End() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Overlaps reports whether two scheduled windows intersect.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.ScheduledAt.Before(end) && start.Before(b.End())
}
