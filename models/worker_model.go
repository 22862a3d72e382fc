package models

import (
	"time"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
)

// Worker is the service-provider profile attached to a User. A worker is
// bookable only while Status is "active".
type Worker struct {
	UserID    uuid.UUID `gorm:"primary_key" json:"user_id"`
	Headline  *string   `gorm:"size:255" json:"headline"`
	Bio       *string   `gorm:"type:text" json:"bio"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	AvgRating float32   `gorm:"default:0" json:"avg_rating"`

	Skills []*Service `gorm:"many2many:worker_skills;" json:"skills"`

	TotalEarnings     money.Money `gorm:"embedded;embeddedPrefix:total_earnings_" json:"total_earnings"`
	AvailableBalance  money.Money `gorm:"embedded;embeddedPrefix:available_balance_" json:"available_balance"`
	PendingWithdrawal money.Money `gorm:"embedded;embeddedPrefix:pending_withdrawal_" json:"pending_withdrawal"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
