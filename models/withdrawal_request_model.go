package models

import (
	"time"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WithdrawalRequest struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	WorkerID    uuid.UUID   `gorm:"not null" json:"worker_id"`
	Amount      money.Money `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	Status      string      `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes  *string     `gorm:"type:text" json:"admin_notes"`
	RequestedAt time.Time   `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time  `json:"processed_at"`

	Worker User `gorm:"foreignkey:WorkerID" json:"worker,omitempty"`
}

func (w *WithdrawalRequest) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
