package models

import (
	"time"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WalletTxnTypeCredit = "credit"
	WalletTxnTypeDebit  = "debit"
)

// Wallet is per-user stored value. Balance is derivable from the transaction
// ledger; the column is the cached current value and must never go negative.
type Wallet struct {
	ID      uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID   `gorm:"not null;unique" json:"user_id"`
	Balance money.Money `gorm:"embedded;embeddedPrefix:balance_" json:"balance"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletTransaction is one append-only ledger row. BalanceAfter snapshots the
// wallet balance at commit time so the ledger can be audited without replay.
type WalletTransaction struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	WalletID     uuid.UUID   `gorm:"not null" json:"wallet_id"`
	Type         string      `gorm:"size:10;not null" json:"type"`
	Amount       money.Money `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	BalanceAfter money.Money `gorm:"embedded;embeddedPrefix:balance_after_" json:"balance_after"`
	Reference    string      `gorm:"size:255;not null" json:"reference"`

	Wallet Wallet `gorm:"foreignkey:WalletID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
