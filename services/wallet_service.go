package services

import (
	"fmt"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateWallet returns the user's wallet, creating an empty one on
// first use.
func GetOrCreateWallet(tx *gorm.DB, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Where("user_id = ?", userID).
		Attrs(models.Wallet{UserID: userID, Balance: money.INR(0)}).
		FirstOrCreate(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// CreditWallet adds amount to the user's wallet and appends a ledger row.
// Must run inside a transaction; the wallet row is locked so the balance
// update and the ledger append commit together.
func CreditWallet(tx *gorm.DB, userID uuid.UUID, amount money.Money, reference string) (*models.WalletTransaction, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, money.ErrInvalidAmount
	}

	wallet, err := GetOrCreateWallet(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(wallet, "id = ?", wallet.ID).Error; err != nil {
		return nil, err
	}

	newBalance, err := wallet.Balance.Add(amount)
	if err != nil {
		return nil, err
	}
	wallet.Balance = newBalance
	if err := tx.Save(wallet).Error; err != nil {
		return nil, err
	}

	txn := models.WalletTransaction{
		WalletID:     wallet.ID,
		Type:         models.WalletTxnTypeCredit,
		Amount:       amount,
		BalanceAfter: newBalance,
		Reference:    reference,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// DebitWallet removes amount from the user's wallet. Fails with
// ErrInsufficientBalance when the locked balance cannot cover the amount,
// in which case nothing is persisted.
func DebitWallet(tx *gorm.DB, userID uuid.UUID, amount money.Money, reference string) (*models.WalletTransaction, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, money.ErrInvalidAmount
	}

	wallet, err := GetOrCreateWallet(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(wallet, "id = ?", wallet.ID).Error; err != nil {
		return nil, err
	}

	cmp, err := wallet.Balance.Cmp(amount)
	if err != nil {
		return nil, err
	}
	if cmp < 0 {
		return nil, ErrInsufficientBalance
	}

	newBalance, err := wallet.Balance.Sub(amount)
	if err != nil {
		return nil, err
	}
	wallet.Balance = newBalance
	if err := tx.Save(wallet).Error; err != nil {
		return nil, err
	}

	txn := models.WalletTransaction{
		WalletID:     wallet.ID,
		Type:         models.WalletTxnTypeDebit,
		Amount:       amount,
		BalanceAfter: newBalance,
		Reference:    reference,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// WalletHistory returns the ledger newest-first.
func WalletHistory(db *gorm.DB, userID uuid.UUID) (*models.Wallet, []models.WalletTransaction, error) {
	wallet, err := GetOrCreateWallet(db, userID)
	if err != nil {
		return nil, nil, err
	}

	var txns []models.WalletTransaction
	if err := db.Where("wallet_id = ?", wallet.ID).Order("created_at desc").Find(&txns).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load wallet history: %v", err)
	}
	return wallet, txns, nil
}
