package services

import (
	"testing"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditWalletCreatesWalletAndLedgerRow(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "customer")

	txn, err := CreditWallet(db, user.ID, money.INR(25000), "topup:order_1")
	require.NoError(t, err)
	assert.Equal(t, models.WalletTxnTypeCredit, txn.Type)
	assert.Equal(t, int64(25000), txn.BalanceAfter.Paise)

	wallet, history, err := WalletHistory(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), wallet.Balance.Paise)
	require.Len(t, history, 1)
	assert.Equal(t, "topup:order_1", history[0].Reference)
}

func TestDebitWalletInsufficientBalanceLeavesNothingBehind(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "customer")

	_, err := CreditWallet(db, user.ID, money.INR(500), "topup:small")
	require.NoError(t, err)

	_, err = DebitWallet(db, user.ID, money.INR(600), "booking:SW-X")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	wallet, history, err := WalletHistory(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), wallet.Balance.Paise, "failed debit must not change the balance")
	assert.Len(t, history, 1, "failed debit must not append a ledger row")
}

func TestDebitWalletExactBalance(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "customer")

	_, err := CreditWallet(db, user.ID, money.INR(500), "topup")
	require.NoError(t, err)

	txn, err := DebitWallet(db, user.ID, money.INR(500), "booking:SW-Y")
	require.NoError(t, err)
	assert.Equal(t, int64(0), txn.BalanceAfter.Paise)
}

func TestWalletRejectsNonPositiveAmounts(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "customer")

	_, err := CreditWallet(db, user.ID, money.INR(0), "zero")
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = DebitWallet(db, user.ID, money.New(-100, "INR"), "negative")
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestLedgerReplaysToBalance(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "customer")

	amounts := []int64{10000, 2500, 40000}
	for _, a := range amounts {
		_, err := CreditWallet(db, user.ID, money.INR(a), "topup")
		require.NoError(t, err)
	}
	_, err := DebitWallet(db, user.ID, money.INR(15000), "booking")
	require.NoError(t, err)

	wallet, history, err := WalletHistory(db, user.ID)
	require.NoError(t, err)

	var replayed int64
	for _, txn := range history {
		switch txn.Type {
		case models.WalletTxnTypeCredit:
			replayed += txn.Amount.Paise
		case models.WalletTxnTypeDebit:
			replayed -= txn.Amount.Paise
		}
	}
	assert.Equal(t, wallet.Balance.Paise, replayed, "ledger must reconstruct the cached balance")
	assert.Equal(t, int64(37500), wallet.Balance.Paise)

	// Every row's snapshot matches the running balance at that point. History
	// is newest-first, so replay it backwards.
	running := int64(0)
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Type == models.WalletTxnTypeCredit {
			running += history[i].Amount.Paise
		} else {
			running -= history[i].Amount.Paise
		}
		assert.Equal(t, running, history[i].BalanceAfter.Paise)
	}
}
