package services

import (
	"testing"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSettleSplitsTotal(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")
	worker := createTestWorker(t, db, "active")

	booking := createTestBooking(t, db, customer.ID, models.BookingStatusCompleted, 1179)
	booking.WorkerID = &worker.UserID
	require.NoError(t, db.Save(booking).Error)

	var result *SettlementResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = Settle(tx, booking, 2000)
		return err
	})
	require.NoError(t, err)

	// 20% of 1179 rounds half up to 236; the worker gets the remainder.
	assert.Equal(t, int64(236), result.PlatformCommission.Paise)
	assert.Equal(t, int64(943), result.WorkerPayout.Paise)
	assert.False(t, result.AlreadySettled)

	var persisted models.Worker
	require.NoError(t, db.First(&persisted, "user_id = ?", worker.UserID).Error)
	assert.Equal(t, int64(943), persisted.AvailableBalance.Paise)
	assert.Equal(t, int64(943), persisted.TotalEarnings.Paise)

	var txns []models.Transaction
	require.NoError(t, db.Where("booking_id = ?", booking.ID).Find(&txns).Error)
	assert.Len(t, txns, 2)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, "id = ?", booking.ID).Error)
	assert.NotNil(t, reloaded.SettledAt)
}

func TestSettleIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")
	worker := createTestWorker(t, db, "active")

	booking := createTestBooking(t, db, customer.ID, models.BookingStatusCompleted, 50000)
	booking.WorkerID = &worker.UserID
	require.NoError(t, db.Save(booking).Error)

	settle := func() *SettlementResult {
		var result *SettlementResult
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			result, err = Settle(tx, booking, 2000)
			return err
		})
		require.NoError(t, err)
		return result
	}

	first := settle()
	second := settle()

	assert.False(t, first.AlreadySettled)
	assert.True(t, second.AlreadySettled)
	assert.Equal(t, first.WorkerPayout, second.WorkerPayout)
	assert.Equal(t, first.PlatformCommission, second.PlatformCommission)

	// The worker was credited exactly once.
	var persisted models.Worker
	require.NoError(t, db.First(&persisted, "user_id = ?", worker.UserID).Error)
	assert.Equal(t, int64(40000), persisted.AvailableBalance.Paise)

	var payoutRows int64
	db.Model(&models.Transaction{}).Where("booking_id = ? AND type = ?", booking.ID, models.TxnTypePayout).Count(&payoutRows)
	assert.Equal(t, int64(1), payoutRows)
}

func TestSettleRequiresWorker(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")

	booking := createTestBooking(t, db, customer.ID, models.BookingStatusCompleted, 50000)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := Settle(tx, booking, 2000)
		return err
	})
	assert.Error(t, err)
}

func TestSettleZeroCommission(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")
	worker := createTestWorker(t, db, "active")

	booking := createTestBooking(t, db, customer.ID, models.BookingStatusCompleted, 50000)
	booking.WorkerID = &worker.UserID
	require.NoError(t, db.Save(booking).Error)

	var result *SettlementResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = Settle(tx, booking, 0)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.PlatformCommission.Paise)
	assert.Equal(t, int64(50000), result.WorkerPayout.Paise)
}
