package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"gorm.io/gorm"
)

type SettlementResult struct {
	WorkerPayout       money.Money `json:"worker_payout"`
	PlatformCommission money.Money `json:"platform_commission"`
	AlreadySettled     bool        `json:"already_settled"`
}

// Settle splits a completed booking's total into worker payout and platform
// commission, credits the worker's available balance and records the payout
// and commission transactions — all inside the caller's transaction, so a
// failure anywhere rolls the whole settlement back.
//
// Settlement is keyed by booking id: settling an already-settled booking is
// a no-op that returns the prior split, which makes duplicate "completed"
// deliveries harmless.
func Settle(tx *gorm.DB, booking *models.Booking, commissionBasisPoints int64) (*SettlementResult, error) {
	if booking.WorkerID == nil {
		return nil, fmt.Errorf("cannot settle booking %s without an assigned worker", booking.ID)
	}

	var prior models.Transaction
	err := tx.Where("booking_id = ? AND type = ?", booking.ID, models.TxnTypePayout).First(&prior).Error
	if err == nil {
		var commission models.Transaction
		if err := tx.Where("booking_id = ? AND type = ?", booking.ID, models.TxnTypeCommission).First(&commission).Error; err != nil {
			return nil, err
		}
		return &SettlementResult{
			WorkerPayout:       prior.Amount,
			PlatformCommission: commission.Amount,
			AlreadySettled:     true,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	commission := booking.TotalAmount.MulPercent(commissionBasisPoints)
	payout, err := booking.TotalAmount.Sub(commission)
	if err != nil {
		return nil, err
	}

	err = tx.Model(&models.Worker{}).Where("user_id = ?", *booking.WorkerID).
		Updates(map[string]interface{}{
			"available_balance_paise": gorm.Expr("available_balance_paise + ?", payout.Paise),
			"total_earnings_paise":    gorm.Expr("total_earnings_paise + ?", payout.Paise),
		}).Error
	if err != nil {
		return nil, err
	}

	records := []models.Transaction{
		{BookingID: booking.ID, WorkerID: booking.WorkerID, Type: models.TxnTypePayout, Amount: payout},
		{BookingID: booking.ID, WorkerID: booking.WorkerID, Type: models.TxnTypeCommission, Amount: commission},
	}
	for i := range records {
		if err := tx.Create(&records[i]).Error; err != nil {
			return nil, err
		}
	}

	now := time.Now()
	booking.SettledAt = &now
	if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Update("settled_at", now).Error; err != nil {
		return nil, err
	}

	return &SettlementResult{WorkerPayout: payout, PlatformCommission: commission}, nil
}
