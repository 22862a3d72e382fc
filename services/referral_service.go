package services

import (
	"errors"
	"log"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ReferralRewardPaise = 5000 // ₹50

// CompleteReferralIfApplicable credits the referrer's wallet once the
// referred customer finishes their first booking. Safe to call on every
// completion: only a pending referral row triggers the reward.
func CompleteReferralIfApplicable(db *gorm.DB, customerID uuid.UUID) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var referral models.Referral
		if err := tx.Where("referred_user_id = ? AND status = ?", customerID, "pending").First(&referral).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		reward := money.INR(ReferralRewardPaise)
		if _, err := CreditWallet(tx, referral.ReferrerID, reward, "referral:"+customerID.String()); err != nil {
			return err
		}

		referral.Status = "completed"
		referral.RewardAmount = reward
		return tx.Save(&referral).Error
	})
	if err != nil {
		log.Printf("🔥 Error processing referral for customer %s: %v", customerID, err)
	}
}
