package utils

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"gorm.io/gorm"
)

const referralCodeLength = 8
const bookingRefLength = 10
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

func randomCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}
	return string(b)
}

func GenerateUniqueReferralCode(tx *gorm.DB) (string, error) {
	for {
		code := randomCode(referralCodeLength)

		var user models.User
		err := tx.Where("referral_code = ?", code).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return code, nil
			}
			return "", err
		}
	}
}

// GenerateBookingReference produces a human-quotable booking reference like
// SW-7G2KQ9XA4B, unique across bookings.
func GenerateBookingReference(tx *gorm.DB) (string, error) {
	for {
		ref := "SW-" + randomCode(bookingRefLength)

		var booking models.Booking
		err := tx.Where("reference = ?", ref).First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ref, nil
			}
			return "", err
		}
	}
}
