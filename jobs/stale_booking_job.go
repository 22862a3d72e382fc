package jobs

import (
	"log"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/models"
)

const staleBookingTTL = 30 * time.Minute

// ExpireStalePendingBookings cancels pending bookings whose payment never
// arrived. Cancellation is done through a guarded UPDATE so a capture that
// lands concurrently wins the race.
func ExpireStalePendingBookings() {
	log.Println("Running job: ExpireStalePendingBookings...")

	cutoff := time.Now().Add(-staleBookingTTL)
	reason := "payment not completed in time"

	result := database.DB.Model(&models.Booking{}).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			models.BookingStatusPending, models.PaymentStatusUnpaid, cutoff).
		Updates(map[string]interface{}{
			"status":        models.BookingStatusCancelled,
			"cancel_reason": reason,
		})
	if result.Error != nil {
		log.Printf("Error expiring stale bookings: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Cancelled %d stale pending booking(s).", result.RowsAffected)
	}
}
