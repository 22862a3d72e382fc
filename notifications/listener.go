package notifications

import (
	"fmt"
	"log"

	"github.com/dheerajgaurgithub/swachhcare/events"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewEventListener returns the listener that turns domain events into
// transactional emails and in-app notification rows. The domain core only
// publishes events; all delivery concerns live here.
func NewEventListener(db *gorm.DB) events.Listener {
	return func(e events.Event) {
		switch e.Type {
		case events.BookingConfirmed:
			notifyUser(db, e.CustomerID, models.NotificationBookingConfirmed, e,
				"Your Booking is Confirmed!",
				fmt.Sprintf("<h1>Booking Confirmed</h1><p>Your payment was received and booking %s is confirmed. We will assign a service partner shortly.</p>", e.Reference))
		case events.BookingAssigned:
			notifyUser(db, e.CustomerID, models.NotificationBookingAssigned, e,
				"A Service Partner Has Been Assigned",
				fmt.Sprintf("<h1>Partner Assigned</h1><p>A verified service partner has been assigned to booking %s.</p>", e.Reference))
			if e.WorkerID != nil {
				notifyUser(db, *e.WorkerID, models.NotificationBookingAssigned, e,
					"You Have a New Job!",
					fmt.Sprintf("<h1>New Job</h1><p>You have been assigned booking %s. Check your dashboard for the schedule and address.</p>", e.Reference))
			}
		case events.BookingStarted:
			notifyUser(db, e.CustomerID, models.NotificationBookingStarted, e,
				"Your Service Has Started",
				fmt.Sprintf("<h1>Service In Progress</h1><p>Our partner has checked in for booking %s.</p>", e.Reference))
		case events.BookingCompleted:
			notifyUser(db, e.CustomerID, models.NotificationBookingCompleted, e,
				"Your Service is Complete",
				fmt.Sprintf("<h1>Service Complete</h1><p>Booking %s has been completed. Your invoice will be available shortly — we would love a review!</p>", e.Reference))
		case events.BookingCancelled:
			notifyUser(db, e.CustomerID, models.NotificationBookingCancelled, e,
				"Your Booking Was Cancelled",
				fmt.Sprintf("<h1>Booking Cancelled</h1><p>Booking %s has been cancelled. Any captured payment is being refunded.</p>", e.Reference))
		case events.PayoutCredited:
			if e.WorkerID != nil {
				notifyUser(db, *e.WorkerID, models.NotificationPayoutCredited, e,
					"Earnings Credited",
					fmt.Sprintf("<h1>Payout Credited</h1><p>Your earnings of ₹%d.%02d for booking %s have been credited to your balance.</p>", e.AmountPaise/100, e.AmountPaise%100, e.Reference))
			}
		}
	}
}

func notifyUser(db *gorm.DB, userID uuid.UUID, notificationType string, e events.Event, subject, html string) {
	bookingID := e.BookingID
	notification := models.Notification{
		UserID:    userID,
		Type:      notificationType,
		BookingID: &bookingID,
		Message:   subject,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("🔥 Failed to store notification for user %s: %v", userID, err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("🔥 Notification listener: user %s not found: %v", userID, err)
		return
	}
	SendEmail(user.FullName, user.Email, subject, html)
}
