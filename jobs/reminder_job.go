package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/notifications"
)

// SendBookingReminders emails both sides of every booking starting in about
// an hour. The window matches the cron cadence so no booking is reminded
// twice.
func SendBookingReminders() {
	log.Println("Running job: SendBookingReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.Booking
	err := database.DB.
		Preload("Customer").
		Preload("Worker").
		Preload("Service").
		Where("status IN ? AND scheduled_at BETWEEN ? AND ?",
			[]string{models.BookingStatusConfirmed, models.BookingStatusAssigned}, lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming bookings: %v", err)
		return
	}

	if len(upcomingBookings) == 0 {
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking %s", booking.Reference)

		startsAt := booking.ScheduledAt.Format(time.Kitchen)
		customerBody := fmt.Sprintf(
			"<h1>Service Reminder</h1><p>Hi there,</p><p>Your %s is scheduled to start in one hour at %s.</p><p>Address: %s, %s</p>",
			booking.Service.Name, startsAt, booking.AddressLine, booking.City,
		)
		go notifications.SendEmail(booking.Customer.FullName, booking.Customer.Email, "Reminder: Your Service Starts in 1 Hour!", customerBody)

		if booking.Worker != nil {
			workerBody := fmt.Sprintf(
				"<h1>Job Reminder</h1><p>Your %s job (%s) starts in one hour at %s.</p><p>Address: %s, %s, %s</p>",
				booking.Service.Name, booking.Reference, startsAt, booking.AddressLine, booking.City, booking.Pincode,
			)
			go notifications.SendEmail(booking.Worker.FullName, booking.Worker.Email, "Reminder: Your Job Starts in 1 Hour!", workerBody)
		}
	}
}
