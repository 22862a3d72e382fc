package handlers

import (
	"errors"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBookingRequest struct {
	ServiceID   string   `json:"service_id" validate:"required,uuid"`
	AddOnIDs    []string `json:"add_on_ids,omitempty" validate:"omitempty,dive,uuid"`
	CouponCode  *string  `json:"coupon_code,omitempty"`
	ScheduledAt string   `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	AddressLine string   `json:"address_line" validate:"required"`
	City        string   `json:"city" validate:"required"`
	Pincode     string   `json:"pincode" validate:"required,len=6"`
	UseWallet   bool     `json:"use_wallet,omitempty"`
}

func CreateBooking(c *fiber.Ctx) error {
	customerID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	serviceID, _ := uuid.Parse(req.ServiceID)
	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)
	if scheduledAt.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Scheduled time cannot be in the past"})
	}

	addOnIDs := make([]uuid.UUID, 0, len(req.AddOnIDs))
	for _, raw := range req.AddOnIDs {
		id, _ := uuid.Parse(raw)
		addOnIDs = append(addOnIDs, id)
	}

	booking, err := services.CreateBooking(database.DB, services.CreateBookingInput{
		CustomerID:  customerID,
		ServiceID:   serviceID,
		AddOnIDs:    addOnIDs,
		CouponCode:  req.CouponCode,
		ScheduledAt: scheduledAt,
		AddressLine: req.AddressLine,
		City:        req.City,
		Pincode:     req.Pincode,
	})
	if err != nil {
		return serviceError(c, err)
	}

	if req.UseWallet {
		confirmed, err := services.ConfirmBookingWithWallet(database.DB, booking.ID)
		if err != nil {
			// The booking survives as pending so the customer can pay by
			// gateway instead.
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"booking":      booking,
				"wallet_error": err.Error(),
				"message":      "Booking created but wallet payment failed. Pay via the payment order endpoint.",
			})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"booking": confirmed,
			"message": "Booking confirmed and paid from your wallet balance.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking": booking,
		"message": "Booking created. Complete payment to confirm.",
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	customerID := currentUserID(c)

	query := database.DB.
		Preload("Service").
		Preload("AddOns").
		Preload("Worker").
		Where("customer_id = ?", customerID).
		Order("scheduled_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	query.Find(&bookings)

	return c.JSON(bookings)
}

func GetMyBooking(c *fiber.Ctx) error {
	customerID := currentUserID(c)
	bookingID := c.Params("bookingId")

	var booking models.Booking
	if err := database.DB.
		Preload("Service").
		Preload("AddOns").
		Preload("Worker").
		First(&booking, "id = ? AND customer_id = ?", bookingID, customerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	return c.JSON(booking)
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func CancelMyBooking(c *fiber.Ctx) error {
	customerID := currentUserID(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.CustomerID != customerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}

	cancelled, err := services.CancelBooking(database.DB, PaymentGateway, bookingID, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"booking": cancelled,
		"message": "Booking cancelled. Any captured payment has been refunded.",
	})
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func CreateReview(c *fiber.Ctx) error {
	customerID := currentUserID(c)
	bookingID := c.Params("bookingId")

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var newReview models.Review
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			return errors.New("booking not found")
		}
		if booking.CustomerID != customerID {
			return errors.New("you are not the customer for this booking")
		}
		if booking.Status != models.BookingStatusCompleted {
			return errors.New("reviews can only be submitted for completed bookings")
		}
		if booking.WorkerID == nil {
			return errors.New("booking has no assigned worker")
		}

		var existingReview models.Review
		if err := tx.Where("booking_id = ?", bookingID).First(&existingReview).Error; err == nil {
			return errors.New("a review for this booking has already been submitted")
		}

		newReview = models.Review{
			BookingID:  booking.ID,
			CustomerID: customerID,
			WorkerID:   *booking.WorkerID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		if err := tx.Create(&newReview).Error; err != nil {
			return err
		}

		var result struct {
			Avg float64
		}
		tx.Model(&models.Review{}).Where("worker_id = ?", booking.WorkerID).Select("avg(rating) as avg").Scan(&result)

		return tx.Model(&models.Worker{}).Where("user_id = ?", booking.WorkerID).Update("avg_rating", result.Avg).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(newReview)
}
