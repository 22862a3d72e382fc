package handlers

import (
	"errors"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/dheerajgaurgithub/swachhcare/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkerApplicationRequest struct {
	Headline string   `json:"headline" validate:"required"`
	Bio      string   `json:"bio" validate:"required"`
	SkillIDs []string `json:"skill_ids" validate:"required,min=1,dive,uuid"`
}

func ApplyAsWorker(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req WorkerApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existingWorker models.Worker
	err := database.DB.Where("user_id = ?", userID).First(&existingWorker).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already submitted an application."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var skills []*models.Service
	if err := database.DB.Where("id IN ?", req.SkillIDs).Find(&skills).Error; err != nil || len(skills) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No valid services selected as skills"})
	}

	newApplication := models.Worker{
		UserID:            userID,
		Headline:          &req.Headline,
		Bio:               &req.Bio,
		Skills:            skills,
		TotalEarnings:     money.Zero("INR"),
		AvailableBalance:  money.Zero("INR"),
		PendingWithdrawal: money.Zero("INR"),
	}

	if err := database.DB.Create(&newApplication).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create application"})
	}

	return c.Status(fiber.StatusCreated).JSON(newApplication)
}

type CreateAvailabilityRequest struct {
	StartTime string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func CreateAvailabilitySlot(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var req CreateAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)

	if !startTime.Before(endTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Start time must be before end time"})
	}

	newSlot := models.AvailabilitySlot{
		WorkerID:  workerID,
		StartTime: startTime,
		EndTime:   endTime,
	}
	if err := database.DB.Create(&newSlot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create availability slot"})
	}

	return c.Status(fiber.StatusCreated).JSON(newSlot)
}

func GetMyAvailability(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var slots []models.AvailabilitySlot
	database.DB.Where("worker_id = ?", workerID).Order("start_time asc").Find(&slots)

	return c.JSON(slots)
}

func DeleteAvailabilitySlot(c *fiber.Ctx) error {
	workerID := currentUserID(c)
	slotID := c.Params("slotId")

	var slot models.AvailabilitySlot
	if err := database.DB.First(&slot, "id = ? AND worker_id = ?", slotID, workerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability slot not found or you do not have permission to delete it."})
	}

	database.DB.Delete(&slot)

	return c.SendStatus(fiber.StatusNoContent)
}

func GetMyJobs(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	query := database.DB.
		Preload("Service").
		Preload("AddOns").
		Preload("Customer").
		Where("worker_id = ?", workerID).
		Order("scheduled_at asc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var jobs []models.Booking
	query.Find(&jobs)

	return c.JSON(jobs)
}

// CheckIn marks the worker's arrival and moves the job to in_progress.
func CheckIn(c *fiber.Ctx) error {
	workerID := currentUserID(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, err := services.StartJob(database.DB, bookingID, workerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"booking": booking,
		"message": "Checked in. Job is now in progress.",
	})
}

type CompleteJobRequest struct {
	BeforePhotoURL string `json:"before_photo_url" validate:"required,url"`
	AfterPhotoURL  string `json:"after_photo_url" validate:"required,url"`
}

// CompleteJob finishes the job, settles earnings and kicks off invoice
// generation in the background.
func CompleteJob(c *fiber.Ctx) error {
	workerID := currentUserID(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req CompleteJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, settlement, err := services.CompleteJob(database.DB, bookingID, workerID, req.BeforePhotoURL, req.AfterPhotoURL)
	if err != nil {
		return serviceError(c, err)
	}

	go services.GenerateInvoiceForBooking(database.DB, booking.ID)

	return c.JSON(fiber.Map{
		"booking":             booking,
		"payout":              settlement.WorkerPayout,
		"platform_commission": settlement.PlatformCommission,
		"message":             "Job completed and earnings credited.",
	})
}

func GetMyEarnings(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var worker models.Worker
	if err := database.DB.First(&worker, "user_id = ?", workerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker profile not found"})
	}

	var completedJobs int64
	database.DB.Model(&models.Booking{}).Where("worker_id = ? AND status = ?", workerID, models.BookingStatusCompleted).Count(&completedJobs)

	var payouts []models.Transaction
	database.DB.Where("worker_id = ? AND type = ?", workerID, models.TxnTypePayout).Order("created_at desc").Limit(20).Find(&payouts)

	return c.JSON(fiber.Map{
		"total_earnings":     worker.TotalEarnings,
		"available_balance":  worker.AvailableBalance,
		"pending_withdrawal": worker.PendingWithdrawal,
		"completed_jobs":     completedJobs,
		"recent_payouts":     payouts,
	})
}

type WithdrawalRequestBody struct {
	AmountPaise int64 `json:"amount_paise" validate:"required,min=10000"`
}

// RequestWithdrawal moves the amount from available balance to pending
// withdrawal under a row lock, so concurrent requests cannot overdraw.
func RequestWithdrawal(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var req WithdrawalRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	amount := money.INR(req.AmountPaise)

	var request models.WithdrawalRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var worker models.Worker
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&worker, "user_id = ?", workerID).Error; err != nil {
			return errors.New("worker profile not found")
		}

		cmp, err := worker.AvailableBalance.Cmp(amount)
		if err != nil {
			return err
		}
		if cmp < 0 {
			return errors.New("withdrawal amount exceeds your available balance")
		}

		newAvailable, err := worker.AvailableBalance.Sub(amount)
		if err != nil {
			return err
		}
		newPending, err := worker.PendingWithdrawal.Add(amount)
		if err != nil {
			return err
		}
		worker.AvailableBalance = newAvailable
		worker.PendingWithdrawal = newPending
		if err := tx.Save(&worker).Error; err != nil {
			return err
		}

		request = models.WithdrawalRequest{
			WorkerID:    workerID,
			Amount:      amount,
			Status:      "pending",
			RequestedAt: time.Now(),
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

func GetMyWithdrawals(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var requests []models.WithdrawalRequest
	database.DB.Where("worker_id = ?", workerID).Order("requested_at desc").Find(&requests)

	return c.JSON(requests)
}

func GetMyWorkerProfile(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var worker models.Worker
	if err := database.DB.Preload("User").Preload("Skills").First(&worker, "user_id = ?", workerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker profile not found"})
	}
	return c.JSON(worker)
}

func GetMyWorkerReviews(c *fiber.Ctx) error {
	workerID := currentUserID(c)

	var reviews []models.Review
	database.DB.Preload("Customer").Where("worker_id = ?", workerID).Order("created_at desc").Find(&reviews)

	return c.JSON(reviews)
}
