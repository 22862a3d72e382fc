package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/dheerajgaurgithub/swachhcare/notifications"
	"github.com/dheerajgaurgithub/swachhcare/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetPendingWorkers(c *fiber.Ctx) error {
	var pendingWorkers []models.Worker
	database.DB.Preload("User").Preload("Skills").Where("status = ?", "pending").Find(&pendingWorkers)

	return c.JSON(pendingWorkers)
}

type ManageApplicationRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// ManageWorkerApplication approves or rejects a pending worker. Approval
// flips the user's role so their next token carries worker access.
func ManageWorkerApplication(c *fiber.Ctx) error {
	workerID := c.Params("workerId")

	var req ManageApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var worker models.Worker
	if err := database.DB.Preload("User").First(&worker, "user_id = ?", workerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker application not found"})
	}
	if worker.Status != "pending" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This application has already been processed"})
	}

	if req.Decision == "approve" {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			worker.Status = "active"
			if err := tx.Save(&worker).Error; err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("id = ?", worker.UserID).Update("role", "worker").Error
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to approve application"})
		}

		go notifications.SendEmail(worker.User.FullName, worker.User.Email, "Your Application Was Approved!", "<h1>Welcome Aboard</h1><p>Your application to become a SwachhCare service partner has been approved. Log in to set your availability and start accepting jobs.</p>")
	} else {
		worker.Status = "rejected"
		database.DB.Save(&worker)

		go notifications.SendEmail(worker.User.FullName, worker.User.Email, "Your Application Status", "<h1>Application Update</h1><p>Unfortunately, we are unable to approve your service partner application at this time.</p>")
	}

	return c.JSON(fiber.Map{"message": "Application processed successfully"})
}

type AssignWorkerRequest struct {
	WorkerID string `json:"worker_id" validate:"required,uuid"`
}

func AssignWorkerToBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req AssignWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	workerID, _ := uuid.Parse(req.WorkerID)

	booking, err := services.AssignWorker(database.DB, bookingID, workerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"booking": booking,
		"message": "Worker assigned to booking.",
	})
}

func CancelBookingAsAdmin(c *fiber.Ctx) error {
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

	booking, err := services.CancelBooking(database.DB, PaymentGateway, bookingID, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"booking": booking,
		"message": "Booking cancelled.",
	})
}

func GetAllBookings(c *fiber.Ctx) error {
	query := database.DB.
		Preload("Customer").
		Preload("Worker").
		Preload("Service").
		Order("created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := 50

	var bookings []models.Booking
	query.Offset((page - 1) * limit).Limit(limit).Find(&bookings)

	return c.JSON(bookings)
}

func GetAllPayments(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Order("created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var allPayments []models.Payment
	query.Limit(200).Find(&allPayments)

	return c.JSON(allPayments)
}

func GetDashboardStats(c *fiber.Ctx) error {
	var totalUsers, totalWorkers, totalBookings, completedBookings int64
	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.Worker{}).Where("status = ?", "active").Count(&totalWorkers)
	database.DB.Model(&models.Booking{}).Count(&totalBookings)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCompleted).Count(&completedBookings)

	var revenue struct {
		Total int64
	}
	database.DB.Model(&models.Transaction{}).
		Where("type = ?", models.TxnTypeCommission).
		Select("COALESCE(SUM(amount_paise), 0) as total").
		Scan(&revenue)

	type MonthlyRevenue struct {
		Month        string `json:"month"`
		RevenuePaise int64  `json:"revenue_paise"`
	}
	var monthly []MonthlyRevenue
	database.DB.Model(&models.Transaction{}).
		Select("TO_CHAR(created_at, 'YYYY-MM') as month, SUM(amount_paise) as revenue_paise").
		Where("type = ?", models.TxnTypeCommission).
		Group("month").
		Order("month asc").
		Scan(&monthly)

	return c.JSON(fiber.Map{
		"total_users":            totalUsers,
		"active_workers":         totalWorkers,
		"total_bookings":         totalBookings,
		"completed_bookings":     completedBookings,
		"platform_revenue_paise": revenue.Total,
		"monthly_revenue":        monthly,
	})
}

// GetSettlementReport streams a CSV of settlement rows for reconciliation.
func GetSettlementReport(c *fiber.Ctx) error {
	query := database.DB.Preload("Booking").Order("created_at asc")

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var transactions []models.Transaction
	query.Find(&transactions)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"transaction_id", "booking_reference", "type", "worker_id", "amount_paise", "currency", "created_at"})
	for _, t := range transactions {
		workerID := ""
		if t.WorkerID != nil {
			workerID = t.WorkerID.String()
		}
		w.Write([]string{
			t.ID.String(),
			t.Booking.Reference,
			t.Type,
			workerID,
			strconv.FormatInt(t.Amount.Paise, 10),
			t.Amount.Currency,
			t.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=settlement_report.csv")
	return c.Send(buf.Bytes())
}

type CouponRequest struct {
	Code          string `json:"code" validate:"required,min=3,max=20"`
	DiscountType  string `json:"discount_type" validate:"required,oneof=flat percentage"`
	DiscountValue int64  `json:"discount_value" validate:"required,min=1"`
	MinOrderPaise int64  `json:"min_order_paise" validate:"min=0"`
	MaxUses       *int64 `json:"max_uses,omitempty" validate:"omitempty,min=1"`
	ValidFrom     string `json:"valid_from" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ValidTo       string `json:"valid_to" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func CreateCoupon(c *fiber.Ctx) error {
	var req CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.DiscountType == models.DiscountTypePercentage && req.DiscountValue > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Percentage discount cannot exceed 100"})
	}

	validFrom, _ := time.Parse(time.RFC3339, req.ValidFrom)
	validTo, _ := time.Parse(time.RFC3339, req.ValidTo)
	if !validFrom.Before(validTo) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid_from must be before valid_to"})
	}

	coupon := models.Coupon{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderPaise: req.MinOrderPaise,
		MaxUses:       req.MaxUses,
		ValidFrom:     validFrom,
		ValidTo:       validTo,
		Active:        true,
	}
	if err := database.DB.Create(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A coupon with this code already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create coupon"})
	}

	return c.Status(fiber.StatusCreated).JSON(coupon)
}

func ListCoupons(c *fiber.Ctx) error {
	var coupons []models.Coupon
	database.DB.Order("created_at desc").Find(&coupons)

	return c.JSON(coupons)
}

func DeactivateCoupon(c *fiber.Ctx) error {
	couponID := c.Params("couponId")

	result := database.DB.Model(&models.Coupon{}).Where("id = ?", couponID).Update("active", false)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate coupon"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coupon not found"})
	}

	return c.JSON(fiber.Map{"message": "Coupon deactivated"})
}

type ServiceRequest struct {
	Name            string  `json:"name" validate:"required"`
	Category        string  `json:"category" validate:"required,oneof=cleaning laundry car_wash"`
	Description     *string `json:"description,omitempty"`
	BasePricePaise  int64   `json:"base_price_paise" validate:"required,min=1"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=15"`
}

func CreateService(c *fiber.Ctx) error {
	var req ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	service := models.Service{
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		BasePrice:       money.INR(req.BasePricePaise),
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}
	if err := database.DB.Create(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create service"})
	}

	return c.Status(fiber.StatusCreated).JSON(service)
}

func UpdateService(c *fiber.Ctx) error {
	serviceID := c.Params("serviceId")

	var req ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var service models.Service
	if err := database.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	service.Name = req.Name
	service.Category = req.Category
	service.Description = req.Description
	service.BasePrice = money.INR(req.BasePricePaise)
	service.DurationMinutes = req.DurationMinutes
	if err := database.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update service"})
	}

	return c.JSON(service)
}

func ToggleServiceActive(c *fiber.Ctx) error {
	serviceID := c.Params("serviceId")

	var service models.Service
	if err := database.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	service.Active = !service.Active
	database.DB.Save(&service)

	return c.JSON(service)
}

type AddOnRequest struct {
	Name       string `json:"name" validate:"required"`
	PricePaise int64  `json:"price_paise" validate:"required,min=1"`
}

func AddServiceAddOn(c *fiber.Ctx) error {
	serviceID, err := uuid.Parse(c.Params("serviceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid service id"})
	}

	var req AddOnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var service models.Service
	if err := database.DB.First(&service, "id = ?", serviceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}

	addOn := models.ServiceAddOn{
		ServiceID: serviceID,
		Name:      req.Name,
		Price:     money.INR(req.PricePaise),
		Active:    true,
	}
	if err := database.DB.Create(&addOn).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create add-on"})
	}

	return c.Status(fiber.StatusCreated).JSON(addOn)
}

type ProcessWithdrawalRequest struct {
	Decision   string  `json:"decision" validate:"required,oneof=approve reject"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

// ProcessWithdrawal settles a pending withdrawal request. Approval clears the
// pending amount (paid out off-platform); rejection returns it to the
// worker's available balance.
func ProcessWithdrawal(c *fiber.Ctx) error {
	requestID := c.Params("requestId")

	var req ProcessWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.WithdrawalRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, "id = ?", requestID).Error; err != nil {
			return errors.New("withdrawal request not found")
		}
		if request.Status != "pending" {
			return errors.New("this withdrawal request has already been processed")
		}

		var worker models.Worker
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&worker, "user_id = ?", request.WorkerID).Error; err != nil {
			return err
		}

		newPending, err := worker.PendingWithdrawal.Sub(request.Amount)
		if err != nil {
			return err
		}
		worker.PendingWithdrawal = newPending

		if req.Decision == "approve" {
			request.Status = "approved"
		} else {
			request.Status = "rejected"
			returned, err := worker.AvailableBalance.Add(request.Amount)
			if err != nil {
				return err
			}
			worker.AvailableBalance = returned
		}

		now := time.Now()
		request.ProcessedAt = &now
		request.AdminNotes = req.AdminNotes

		if err := tx.Save(&worker).Error; err != nil {
			return err
		}
		return tx.Save(&request).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	go notifyWithdrawalProcessed(&request)

	return c.JSON(request)
}

func notifyWithdrawalProcessed(request *models.WithdrawalRequest) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", request.WorkerID).Error; err != nil {
		return
	}

	subject := "Your Withdrawal Request Was Approved"
	body := fmt.Sprintf("<h1>Withdrawal Approved</h1><p>Your withdrawal of ₹%d.%02d has been approved and will be transferred to your bank account.</p>", request.Amount.Paise/100, request.Amount.Paise%100)
	if request.Status == "rejected" {
		subject = "Your Withdrawal Request Was Rejected"
		body = "<h1>Withdrawal Rejected</h1><p>Your withdrawal request was rejected and the amount has been returned to your available balance.</p>"
	}

	notification := models.Notification{
		UserID:  request.WorkerID,
		Type:    models.NotificationWithdrawalUpdate,
		Message: subject,
	}
	database.DB.Create(&notification)

	notifications.SendEmail(user.FullName, user.Email, subject, body)
}

func ListPendingWithdrawals(c *fiber.Ctx) error {
	var requests []models.WithdrawalRequest
	database.DB.Preload("Worker").Where("status = ?", "pending").Order("requested_at asc").Find(&requests)

	return c.JSON(requests)
}

func ListUsers(c *fiber.Ctx) error {
	query := database.DB.Order("created_at desc")

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if email := c.Query("email"); email != "" {
		query = query.Where("email ILIKE ?", "%"+email+"%")
	}

	var users []models.User
	query.Limit(200).Find(&users)

	return c.JSON(users)
}

func ToggleUserActive(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin accounts cannot be deactivated"})
	}

	user.IsActive = !user.IsActive
	database.DB.Save(&user)

	return c.JSON(user)
}
