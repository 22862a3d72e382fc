package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/dheerajgaurgithub/swachhcare/payments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test. The shared-cache DSN
// is keyed by test name so parallel tests never see each other's schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Worker{},
		&models.AvailabilitySlot{},
		&models.Service{},
		&models.ServiceAddOn{},
		&models.Booking{},
		&models.BookingAddOn{},
		&models.Coupon{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Payment{},
		&models.Transaction{},
		&models.WithdrawalRequest{},
		&models.Review{},
		&models.Referral{},
		&models.Notification{},
	)
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := models.User{
		FullName: "Test " + role,
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.New().String()[:8]),
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestWorker(t *testing.T, db *gorm.DB, status string) *models.Worker {
	t.Helper()

	user := createTestUser(t, db, "worker")
	worker := models.Worker{
		UserID:            user.ID,
		Status:            status,
		TotalEarnings:     money.Zero("INR"),
		AvailableBalance:  money.Zero("INR"),
		PendingWithdrawal: money.Zero("INR"),
	}
	require.NoError(t, db.Create(&worker).Error)
	return &worker
}

func createTestService(t *testing.T, db *gorm.DB, basePricePaise int64) *models.Service {
	t.Helper()

	service := models.Service{
		Name:            "Deep Cleaning " + uuid.New().String()[:8],
		Category:        "cleaning",
		BasePrice:       money.INR(basePricePaise),
		DurationMinutes: 120,
		Active:          true,
	}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

// createTestBooking persists a booking in the given status with a consistent
// money breakdown.
func createTestBooking(t *testing.T, db *gorm.DB, customerID uuid.UUID, status string, totalPaise int64) *models.Booking {
	t.Helper()

	service := createTestService(t, db, totalPaise)
	booking := models.Booking{
		Reference:       "SW-" + uuid.New().String()[:10],
		CustomerID:      customerID,
		ServiceID:       service.ID,
		ScheduledAt:     time.Now().Add(24 * time.Hour),
		DurationMinutes: service.DurationMinutes,
		AddressLine:     "42 MG Road",
		City:            "Bengaluru",
		Pincode:         "560001",
		BasePrice:       money.INR(totalPaise),
		Discount:        money.Zero("INR"),
		TotalAmount:     money.INR(totalPaise),
		Status:          status,
		PaymentStatus:   models.PaymentStatusUnpaid,
	}
	require.NoError(t, db.Create(&booking).Error)
	return &booking
}

func markPaid(t *testing.T, db *gorm.DB, booking *models.Booking, method string) *models.Payment {
	t.Helper()

	gatewayOrderID := "order_" + uuid.New().String()[:12]
	gatewayPaymentID := "pay_" + uuid.New().String()[:12]
	payment := models.Payment{
		BookingID: &booking.ID,
		UserID:    booking.CustomerID,
		Purpose:   models.PaymentPurposeBooking,
		Amount:    booking.TotalAmount,
		Method:    method,
		Status:    models.PaymentCaptured,
	}
	if method != "wallet" {
		payment.GatewayOrderID = &gatewayOrderID
		payment.GatewayPaymentID = &gatewayPaymentID
	}
	require.NoError(t, db.Create(&payment).Error)

	booking.PaymentStatus = models.PaymentStatusPaid
	require.NoError(t, db.Save(booking).Error)
	return &payment
}

// fakeGateway records calls and can be told to fail refunds.
type fakeGateway struct {
	orders      int
	refundCalls int
	failRefund  bool
}

func (f *fakeGateway) CreateOrder(amountPaise int64, currency, receipt string) (*payments.Order, error) {
	f.orders++
	return &payments.Order{
		ID:          fmt.Sprintf("order_fake_%d", f.orders),
		AmountPaise: amountPaise,
		Currency:    currency,
		Receipt:     receipt,
		Status:      "created",
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "valid"
}

func (f *fakeGateway) Refund(paymentID string, amountPaise int64) (*payments.Refund, error) {
	f.refundCalls++
	if f.failRefund {
		return nil, payments.ErrGatewayUnavailable
	}
	return &payments.Refund{
		ID:          fmt.Sprintf("rfnd_fake_%d", f.refundCalls),
		AmountPaise: amountPaise,
		Status:      "processed",
	}, nil
}
