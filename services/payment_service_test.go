package services

import (
	"testing"

	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/dheerajgaurgithub/swachhcare/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingPaymentOrder(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")
	booking := createTestBooking(t, db, customer.ID, models.BookingStatusPending, 52000)

	gw := &fakeGateway{}
	payment, order, err := CreateBookingPaymentOrder(db, gw, booking.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(52000), order.AmountPaise)
	assert.Equal(t, booking.Reference, order.Receipt)
	assert.Equal(t, models.PaymentCreated, payment.Status)
	assert.Equal(t, "razorpay", payment.Method)
	require.NotNil(t, payment.GatewayOrderID)
	assert.Equal(t, order.ID, *payment.GatewayOrderID)
}

func TestCreateBookingPaymentOrderGuards(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")
	stranger := createTestUser(t, db, "customer")
	gw := &fakeGateway{}

	booking := createTestBooking(t, db, customer.ID, models.BookingStatusPending, 52000)
	_, _, err := CreateBookingPaymentOrder(db, gw, booking.ID, stranger.ID)
	assert.Error(t, err, "another customer cannot pay for this booking")

	confirmed := createTestBooking(t, db, customer.ID, models.BookingStatusConfirmed, 52000)
	_, _, err = CreateBookingPaymentOrder(db, gw, confirmed.ID, customer.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCapturePaymentConfirmsBooking(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")
	booking := createTestBooking(t, db, customer.ID, models.BookingStatusPending, 52000)
	gw := &fakeGateway{}

	payment, order, err := CreateBookingPaymentOrder(db, gw, booking.ID, customer.ID)
	require.NoError(t, err)

	captured, err := CapturePayment(db, gw, order.ID, "pay_abc123", "valid")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCaptured, captured.Status)
	assert.Equal(t, payment.ID, captured.ID)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, reloaded.Status)
	assert.Equal(t, models.PaymentStatusPaid, reloaded.PaymentStatus)

	// Re-delivered capture is a no-op.
	again, err := CapturePayment(db, gw, order.ID, "pay_abc123", "valid")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCaptured, again.Status)
}

func TestCapturePaymentBadSignatureMutatesNothing(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")
	booking := createTestBooking(t, db, customer.ID, models.BookingStatusPending, 52000)
	gw := &fakeGateway{}

	_, order, err := CreateBookingPaymentOrder(db, gw, booking.ID, customer.ID)
	require.NoError(t, err)

	_, err = CapturePayment(db, gw, order.ID, "pay_abc123", "forged")
	assert.ErrorIs(t, err, payments.ErrSignatureInvalid)

	var reloadedBooking models.Booking
	require.NoError(t, db.First(&reloadedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingStatusPending, reloadedBooking.Status)

	var reloadedPayment models.Payment
	require.NoError(t, db.First(&reloadedPayment, "gateway_order_id = ?", order.ID).Error)
	assert.Equal(t, models.PaymentCreated, reloadedPayment.Status)
}

func TestCapturePaymentUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	gw := &fakeGateway{}

	_, err := CapturePayment(db, gw, "order_unknown", "pay_x", "valid")
	assert.Error(t, err)
}

func TestCaptureAfterCancellationRefunds(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer")
	booking := createTestBooking(t, db, customer.ID, models.BookingStatusPending, 52000)
	gw := &fakeGateway{}

	_, order, err := CreateBookingPaymentOrder(db, gw, booking.ID, customer.ID)
	require.NoError(t, err)

	// Customer cancels while the capture callback is in flight.
	_, err = CancelBooking(db, gw, booking.ID, "changed my mind")
	require.NoError(t, err)

	_, err = CapturePayment(db, gw, order.ID, "pay_late", "valid")
	require.NoError(t, err)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, reloaded.Status, "cancellation wins over the late capture")
	assert.Equal(t, models.PaymentStatusRefunded, reloaded.PaymentStatus)
	assert.Equal(t, 1, gw.refundCalls)
}

func TestWalletTopUpCapture(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "customer")
	gw := &fakeGateway{}

	payment, order, err := CreateWalletTopUpOrder(db, gw, user.ID, money.INR(100000))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPurposeWalletTopUp, payment.Purpose)

	_, err = FinalizeCapturedPayment(db, gw, order.ID, "pay_topup1")
	require.NoError(t, err)

	wallet, history, err := WalletHistory(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), wallet.Balance.Paise)
	require.Len(t, history, 1)
	assert.Equal(t, models.WalletTxnTypeCredit, history[0].Type)

	// Webhook redelivery does not double-credit.
	_, err = FinalizeCapturedPayment(db, gw, order.ID, "pay_topup1")
	require.NoError(t, err)

	wallet, history, err = WalletHistory(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), wallet.Balance.Paise)
	assert.Len(t, history, 1)
}

func TestWalletTopUpRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "customer")
	gw := &fakeGateway{}

	_, _, err := CreateWalletTopUpOrder(db, gw, user.ID, money.INR(0))
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}
