package services

import (
	"errors"
	"fmt"

	"github.com/dheerajgaurgithub/swachhcare/events"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/dheerajgaurgithub/swachhcare/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateBookingPaymentOrder opens a gateway order for a pending unpaid
// booking and records the collection attempt. Retries produce additional
// Payment rows; only one ever reaches captured.
func CreateBookingPaymentOrder(db *gorm.DB, gw payments.Gateway, bookingID, customerID uuid.UUID) (*models.Payment, *payments.Order, error) {
	var booking models.Booking
	if err := db.First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, nil, err
	}
	if booking.CustomerID != customerID {
		return nil, nil, fmt.Errorf("booking %s does not belong to this customer", bookingID)
	}
	if booking.Status != models.BookingStatusPending || booking.PaymentStatus != models.PaymentStatusUnpaid {
		return nil, nil, ErrInvalidTransition
	}

	order, err := gw.CreateOrder(booking.TotalAmount.Paise, booking.TotalAmount.Currency, booking.Reference)
	if err != nil {
		return nil, nil, err
	}

	payment := models.Payment{
		BookingID:      &booking.ID,
		UserID:         customerID,
		Purpose:        models.PaymentPurposeBooking,
		Amount:         booking.TotalAmount,
		Method:         "razorpay",
		Status:         models.PaymentCreated,
		GatewayOrderID: &order.ID,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, nil, err
	}
	return &payment, order, nil
}

// CreateWalletTopUpOrder opens a gateway order that, once captured, credits
// the user's wallet.
func CreateWalletTopUpOrder(db *gorm.DB, gw payments.Gateway, userID uuid.UUID, amount money.Money) (*models.Payment, *payments.Order, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, nil, money.ErrInvalidAmount
	}

	receipt := fmt.Sprintf("topup-%s", uuid.New().String()[:8])
	order, err := gw.CreateOrder(amount.Paise, amount.Currency, receipt)
	if err != nil {
		return nil, nil, err
	}

	payment := models.Payment{
		UserID:         userID,
		Purpose:        models.PaymentPurposeWalletTopUp,
		Amount:         amount,
		Method:         "razorpay",
		Status:         models.PaymentCreated,
		GatewayOrderID: &order.ID,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, nil, err
	}
	return &payment, order, nil
}

// CapturePayment verifies the gateway signature and finalizes the payment in
// one transaction: booking payments confirm the booking, top-ups credit the
// wallet. A bad signature mutates nothing — the booking stays pending and
// the caller can retry collection. Re-delivery for an already captured
// payment is a no-op.
func CapturePayment(db *gorm.DB, gw payments.Gateway, orderID, gatewayPaymentID, signature string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.First(&payment, "gateway_order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no payment for gateway order %s", orderID)
		}
		return nil, err
	}

	if payment.Status == models.PaymentCaptured {
		return &payment, nil
	}

	if !gw.VerifySignature(orderID, gatewayPaymentID, signature) {
		return nil, payments.ErrSignatureInvalid
	}

	return finalizeCapture(db, gw, &payment, gatewayPaymentID, &signature)
}

// FinalizeCapturedPayment is the webhook entry point: the request body has
// already been authenticated with the webhook secret, so no per-payment
// signature is re-checked. Idempotent against redelivery.
func FinalizeCapturedPayment(db *gorm.DB, gw payments.Gateway, orderID, gatewayPaymentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.First(&payment, "gateway_order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no payment for gateway order %s", orderID)
		}
		return nil, err
	}

	if payment.Status == models.PaymentCaptured {
		return &payment, nil
	}
	return finalizeCapture(db, gw, &payment, gatewayPaymentID, nil)
}

func finalizeCapture(db *gorm.DB, gw payments.Gateway, payment *models.Payment, gatewayPaymentID string, signature *string) (*models.Payment, error) {
	var confirmed *models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		payment.Status = models.PaymentCaptured
		payment.GatewayPaymentID = &gatewayPaymentID
		payment.Signature = signature
		if err := tx.Save(payment).Error; err != nil {
			return err
		}

		switch payment.Purpose {
		case models.PaymentPurposeBooking:
			booking, err := lockBooking(tx, *payment.BookingID)
			if err != nil {
				return err
			}
			switch booking.Status {
			case models.BookingStatusPending:
				booking.Status = models.BookingStatusConfirmed
				booking.PaymentStatus = models.PaymentStatusPaid
				if err := tx.Save(booking).Error; err != nil {
					return err
				}
				confirmed = booking
			case models.BookingStatusCancelled:
				// Customer cancelled while the verify callback was in
				// flight. The cancellation wins; refund the late capture.
				if err := refundBooking(tx, gw, booking); err != nil {
					return err
				}
				return tx.Save(booking).Error
			}
		case models.PaymentPurposeWalletTopUp:
			reference := fmt.Sprintf("topup:%s", *payment.GatewayOrderID)
			if _, err := CreditWallet(tx, payment.UserID, payment.Amount, reference); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if confirmed != nil {
		events.Publish(bookingEvent(events.BookingConfirmed, confirmed))
	}
	return payment, nil
}
