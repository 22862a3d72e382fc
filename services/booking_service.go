package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/dheerajgaurgithub/swachhcare/configs"
	"github.com/dheerajgaurgithub/swachhcare/events"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/dheerajgaurgithub/swachhcare/payments"
	"github.com/dheerajgaurgithub/swachhcare/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Booking lifecycle:
//
//	pending → confirmed → assigned → in_progress → completed
//
// cancelled is reachable from pending/confirmed/assigned only and is
// terminal. Every transition locks the booking row, so concurrent calls for
// the same booking serialize and a cancelled booking can never be pulled
// back into an active state.

type CreateBookingInput struct {
	CustomerID  uuid.UUID
	ServiceID   uuid.UUID
	AddOnIDs    []uuid.UUID
	CouponCode  *string
	ScheduledAt time.Time
	AddressLine string
	City        string
	Pincode     string
}

// CreateBooking prices and persists a new pending booking. The coupon use is
// consumed here (CAS-guarded) so the quoted discount cannot evaporate
// between quoting and payment.
func CreateBooking(db *gorm.DB, in CreateBookingInput) (*models.Booking, error) {
	var booking models.Booking

	err := db.Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.Preload("AddOns").First(&service, "id = ?", in.ServiceID).Error; err != nil {
			return ErrServiceUnavailable
		}
		if !service.Active {
			return ErrServiceUnavailable
		}

		var addOns []models.BookingAddOn
		subtotal := service.BasePrice
		for _, addOnID := range in.AddOnIDs {
			var found *models.ServiceAddOn
			for i := range service.AddOns {
				if service.AddOns[i].ID == addOnID && service.AddOns[i].Active {
					found = &service.AddOns[i]
					break
				}
			}
			if found == nil {
				return fmt.Errorf("add-on %s not offered for this service", addOnID)
			}
			var err error
			subtotal, err = subtotal.Add(found.Price)
			if err != nil {
				return err
			}
			addOns = append(addOns, models.BookingAddOn{Name: found.Name, Price: found.Price})
		}

		discount := money.Zero(subtotal.Currency)
		var coupon *models.Coupon
		if in.CouponCode != nil && *in.CouponCode != "" {
			var err error
			coupon, discount, err = ApplyCoupon(tx, *in.CouponCode, subtotal, time.Now())
			if err != nil {
				return err
			}
		}

		reference, err := utils.GenerateBookingReference(tx)
		if err != nil {
			return err
		}

		booking = models.Booking{
			Reference:       reference,
			CustomerID:      in.CustomerID,
			ServiceID:       service.ID,
			ScheduledAt:     in.ScheduledAt,
			DurationMinutes: service.DurationMinutes,
			AddressLine:     in.AddressLine,
			City:            in.City,
			Pincode:         in.Pincode,
			BasePrice:       service.BasePrice,
			Discount:        discount,
			CouponCode:      in.CouponCode,
			Status:          models.BookingStatusPending,
			PaymentStatus:   models.PaymentStatusUnpaid,
			AddOns:          addOns,
		}
		if err := booking.ComputeTotal(); err != nil {
			return err
		}
		if booking.TotalAmount.IsNegative() {
			return money.ErrInvalidAmount
		}

		if coupon != nil {
			if err := RedeemCoupon(tx, coupon.ID); err != nil {
				return err
			}
		}

		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// lockBooking loads the booking under FOR UPDATE inside tx.
func lockBooking(tx *gorm.DB, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ConfirmBooking moves pending → confirmed once a captured payment exists
// for the booking. Re-delivery of a verification callback for an already
// confirmed booking is a no-op.
func ConfirmBooking(db *gorm.DB, bookingID uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking
	var alreadyConfirmed bool

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		switch booking.Status {
		case models.BookingStatusPending:
		case models.BookingStatusConfirmed:
			alreadyConfirmed = true
			return nil
		default:
			return ErrInvalidTransition
		}

		var captured int64
		tx.Model(&models.Payment{}).
			Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCaptured).
			Count(&captured)
		if captured == 0 {
			return ErrPaymentRequired
		}

		booking.Status = models.BookingStatusConfirmed
		booking.PaymentStatus = models.PaymentStatusPaid
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}

	if !alreadyConfirmed {
		events.Publish(bookingEvent(events.BookingConfirmed, booking))
	}
	return booking, nil
}

// ConfirmBookingWithWallet confirms a pending booking by debiting the
// customer's wallet for the full total. A synthetic captured Payment row is
// written so the paid ⇒ captured-payment invariant holds on this path too.
func ConfirmBookingWithWallet(db *gorm.DB, bookingID uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusPending {
			return ErrInvalidTransition
		}

		reference := fmt.Sprintf("booking:%s", booking.Reference)
		if _, err := DebitWallet(tx, booking.CustomerID, booking.TotalAmount, reference); err != nil {
			return err
		}

		payment := models.Payment{
			BookingID: &booking.ID,
			UserID:    booking.CustomerID,
			Purpose:   models.PaymentPurposeBooking,
			Amount:    booking.TotalAmount,
			Method:    "wallet",
			Status:    models.PaymentCaptured,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		booking.Status = models.BookingStatusConfirmed
		booking.PaymentStatus = models.PaymentStatusPaid
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}

	events.Publish(bookingEvent(events.BookingConfirmed, booking))
	return booking, nil
}

// AssignWorker moves confirmed → assigned. The worker must be approved and
// free of overlapping assigned/in-progress jobs.
func AssignWorker(db *gorm.DB, bookingID, workerID uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusConfirmed {
			return ErrInvalidTransition
		}

		var worker models.Worker
		if err := tx.First(&worker, "user_id = ?", workerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkerUnavailable
			}
			return err
		}
		if worker.Status != "active" {
			return ErrWorkerUnavailable
		}

		var existing []models.Booking
		if err := tx.Where("worker_id = ? AND status IN ?", workerID,
			[]string{models.BookingStatusAssigned, models.BookingStatusInProgress}).
			Find(&existing).Error; err != nil {
			return err
		}
		for i := range existing {
			if existing[i].Overlaps(booking.ScheduledAt, booking.End()) {
				return ErrWorkerUnavailable
			}
		}

		booking.WorkerID = &workerID
		booking.Status = models.BookingStatusAssigned
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}

	events.Publish(bookingEvent(events.BookingAssigned, booking))
	return booking, nil
}

// StartJob moves assigned → in_progress, recording the worker's check-in.
func StartJob(db *gorm.DB, bookingID, workerID uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusAssigned {
			return ErrInvalidTransition
		}
		if booking.WorkerID == nil || *booking.WorkerID != workerID {
			return ErrNotBookingWorker
		}

		now := time.Now()
		booking.CheckedInAt = &now
		booking.Status = models.BookingStatusInProgress
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}

	events.Publish(bookingEvent(events.BookingStarted, booking))
	return booking, nil
}

// CompleteJob moves in_progress → completed and settles the booking in the
// same transaction: both documentation artifacts must be present, the worker
// is credited and the payout/commission records are written atomically.
func CompleteJob(db *gorm.DB, bookingID, workerID uuid.UUID, beforePhotoURL, afterPhotoURL string) (*models.Booking, *SettlementResult, error) {
	var booking *models.Booking
	var settlement *SettlementResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingStatusInProgress {
			return ErrInvalidTransition
		}
		if booking.WorkerID == nil || *booking.WorkerID != workerID {
			return ErrNotBookingWorker
		}
		if booking.CheckedInAt == nil {
			return ErrCheckInRequired
		}
		if beforePhotoURL == "" || afterPhotoURL == "" {
			return ErrArtifactsMissing
		}

		booking.BeforePhotoURL = &beforePhotoURL
		booking.AfterPhotoURL = &afterPhotoURL
		booking.Status = models.BookingStatusCompleted
		if err := tx.Save(booking).Error; err != nil {
			return err
		}

		settlement, err = Settle(tx, booking, config.CommissionRateBasisPoints())
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	events.Publish(bookingEvent(events.BookingCompleted, booking))
	if !settlement.AlreadySettled {
		payoutEvent := bookingEvent(events.PayoutCredited, booking)
		payoutEvent.AmountPaise = settlement.WorkerPayout.Paise
		events.Publish(payoutEvent)
	}

	go CompleteReferralIfApplicable(db, booking.CustomerID)

	return booking, settlement, nil
}

// CancelBooking cancels from pending/confirmed/assigned. When the booking is
// paid, exactly one refund is issued: a gateway refund for gateway payments
// with a wallet credit as the fallback, or a direct wallet credit for
// wallet payments. RefundedAt guards re-entry.
func CancelBooking(db *gorm.DB, gw payments.Gateway, bookingID uuid.UUID, reason string) (*models.Booking, error) {
	var booking *models.Booking

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		switch booking.Status {
		case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusAssigned:
		default:
			return ErrInvalidTransition
		}

		if booking.PaymentStatus == models.PaymentStatusPaid && booking.RefundedAt == nil {
			if err := refundBooking(tx, gw, booking); err != nil {
				return err
			}
		}

		booking.Status = models.BookingStatusCancelled
		booking.CancelReason = &reason
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}

	events.Publish(bookingEvent(events.BookingCancelled, booking))
	return booking, nil
}

func refundBooking(tx *gorm.DB, gw payments.Gateway, booking *models.Booking) error {
	var payment models.Payment
	err := tx.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCaptured).
		First(&payment).Error
	if err != nil {
		return fmt.Errorf("paid booking %s has no captured payment: %v", booking.ID, err)
	}

	reference := fmt.Sprintf("refund:%s", booking.Reference)
	if payment.Method == "wallet" || payment.GatewayPaymentID == nil {
		if _, err := CreditWallet(tx, booking.CustomerID, payment.Amount, reference); err != nil {
			return err
		}
	} else {
		refund, err := gw.Refund(*payment.GatewayPaymentID, payment.Amount.Paise)
		if err != nil {
			// Gateway refund delayed or down: credit the wallet instead so
			// the customer is made whole exactly once.
			log.Printf("⚠️ Gateway refund failed for booking %s, crediting wallet: %v", booking.ID, err)
			if _, err := CreditWallet(tx, booking.CustomerID, payment.Amount, reference); err != nil {
				return err
			}
		} else {
			payment.RefundID = &refund.ID
		}
	}

	payment.Status = models.PaymentRefunded
	if err := tx.Save(&payment).Error; err != nil {
		return err
	}

	refundTxn := models.Transaction{
		BookingID: booking.ID,
		WorkerID:  booking.WorkerID,
		Type:      models.TxnTypeRefund,
		Amount:    payment.Amount,
	}
	if err := tx.Create(&refundTxn).Error; err != nil {
		return err
	}

	now := time.Now()
	booking.RefundedAt = &now
	booking.PaymentStatus = models.PaymentStatusRefunded
	return nil
}

func bookingEvent(t events.Type, b *models.Booking) events.Event {
	return events.Event{
		Type:        t,
		BookingID:   b.ID,
		CustomerID:  b.CustomerID,
		WorkerID:    b.WorkerID,
		Reference:   b.Reference,
		AmountPaise: b.TotalAmount.Paise,
		Currency:    b.TotalAmount.Currency,
	}
}
