package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"

	config "github.com/dheerajgaurgithub/swachhcare/configs"
	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/dheerajgaurgithub/swachhcare/payments"
	"github.com/dheerajgaurgithub/swachhcare/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentGateway is the gateway used by every payment endpoint. main wires
// the Razorpay client here; tests substitute a fake.
var PaymentGateway payments.Gateway

type CreatePaymentOrderRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

func CreateBookingPaymentOrder(c *fiber.Ctx) error {
	customerID := currentUserID(c)

	var req CreatePaymentOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	bookingID, _ := uuid.Parse(req.BookingID)

	payment, order, err := services.CreateBookingPaymentOrder(database.DB, PaymentGateway, bookingID, customerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment_id":   payment.ID,
		"order_id":     order.ID,
		"amount_paise": order.AmountPaise,
		"currency":     order.Currency,
		"key_id":       config.Config("RAZORPAY_KEY_ID"),
	})
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// VerifyPayment is the checkout callback: the frontend posts the gateway's
// order id, payment id and signature after the customer completes checkout.
func VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, err := services.CapturePayment(database.DB, PaymentGateway, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"payment": payment,
		"message": "Payment verified and captured.",
	})
}

type razorpayWebhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// RazorpayWebhook handles asynchronous capture notifications. The raw body is
// authenticated with the webhook secret before anything is parsed; a valid
// but unknown order id is acknowledged so the gateway stops redelivering.
func RazorpayWebhook(c *fiber.Ctx) error {
	secret := config.Config("RAZORPAY_WEBHOOK_SECRET")
	if secret == "" {
		log.Println("⚠️ RAZORPAY_WEBHOOK_SECRET not set; rejecting webhook")
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	body := c.Body()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	received := c.Get("X-Razorpay-Signature")
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	var payload razorpayWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	if payload.Event != "payment.captured" {
		return c.SendStatus(fiber.StatusOK)
	}

	entity := payload.Payload.Payment.Entity
	if _, err := services.FinalizeCapturedPayment(database.DB, PaymentGateway, entity.OrderID, entity.ID); err != nil {
		log.Printf("🔥 Webhook capture failed for order %s: %v", entity.OrderID, err)
		// 200 for unknown orders, 500 for transient failures so the gateway
		// retries only what can succeed later.
		var payment models.Payment
		if errors.Is(database.DB.First(&payment, "gateway_order_id = ?", entity.OrderID).Error, gorm.ErrRecordNotFound) {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}

func GetMyPayments(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var userPayments []models.Payment
	database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&userPayments)

	return c.JSON(userPayments)
}
