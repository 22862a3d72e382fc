package handlers

import (
	config "github.com/dheerajgaurgithub/swachhcare/configs"
	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/dheerajgaurgithub/swachhcare/services"
	"github.com/gofiber/fiber/v2"
)

func GetMyWallet(c *fiber.Ctx) error {
	userID := currentUserID(c)

	wallet, transactions, err := services.WalletHistory(database.DB, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"wallet":       wallet,
		"transactions": transactions,
	})
}

type TopUpRequest struct {
	AmountPaise int64 `json:"amount_paise" validate:"required,min=100"`
}

// CreateWalletTopUpOrder opens a gateway order; the wallet is credited when
// the capture comes back through VerifyPayment or the webhook.
func CreateWalletTopUpOrder(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req TopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, order, err := services.CreateWalletTopUpOrder(database.DB, PaymentGateway, userID, money.INR(req.AmountPaise))
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
