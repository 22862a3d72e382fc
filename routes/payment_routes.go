package routes

import (
	"github.com/dheerajgaurgithub/swachhcare/handlers"
	"github.com/dheerajgaurgithub/swachhcare/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments")
	// The webhook authenticates itself with the webhook secret.
	payments.Post("/webhook/razorpay", handlers.RazorpayWebhook)

	payments.Use(middleware.Protected())
	payments.Post("/order", handlers.CreateBookingPaymentOrder)
	payments.Post("/verify", handlers.VerifyPayment)
	payments.Get("/mine", handlers.GetMyPayments)

	wallet := api.Group("/wallet", middleware.Protected())
	wallet.Get("", handlers.GetMyWallet)
	wallet.Post("/topup", handlers.CreateWalletTopUpOrder)
}
