package routes

import (
	"github.com/dheerajgaurgithub/swachhcare/handlers"
	"github.com/dheerajgaurgithub/swachhcare/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	bookings := api.Group("/bookings", middleware.Protected())
	bookings.Post("", handlers.CreateBooking)
	bookings.Get("", handlers.GetMyBookings)
	bookings.Get("/:bookingId", handlers.GetMyBooking)
	bookings.Post("/:bookingId/cancel", handlers.CancelMyBooking)
	bookings.Post("/:bookingId/review", handlers.CreateReview)
}
