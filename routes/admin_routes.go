package routes

import (
	"github.com/dheerajgaurgithub/swachhcare/handlers"
	"github.com/dheerajgaurgithub/swachhcare/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/workers/pending", handlers.GetPendingWorkers)
	admin.Put("/workers/:workerId/application", handlers.ManageWorkerApplication)

	admin.Get("/bookings", handlers.GetAllBookings)
	admin.Put("/bookings/:bookingId/assign", handlers.AssignWorkerToBooking)
	admin.Post("/bookings/:bookingId/cancel", handlers.CancelBookingAsAdmin)

	admin.Get("/payments", handlers.GetAllPayments)
	admin.Get("/dashboard", handlers.GetDashboardStats)

	reports := admin.Group("/reports")
	reports.Get("/settlements", handlers.GetSettlementReport)

	coupons := admin.Group("/coupons")
	coupons.Post("", handlers.CreateCoupon)
	coupons.Get("", handlers.ListCoupons)
	coupons.Delete("/:couponId", handlers.DeactivateCoupon)

	services := admin.Group("/services")
	services.Post("", handlers.CreateService)
	services.Put("/:serviceId", handlers.UpdateService)
	services.Put("/:serviceId/toggle", handlers.ToggleServiceActive)
	services.Post("/:serviceId/add-ons", handlers.AddServiceAddOn)

	admin.Get("/withdrawals", handlers.ListPendingWithdrawals)
	admin.Post("/withdrawals/:requestId/process", handlers.ProcessWithdrawal)

	users := admin.Group("/users")
	users.Get("", handlers.ListUsers)
	users.Put("/:userId/status", handlers.ToggleUserActive)
}
