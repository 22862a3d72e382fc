package routes

import (
	"github.com/dheerajgaurgithub/swachhcare/handlers"
	"github.com/dheerajgaurgithub/swachhcare/middleware"
	"github.com/gofiber/fiber/v2"
)

func WorkerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Any authenticated customer may apply to become a worker.
	api.Post("/worker/apply", middleware.Protected(), handlers.ApplyAsWorker)

	worker := api.Group("/worker", middleware.Protected(), middleware.WorkerRequired())
	worker.Get("/me", handlers.GetMyWorkerProfile)
	worker.Get("/reviews", handlers.GetMyWorkerReviews)
	worker.Get("/earnings", handlers.GetMyEarnings)

	worker.Post("/availability", handlers.CreateAvailabilitySlot)
	worker.Get("/availability", handlers.GetMyAvailability)
	worker.Delete("/availability/:slotId", handlers.DeleteAvailabilitySlot)

	worker.Get("/jobs", handlers.GetMyJobs)
	worker.Post("/jobs/:bookingId/check-in", handlers.CheckIn)
	worker.Post("/jobs/:bookingId/complete", handlers.CompleteJob)

	worker.Post("/withdrawals", handlers.RequestWithdrawal)
	worker.Get("/withdrawals", handlers.GetMyWithdrawals)
}
