package routes

import (
	"github.com/dheerajgaurgithub/swachhcare/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/services", handlers.ListServices)
	api.Get("/services/:serviceId", handlers.GetService)
	api.Get("/workers", handlers.ListActiveWorkers)
	api.Get("/workers/:workerId", handlers.GetWorkerProfile)
}
