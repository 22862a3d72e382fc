package routes

import (
	"github.com/dheerajgaurgithub/swachhcare/handlers"
	"github.com/dheerajgaurgithub/swachhcare/middleware"
	"github.com/gofiber/fiber/v2"
)

func WebsocketRoutes(app *fiber.App) {
	app.Use("/ws", middleware.Protected(), handlers.WebsocketUpgrade)
	app.Get("/ws", handlers.WebsocketHandler())
}
