package handlers

import (
	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/gofiber/fiber/v2"
)

func ListServices(c *fiber.Ctx) error {
	query := database.DB.Preload("AddOns", "active = ?", true).Where("active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var catalog []models.Service
	query.Order("name asc").Find(&catalog)

	return c.JSON(catalog)
}

func GetService(c *fiber.Ctx) error {
	serviceID := c.Params("serviceId")

	var service models.Service
	if err := database.DB.Preload("AddOns", "active = ?", true).First(&service, "id = ? AND active = ?", serviceID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	}
	return c.JSON(service)
}

func ListActiveWorkers(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Preload("Skills").Where("status = ?", "active")

	if serviceID := c.Query("service_id"); serviceID != "" {
		query = query.Joins("JOIN worker_skills ON worker_skills.worker_user_id = workers.user_id").
			Where("worker_skills.service_id = ?", serviceID)
	}
	if minRating := c.Query("min_rating"); minRating != "" {
		query = query.Where("avg_rating >= ?", minRating)
	}

	var activeWorkers []models.Worker
	if err := query.Find(&activeWorkers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve workers"})
	}

	return c.JSON(activeWorkers)
}

func GetWorkerProfile(c *fiber.Ctx) error {
	workerID := c.Params("workerId")

	var worker models.Worker
	if err := database.DB.Preload("User").Preload("Skills").First(&worker, "user_id = ? AND status = ?", workerID, "active").Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active worker not found"})
	}

	var reviews []models.Review
	database.DB.Preload("Customer").Where("worker_id = ?", workerID).Order("created_at desc").Limit(20).Find(&reviews)

	return c.JSON(fiber.Map{
		"worker":  worker,
		"reviews": reviews,
	})
}
