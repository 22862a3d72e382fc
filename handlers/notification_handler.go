package handlers

import (
	"time"

	"github.com/dheerajgaurgithub/swachhcare/database"
	"github.com/dheerajgaurgithub/swachhcare/models"
	"github.com/gofiber/fiber/v2"
)

func GetMyNotifications(c *fiber.Ctx) error {
	userID := currentUserID(c)

	query := database.DB.Where("user_id = ?", userID).Order("created_at desc").Limit(50)
	if c.Query("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	var userNotifications []models.Notification
	query.Find(&userNotifications)

	return c.JSON(userNotifications)
}

func MarkNotificationRead(c *fiber.Ctx) error {
	userID := currentUserID(c)
	notificationID := c.Params("notificationId")

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notification as read"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found or already read"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID := currentUserID(c)

	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now())

	return c.SendStatus(fiber.StatusNoContent)
}
