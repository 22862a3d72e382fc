package handlers

import (
	"errors"
	"log"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/dheerajgaurgithub/swachhcare/payments"
	"github.com/dheerajgaurgithub/swachhcare/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// serviceError maps the service layer's sentinel errors to HTTP responses.
// Unknown errors are logged and returned as a generic 500 so internal detail
// never leaks to clients.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrPaymentRequired):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyRefunded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotBookingWorker):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, payments.ErrSignatureInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrWorkerUnavailable),
		errors.Is(err, services.ErrArtifactsMissing),
		errors.Is(err, services.ErrCheckInRequired),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrCouponInactive),
		errors.Is(err, services.ErrCouponExpired),
		errors.Is(err, services.ErrCouponNotYetValid),
		errors.Is(err, services.ErrCouponExhausted),
		errors.Is(err, services.ErrMinimumAmountNotMet),
		errors.Is(err, services.ErrServiceUnavailable),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrCurrencyMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("🔥 Unhandled service error on %s: %v", c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong, please try again"})
	}
}
