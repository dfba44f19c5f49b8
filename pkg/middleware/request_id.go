package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newRequestID() string {
	return uuid.NewString()
}

// GetRequestID returns the id stored by RequestID, or "" outside that middleware.
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestID").(string)
	return id
}
