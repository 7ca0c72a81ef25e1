package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionHeader carries the requester's device session ID.
const SessionHeader = "X-Session-ID"

// SessionRequired rejects requests without a session ID and stores it in
// the "session_id" local.
func SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := strings.TrimSpace(c.Get(SessionHeader))
		if sessionID == "" || len(sessionID) > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": SessionHeader + " header is required",
			})
		}
		c.Locals("session_id", sessionID)
		return c.Next()
	}
}

// SessionID returns the session stored by SessionRequired.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("session_id").(string)
	return id
}
