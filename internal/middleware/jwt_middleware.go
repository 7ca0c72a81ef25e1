package middleware

import (
	"errors"
	"log"
	"strings"

	"greenbuild/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	adminIDKey         = "admin_id"
	adminIdentifierKey = "admin_identifier"
)

var errMissingBearer = errors.New("authorization header must be 'Bearer <token>'")

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively.
func bearerToken(header string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errMissingBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingBearer
	}
	return token, nil
}

// AdminRequired admits only requests carrying a valid token with the admin
// role. The admin's ID and identifier are available through AdminIdentifier.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Admin login required",
				"error":   err.Error(),
			})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.Printf("Admin token rejected for %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		identifier, _ := claims["identifier"].(string)
		if role, _ := claims["role"].(string); role != "admin" || identifier == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Token does not belong to an admin",
			})
		}

		c.Locals(adminIDKey, claims["admin_id"])
		c.Locals(adminIdentifierKey, identifier)
		return c.Next()
	}
}

// AdminIdentifier returns the identifier stored by AdminRequired.
func AdminIdentifier(c *fiber.Ctx) string {
	id, _ := c.Locals(adminIdentifierKey).(string)
	return id
}
