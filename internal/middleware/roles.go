package middleware

import (
	"github.com/curelink/curelink-backend/internal/dto"
	"github.com/curelink/curelink-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

// RoleRequired rejects callers whose role claim does not match.
// Runs after JWTProtected; a missing token yields an empty role.
func RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := identity.GetRole(c)
		if got == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if got != role {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "This route is restricted to " + role + " accounts",
			})
		}
		return c.Next()
	}
}
