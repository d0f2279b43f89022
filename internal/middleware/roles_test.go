package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curelink/curelink-backend/internal/models"
)

func roleApp(handlerRole string, tokenRole string) *fiber.App {
	app := fiber.New()
	if tokenRole != "" {
		app.Use(func(c *fiber.Ctx) error {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub":  uuid.NewString(),
				"role": tokenRole,
			})
			c.Locals("user", token)
			return c.Next()
		})
	}
	app.Get("/guarded", RoleRequired(handlerRole), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRoleRequired(t *testing.T) {
	tests := []struct {
		name       string
		required   string
		tokenRole  string
		wantStatus int
	}{
		{"matching role passes", models.RoleDoctor, models.RoleDoctor, fiber.StatusOK},
		{"patient blocked from doctor route", models.RoleDoctor, models.RolePatient, fiber.StatusForbidden},
		{"doctor blocked from patient route", models.RolePatient, models.RoleDoctor, fiber.StatusForbidden},
		{"no token at all", models.RoleDoctor, "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := roleApp(tt.required, tt.tokenRole)
			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
