package handlers

import (
	"github.com/curelink/curelink-backend/internal/dto"
	"github.com/curelink/curelink-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type DirectoryEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// ListDoctors returns the doctor directory that feeds the booking form.
func (h *UserHandler) ListDoctors(c *fiber.Ctx) error {
	var doctors []DirectoryEntry
	err := h.db.Model(&models.User{}).
		Where("role = ?", models.RoleDoctor).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch doctors",
		})
	}

	return c.JSON(fiber.Map{"data": doctors})
}
