package appointments

import (
	"github.com/curelink/curelink-backend/internal/config"
	"github.com/curelink/curelink-backend/internal/middleware"
	"github.com/curelink/curelink-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "appointments" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Appointment{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db)
	handler := NewHandler(svc)

	grp := router.Group("/appointments")
	grp.Post("/book", middleware.RoleRequired(models.RolePatient), handler.Book)
	grp.Get("/doctorappointment", middleware.RoleRequired(models.RoleDoctor), handler.ListForDoctor)
	grp.Get("/patient-doctors", middleware.RoleRequired(models.RolePatient), handler.ListPatientDoctors)
	grp.Patch("/:id", handler.UpdateStatus)
}
