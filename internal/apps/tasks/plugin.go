package tasks

import (
	"github.com/curelink/curelink-backend/internal/config"
	"github.com/curelink/curelink-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Plugin struct {
	suggest *services.SuggestService
}

func New(suggest *services.SuggestService) *Plugin {
	return &Plugin{suggest: suggest}
}

func (p *Plugin) ID() string { return "tasks" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Task{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db)
	handler := NewHandler(svc, p.suggest)

	// Route names kept compatible with the existing dashboard clients.
	router.Post("/post-tasks", handler.Create)
	router.Post("/post-tasks/bulk", handler.BulkCreate)
	router.Get("/get-7days-tasks", handler.ListLast7Days)
	router.Patch("/tasks/:id", handler.Toggle)
	router.Post("/tasks/suggestions", handler.Suggest)
}
