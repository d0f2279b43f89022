package chat

import (
	"github.com/curelink/curelink-backend/internal/config"
	"github.com/curelink/curelink-backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Plugin struct {
	hub *Hub
}

// New wires the relay plugin around an externally owned hub so the
// server can drain it on shutdown.
func New(hub *Hub) *Plugin {
	return &Plugin{hub: hub}
}

func (p *Plugin) ID() string { return "chat" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&ChatMessage{},
	}
}

// RegisterRoutes is a no-op; the relay has no REST surface.
func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {}

// RegisterSocket mounts the relay endpoint. The token rides the query
// string because browsers cannot set headers on websocket upgrades.
func (p *Plugin) RegisterSocket(app *fiber.App, cfg *config.Config) {
	handler := NewHandler(p.hub)

	app.Use("/ws", Upgrade)
	app.Get("/ws/chat", middleware.JWTProtected(cfg), websocket.New(handler.Serve))
}
