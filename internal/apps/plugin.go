package apps

import (
	"github.com/curelink/curelink-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin defines the interface every product area must implement.
type Plugin interface {
	// ID returns the unique area identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts area-specific routes on the given Fiber group.
	// The group is already prefixed with /api/v1 and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// SocketPlugin extends Plugin for areas that also speak websocket.
// Socket routes mount on the app root, outside the REST group.
type SocketPlugin interface {
	Plugin

	// RegisterSocket mounts websocket routes on the app.
	RegisterSocket(app *fiber.App, cfg *config.Config)
}
