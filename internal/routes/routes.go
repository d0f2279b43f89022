package routes

import (
	"time"

	"github.com/curelink/curelink-backend/internal/apps"
	"github.com/curelink/curelink-backend/internal/config"
	"github.com/curelink/curelink-backend/internal/handlers"
	"github.com/curelink/curelink-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api/v1")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/signup", authLimiter, authHandler.Signup)
	api.Post("/login", authLimiter, authHandler.Login)
	api.Post("/refresh", authLimiter, authHandler.Refresh)
	api.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Doctor directory for the booking form
	api.Get("/doctors", middleware.JWTProtected(cfg), userHandler.ListDoctors)

	// Plugin routes share one protected group so JWT middleware never
	// touches the public routes above.
	protected := api.Group("/", middleware.JWTProtected(cfg))
	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
		if sp, ok := p.(apps.SocketPlugin); ok {
			sp.RegisterSocket(app, cfg)
		}
	}
}
