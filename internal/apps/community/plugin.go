package community

import (
	"github.com/curelink/curelink-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Plugin struct {
	sweepDone chan struct{}
}

func New() *Plugin {
	return &Plugin{sweepDone: make(chan struct{})}
}

func (p *Plugin) ID() string { return "community" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Problem{},
		&Answer{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db)
	handler := NewHandler(svc)

	svc.StartExpirySweep(p.sweepDone)

	grp := router.Group("/community")
	grp.Post("/problem", handler.CreateProblem)
	grp.Post("/answer/:problemId", handler.AnswerProblem)
	grp.Get("/problems", handler.ListProblems)
	grp.Get("/problem/:id", handler.GetProblem)
}

// StopSweep terminates the expiry sweep goroutine.
func (p *Plugin) StopSweep() {
	close(p.sweepDone)
}
