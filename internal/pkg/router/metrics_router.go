package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/monitor"
)

type MetricsRouter struct {
	deps Deps
}

func NewMetricsRouter(deps Deps) *MetricsRouter {
	return &MetricsRouter{deps: deps}
}

func (m MetricsRouter) InstallRouter(app *fiber.App) {
	if len(m.deps.MetricsUsers) == 0 {
		log.Info("[Router] no metrics users configured, /metrics disabled")
		return
	}
	guard := basicauth.New(basicauth.Config{Users: m.deps.MetricsUsers})

	// fiber metrics
	app.Get("/metrics", guard, monitor.New())
	app.Get("/metrics/pipeline", guard, m.handlePipeline)
}

func (m MetricsRouter) handlePipeline(c *fiber.Ctx) error {
	if m.deps.Counter == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "error": "Métricas indisponíveis"})
	}
	snap, err := m.deps.Counter.Snapshot(c.UserContext())
	if err != nil {
		log.Errorf("[Router] pipeline counter snapshot failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "error": "Métricas indisponíveis"})
	}
	return c.JSON(fiber.Map{"success": true, "pipeline": snap})
}
