package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vitrinepost/vitrinepost/app/controllers"
	"github.com/vitrinepost/vitrinepost/internal/pkg/metrics/counter"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Deps are the handlers and middleware the routers mount.
type Deps struct {
	Generations *controllers.GenerationController
	Auth        fiber.Handler
	Counter     *counter.PipelineCounter
	// MetricsUsers guards /metrics. An empty map disables the metrics routes.
	MetricsUsers map[string]string
	RateLimit    RateLimitConfig
}

func InstallRouter(app *fiber.App, deps Deps) {
	setup(app, NewMetricsRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
