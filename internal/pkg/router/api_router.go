package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/vitrinepost/vitrinepost/app/models"
	apiv1 "github.com/vitrinepost/vitrinepost/internal/api/v1"
	"github.com/vitrinepost/vitrinepost/internal/pkg/env"
	"github.com/vitrinepost/vitrinepost/internal/pkg/middleware"
)

// RateLimitConfig bounds requests per client on /api.
type RateLimitConfig struct {
	Max        int
	Expiration time.Duration
	Storage    fiber.Storage
}

func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Max:        env.GetEnvInt("API_RATE_LIMIT_MAX", 30),
		Expiration: env.GetEnvDuration("API_RATE_LIMIT_WINDOW", time.Minute),
	}
}

type ApiRouter struct {
	deps Deps
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", newLimiter(h.deps.RateLimit))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer(h.deps.Generations)
	apiv1.RegisterHandlers(v1, apiServer, h.deps.Auth)
}

func NewApiRouter(deps Deps) *ApiRouter {
	return &ApiRouter{deps: deps}
}

// limiterKey buckets authenticated callers per credential digest and anonymous
// ones per IP. Raw credentials never reach the limiter storage.
func limiterKey(c *fiber.Ctx) string {
	if token := middleware.Credential(c); token != "" {
		return "auth:" + models.HashAPIKey(token)
	}
	return "ip:" + c.IP()
}

func newLimiter(cfg RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = 30
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		Storage:    cfg.Storage,
		KeyGenerator: limiterKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Muitas requisições. Tente novamente em instantes.",
			})
		},
	})
}
