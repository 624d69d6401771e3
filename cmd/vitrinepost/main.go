package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vitrinepost/vitrinepost/app/controllers"
	"github.com/vitrinepost/vitrinepost/app/repository"
	"github.com/vitrinepost/vitrinepost/internal/pkg/aiclient"
	"github.com/vitrinepost/vitrinepost/internal/pkg/artwork"
	"github.com/vitrinepost/vitrinepost/internal/pkg/assets"
	"github.com/vitrinepost/vitrinepost/internal/pkg/cache"
	"github.com/vitrinepost/vitrinepost/internal/pkg/caption"
	"github.com/vitrinepost/vitrinepost/internal/pkg/database"
	"github.com/vitrinepost/vitrinepost/internal/pkg/env"
	"github.com/vitrinepost/vitrinepost/internal/pkg/generation"
	"github.com/vitrinepost/vitrinepost/internal/pkg/identity"
	"github.com/vitrinepost/vitrinepost/internal/pkg/marketing"
	"github.com/vitrinepost/vitrinepost/internal/pkg/metrics/counter"
	"github.com/vitrinepost/vitrinepost/internal/pkg/middleware"
	"github.com/vitrinepost/vitrinepost/internal/pkg/objectstore"
	"github.com/vitrinepost/vitrinepost/internal/pkg/quota"
	"github.com/vitrinepost/vitrinepost/internal/pkg/router"
)

func main() {
	app, err := NewApplication(context.Background())
	if err != nil {
		log.Fatalf("[Main] startup failed: %v", err)
	}
	err = app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication(ctx context.Context) (*fiber.App, error) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeRepositories(database.GetDB())
	repos, err := repository.GetGlobalRepositories()
	if err != nil {
		return nil, err
	}

	text, images, err := aiclient.New(ctx, aiclient.LoadConfig())
	if err != nil {
		return nil, fmt.Errorf("ai clients: %w", err)
	}

	storeCfg, err := objectstore.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("object storage config: %w", err)
	}
	store, err := objectstore.New(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}

	ledger := quota.NewLedger(repos.Usage)
	pipelineCounter := counter.NewPipelineCounter(cache.GetClient())

	svc := generation.NewService(generation.Deps{
		Profiles:  repos.Profile,
		Templates: repos.Template,
		Context:   marketing.NewAssembler(repos.Product, repos.Factory, repos.BrandKit),
		Quota:     ledger,
		Captions:  caption.NewSynthesizer(text, env.GetEnvDuration("AI_TEXT_TIMEOUT", 45*time.Second)),
		Artwork:   artwork.NewSynthesizer(images, env.GetEnvDuration("AI_IMAGE_TIMEOUT", 90*time.Second)),
		Assets: assets.NewPersister(store, assets.Config{
			DownloadTimeout: env.GetEnvDuration("ASSET_DOWNLOAD_TIMEOUT", 30*time.Second),
			UploadTimeout:   env.GetEnvDuration("ASSET_UPLOAD_TIMEOUT", 30*time.Second),
			Thumbnails:      env.GetEnvBool("ASSET_THUMBNAILS", true),
		}),
		Recorder: generation.NewRecorder(repos.Generation, ledger),
		Metrics:  pipelineCounter,
		Parallel: env.GetEnvBool("PIPELINE_PARALLEL_SYNTHESIS", false),
	})

	idCfg := identity.LoadConfig()
	if idCfg.JWTSecret == "" {
		log.Warn("[Main] JWT_SECRET is empty, only API keys will authenticate")
	}
	resolver := identity.Chain{
		APIKeys: identity.NewAPIKeyResolver(repos.Profile),
		JWT:     identity.NewJWTResolver(idCfg),
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
		// image generation alone may take most of a minute
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: env.GetEnv("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
	}))

	// SWAGGER / OPENAPI
	if docPath := findOpenAPISpec(); docPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: docPath,
			Path:     "v1",
		}))
	} else {
		log.Warn("[Main] openapi.yml not found, /docs/api disabled")
	}

	rateLimit := router.LoadRateLimitConfig()
	rateLimit.Storage = router.NewLimiterStorage()

	metricsUsers := map[string]string{}
	if user, pass := env.GetEnv("METRICS_USER", ""), env.GetEnv("METRICS_PASSWORD", ""); user != "" && pass != "" {
		metricsUsers[user] = pass
	}

	// ROUTER
	router.InstallRouter(app, router.Deps{
		Generations:  controllers.NewGenerationController(svc, repos, ledger),
		Auth:         middleware.BearerAuth(resolver),
		Counter:      pipelineCounter,
		MetricsUsers: metricsUsers,
		RateLimit:    rateLimit,
	})

	return app, nil
}

// findOpenAPISpec looks for the API document relative to the usual working directories.
func findOpenAPISpec() string {
	basePaths := []string{
		"./",     // Current directory
		"../../", // From cmd/vitrinepost to project root
	}
	for _, path := range basePaths {
		p := path + "public/docs/v1/openapi.yml"
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
