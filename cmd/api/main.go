package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"galleryapi/docs"
	"galleryapi/internal/cache"
	"galleryapi/internal/config"
	"galleryapi/internal/database"
	"galleryapi/internal/database/migration"
	handlers "galleryapi/internal/http/handler"
	"galleryapi/internal/http/middleware"
	"galleryapi/internal/model"
	"galleryapi/internal/otel"
	"galleryapi/internal/service"
	"galleryapi/internal/storage"
	"galleryapi/internal/store"
)

// newCache picks the cache backend from configuration: an in-process map for
// single-instance deployments, Redis for multi-instance ones.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Backend == "redis" {
		return cache.NewRedis(ctx, cfg.RedisURL)
	}
	return cache.NewMemory(), nil
}

// @title Rug Gallery API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize tracing; degrades to a noop provider when the exporter is
	// unreachable or OTEL_SDK_DISABLED is set.
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create the per-entity document tables on first boot.
	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Cache layer shared by all entity stores.
	entityCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		log.Fatalf("failed to initialize cache backend: %v", err)
	}

	// Typed document stores, cache-augmented.
	rugStore := store.NewCached[model.Rug](store.NewAdapter[model.Rug](db, "rugs"), entityCache, "rugs")
	userStore := store.NewCached[model.User](store.NewAdapter[model.User](db, "users"), entityCache, "users")

	rugSvc := service.NewEntityService[*model.Rug](rugStore)
	userSvc := service.NewEntityService[*model.User](userStore)
	attSvc := service.NewAttachmentService(objStore)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// Trace every request through the global tracer provider
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, rugSvc, userSvc, attSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
