package router

import (
	"strings"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/handlers"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/middleware"
	"github.com/soltixdb/sfb/internal/observability"
	"github.com/soltixdb/sfb/internal/ratelimit"
	"github.com/soltixdb/sfb/internal/services"
)

// Dependencies are the runtime components the routes are wired to
type Dependencies struct {
	Service *services.StatisticsService
	Limiter ratelimit.Limiter
	Metrics *observability.Metrics
}

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, deps Dependencies, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, deps.Service, cfg.Service, cfg.Server.RequestTimeout)

	// Global middlewares
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.CORS.AllowOrigins, ","),
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders: logging.HeaderRequestID + "," + logging.HeaderProcessingTime,
	}))
	app.Use(logging.FiberMiddlewareWithConfig(logger, logging.DefaultMiddlewareConfig()))

	if cfg.Telemetry.TracingEnabled {
		app.Use(middleware.Tracing())
	}

	if cfg.Telemetry.MetricsEnabled && deps.Metrics != nil {
		fp := fiberprometheus.NewWithRegistry(deps.Metrics.Registry(), cfg.Service.Name, observability.Namespace, "http", nil)
		app.Use(fp.Middleware)
		app.Get(cfg.Telemetry.MetricsPath, adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Public routes
	app.Get("/", h.Root)
	app.Get(handlers.HealthPath, h.Health)

	// Statistical package generation (bearer token + per-caller limit)
	generate := app.Group("/v1/generate",
		middleware.JWTAuth(cfg.Auth, logger, middleware.ScopeWrite),
		middleware.RateLimit(deps.Limiter, deps.Metrics, logger),
	)
	generate.Post("", h.Generate)
	generate.Post("/multi", h.GenerateMulti)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, deps Dependencies, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Service.Name,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger, cfg.IsDevelopment()),
		BodyLimit:             cfg.Server.BodyLimitBytes(),
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	Setup(app, logger, deps, cfg)

	return app
}
