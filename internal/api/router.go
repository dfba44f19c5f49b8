package api

import (
	"intentbot/docs"
	"intentbot/internal/api/handlers"
	"intentbot/pkg/auth"
	"intentbot/pkg/config"
	"intentbot/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Predict *handlers.PredictHandler
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Intent  *handlers.IntentHandler
}

func SetupRouter(h Handlers, cfg *config.ServerConfig, jwtManager *auth.JWTManager, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "intentbot",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestID} ${status} - ${latency} ${method} ${path}\n",
	}))

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", h.Predict.Root)
	app.Post("/predict", h.Predict.Predict)
	app.Get("/health", h.Health.Health)
	app.Post("/auth/login", h.Auth.Login)

	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	intents := protected.Group("/intents")
	intents.Get("", h.Intent.ListIntents)
	intents.Post("/reload", h.Intent.ReloadIntents)

	return app
}
