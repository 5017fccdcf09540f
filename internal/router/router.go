package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/answer-eval-api/internal/config"
	"github.com/noah-isme/answer-eval-api/internal/handler"
	"github.com/noah-isme/answer-eval-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	// RateLimiter guards POST /evaluate when set.
	RateLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	if deps.EvaluationHandler != nil {
		var guards []fiber.Handler
		if deps.RateLimiter != nil {
			guards = append(guards, deps.RateLimiter)
		}
		deps.EvaluationHandler.Register(app, guards...)
	}
}
