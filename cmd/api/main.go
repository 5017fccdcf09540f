package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/answer-eval-api/internal/config"
	"github.com/noah-isme/answer-eval-api/internal/database"
	"github.com/noah-isme/answer-eval-api/internal/handler"
	"github.com/noah-isme/answer-eval-api/internal/middleware"
	"github.com/noah-isme/answer-eval-api/internal/router"
	"github.com/noah-isme/answer-eval-api/internal/service"
	"github.com/noah-isme/answer-eval-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()

	completer, err := ai.NewCompleter(ai.ProviderConfig{
		Provider:         cfg.AIProvider,
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		Logger:           logger,
	})
	if err != nil {
		log.Fatalf("failed to create completion client: %v", err)
	}

	var rateLimiter fiber.Handler
	if cfg.RateLimitMax > 0 {
		var storage fiber.Storage
		if cfg.RedisURL != "" {
			redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
			if err != nil {
				log.Fatalf("failed to connect to redis: %v", err)
			}
			defer redisClient.Close()
			storage = middleware.NewRedisStorage(redisClient, "evaluate:limiter:")
		}
		rateLimiter = middleware.RateLimit("evaluate", cfg.RateLimitMax, cfg.RateLimitWindow, storage)
	}

	evaluationService := service.NewEvaluationService(completer, logger, service.EvaluationConfig{
		Concurrency: cfg.EvaluationConcurrency,
		Timeout:     cfg.EvaluationTimeout,
	})
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.BodyLimit,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:    cfg.AccessLog,
	})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
		RateLimiter:       rateLimiter,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("provider", cfg.AIProvider).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
