package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/answer-eval-api/internal/dto"
	"github.com/noah-isme/answer-eval-api/internal/service"
	"github.com/noah-isme/answer-eval-api/internal/utils"
)

// EvaluationHandler exposes the batch grading endpoint.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires POST /evaluate, running guards (e.g. a rate limiter) before the handler.
func (h *EvaluationHandler) Register(router fiber.Router, guards ...fiber.Handler) {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	handlers = append(handlers, h.evaluate)
	router.Post("/evaluate", handlers...)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("invalid evaluation payload")
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result := h.service.Evaluate(c.UserContext(), payload)

	requestLogger(h.logger, c).Info().
		Int("questions", len(payload.Questions)).
		Int("score", result.Score).
		Msg("batch evaluated")

	return c.Status(fiber.StatusOK).JSON(result)
}
