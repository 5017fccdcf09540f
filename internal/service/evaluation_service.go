package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/answer-eval-api/internal/dto"
	"github.com/noah-isme/answer-eval-api/internal/middleware"
	"github.com/noah-isme/answer-eval-api/internal/observability"
	"github.com/noah-isme/answer-eval-api/pkg/ai"
)

const (
	// GradingTemperature is sent with every grading completion.
	GradingTemperature float32 = 0.3

	// EvaluationErrorPrefix starts the feedback of a question whose evaluation failed.
	EvaluationErrorPrefix = "Evaluation error: "
)

// EvaluationService grades a batch of answers.
type EvaluationService interface {
	Evaluate(ctx context.Context, req dto.EvaluationRequest) dto.EvaluationResult
}

// EvaluationConfig tunes batch processing.
type EvaluationConfig struct {
	// Concurrency bounds parallel completion calls per batch; values below 1 mean sequential.
	Concurrency int
	// Timeout caps each completion call; zero disables it.
	Timeout time.Duration
}

// outcome is the result of one question: either a parsed reply or the failure.
type outcome struct {
	reply GradingReply
	usage dto.TokenUsage
	err   error
}

type evaluationService struct {
	completer ai.Completer
	logger    zerolog.Logger
	tracer    trace.Tracer
	config    EvaluationConfig
}

// NewEvaluationService constructs the batch evaluator around a completion client.
func NewEvaluationService(completer ai.Completer, logger zerolog.Logger, cfg EvaluationConfig) EvaluationService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return &evaluationService{
		completer: completer,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/answer-eval-api/internal/service/evaluation"),
		config:    cfg,
	}
}

// Evaluate grades every question independently and always returns a complete result.
func (s *evaluationService) Evaluate(parent context.Context, req dto.EvaluationRequest) dto.EvaluationResult {
	ctx, span := s.tracer.Start(parent, "evaluation.batch", trace.WithAttributes(
		attribute.Int("questions", len(req.Questions)),
	))
	defer span.End()

	observability.EvaluationBatchSize().Observe(float64(len(req.Questions)))

	ids := make([]string, 0, len(req.Questions))
	for id := range req.Questions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	outcomes := make([]outcome, len(ids))
	group := errgroup.Group{}
	group.SetLimit(s.config.Concurrency)
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			outcomes[i] = s.evaluateQuestion(ctx, id, req.Questions[id])
			return nil
		})
	}
	_ = group.Wait()

	result := dto.NewEvaluationResult(len(ids))
	failed := 0
	for i, id := range ids {
		out := outcomes[i]
		if out.err != nil {
			failed++
			result.QuestionScore[id] = 0
			result.QuestionFeedback[id] = EvaluationErrorPrefix + out.err.Error()
			result.Usage[id] = dto.TokenUsage{}
			observability.EvaluatedQuestions().WithLabelValues("failed").Inc()
			continue
		}

		result.QuestionScore[id] = out.reply.Score
		result.QuestionFeedback[id] = out.reply.Feedback
		result.Usage[id] = out.usage
		result.Score += out.reply.Score
		observability.EvaluatedQuestions().WithLabelValues("scored").Inc()
	}

	span.SetAttributes(attribute.Int("failed", failed), attribute.Int("score", result.Score))
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d questions failed", failed, len(ids)))
	}

	return result
}

func (s *evaluationService) evaluateQuestion(parent context.Context, id string, payload dto.QuestionPayload) (out outcome) {
	item := payload.Item
	ctx, span := s.tracer.Start(parent, "evaluation.question", trace.WithAttributes(
		attribute.String("question_id", id),
		attribute.String("model", item.Model),
	))
	defer span.End()

	logger := s.logger.With().
		Str("correlation_id", middleware.CorrelationIDFromContext(parent)).
		Str("question_id", id).
		Str("model", item.Model).
		Logger()

	defer func() {
		if recovered := recover(); recovered != nil {
			out = outcome{err: fmt.Errorf("panic during evaluation: %v", recovered)}
		}
		if out.err != nil {
			span.RecordError(out.err)
			span.SetStatus(codes.Error, out.err.Error())
			logger.Warn().Err(out.err).Msg("question evaluation failed")
		}
	}()

	if payload.Err != nil {
		return outcome{err: fmt.Errorf("invalid question payload: %w", payload.Err)}
	}

	callCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	completion, err := s.completer.Complete(callCtx, ai.CompletionRequest{
		Model:       item.Model,
		Prompt:      BuildGradingPrompt(item),
		Temperature: GradingTemperature,
		MaxTokens:   item.MaxTokens,
	})
	if err != nil {
		return outcome{err: err}
	}

	reply := ParseGradingReply(completion.Text)
	logger.Debug().
		Int("score", reply.Score).
		Int("total_tokens", completion.Usage.TotalTokens).
		Msg("question graded")

	return outcome{
		reply: reply,
		usage: dto.TokenUsage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		},
	}
}
