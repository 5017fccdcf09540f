package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const providerOpenAI = "openai"

// OpenAIConfig defines configuration options for the OpenAI completer.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Logger  zerolog.Logger
}

// OpenAICompleter implements Completer against the OpenAI chat completion API.
type OpenAICompleter struct {
	client *openai.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAICompleter builds a completer using the provided configuration.
func NewOpenAICompleter(cfg OpenAIConfig) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAICompleter{
		client: openai.NewClientWithConfig(config),
		tracer: otel.Tracer("github.com/noah-isme/answer-eval-api/pkg/ai/openai"),
		logger: cfg.Logger.With().Str("component", "openai_completer").Logger(),
	}, nil
}

// Complete sends a single user message to OpenAI and returns the first choice.
func (c *OpenAICompleter) Complete(parent context.Context, req CompletionRequest) (Completion, error) {
	ctx, span := c.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", req.Model),
		attribute.Int("max_tokens", req.MaxTokens),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
	})
	completionDuration.WithLabelValues(providerOpenAI, req.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return Completion{}, c.fail(span, req.Model, fmt.Errorf("openai chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return Completion{}, c.fail(span, req.Model, ErrEmptyCompletion)
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	observeUsage(providerOpenAI, req.Model, usage)

	c.logger.Debug().
		Str("model", req.Model).
		Int("total_tokens", usage.TotalTokens).
		Msg("completion received")

	return Completion{
		Text:  resp.Choices[0].Message.Content,
		Usage: usage,
	}, nil
}

func (c *OpenAICompleter) fail(span trace.Span, model string, err error) error {
	completionFailures.WithLabelValues(providerOpenAI, model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
