package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const providerAnthropic = "anthropic"

// AnthropicConfig defines configuration options for the Anthropic completer.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Logger  zerolog.Logger
}

// AnthropicCompleter implements Completer against the Anthropic Messages API.
type AnthropicCompleter struct {
	client anthropic.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewAnthropicCompleter constructs a completer backed by the Anthropic SDK.
func NewAnthropicCompleter(cfg AnthropicConfig) (*AnthropicCompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicCompleter{
		client: anthropic.NewClient(opts...),
		tracer: otel.Tracer("github.com/noah-isme/answer-eval-api/pkg/ai/anthropic"),
		logger: cfg.Logger.With().Str("component", "anthropic_completer").Logger(),
	}, nil
}

// Complete sends the prompt as a single user message and joins the returned text blocks.
func (c *AnthropicCompleter) Complete(parent context.Context, req CompletionRequest) (Completion, error) {
	ctx, span := c.tracer.Start(parent, "anthropic.complete", trace.WithAttributes(
		attribute.String("model", req.Model),
		attribute.Int("max_tokens", req.MaxTokens),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	completionDuration.WithLabelValues(providerAnthropic, req.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return Completion{}, c.fail(span, req.Model, fmt.Errorf("anthropic messages: %w", err))
	}

	if len(resp.Content) == 0 {
		return Completion{}, c.fail(span, req.Model, ErrEmptyCompletion)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}

	usage := Usage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	observeUsage(providerAnthropic, req.Model, usage)

	c.logger.Debug().
		Str("model", req.Model).
		Int("total_tokens", usage.TotalTokens).
		Msg("completion received")

	return Completion{Text: text.String(), Usage: usage}, nil
}

func (c *AnthropicCompleter) fail(span trace.Span, model string, err error) error {
	completionFailures.WithLabelValues(providerAnthropic, model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
