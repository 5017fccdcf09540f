package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "10000", cfg.AppPort)
	require.Equal(t, ":10000", cfg.HTTPAddress())
	require.Equal(t, "openai", cfg.AIProvider)
	require.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	require.Equal(t, 2*time.Minute, cfg.EvaluationTimeout)
	require.Equal(t, 1, cfg.EvaluationConcurrency)
	require.Equal(t, 4*1024*1024, cfg.BodyLimit)
	require.Zero(t, cfg.RateLimitMax)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "8081")
	t.Setenv("EVALUATION_TIMEOUT", "0")
	t.Setenv("EVALUATION_CONCURRENCY", "8")
	t.Setenv("RATE_LIMIT_MAX", "30")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8081", cfg.HTTPAddress())
	require.Zero(t, cfg.EvaluationTimeout)
	require.Equal(t, 8, cfg.EvaluationConcurrency)
	require.Equal(t, 30, cfg.RateLimitMax)
	require.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRequiresProviderCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "OpenAIAPIKey")

	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err = Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "AnthropicAPIKey")

	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "anthropic", cfg.AIProvider)
}

func TestLoadRejectsUnknownProviderAndBadDurations(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_PROVIDER", "mystery")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("EVALUATION_TIMEOUT", "soon")
	_, err = Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "evaluation timeout")
}

func TestHTTPAddressKeepsLeadingColon(t *testing.T) {
	require.Equal(t, ":9000", Config{AppPort: ":9000"}.HTTPAddress())
}
