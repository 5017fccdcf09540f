package ai

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ProviderConfig selects and configures a completion provider.
type ProviderConfig struct {
	Provider         string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	Logger           zerolog.Logger
}

// NewCompleter returns the Completer for the configured provider.
func NewCompleter(cfg ProviderConfig) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", providerOpenAI:
		return NewOpenAICompleter(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Logger:  cfg.Logger,
		})
	case providerAnthropic:
		return NewAnthropicCompleter(AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.AnthropicBaseURL,
			Logger:  cfg.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}
