package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the evaluation service.
type Config struct {
	AppName  string `validate:"required"`
	AppEnv   string
	AppPort  string `validate:"required"`
	LogLevel string `validate:"oneof=trace debug info warn error fatal panic disabled"`

	AIProvider       string `validate:"oneof=openai anthropic"`
	OpenAIAPIKey     string `validate:"required_if=AIProvider openai"`
	OpenAIBaseURL    string `validate:"omitempty,url"`
	AnthropicAPIKey  string `validate:"required_if=AIProvider anthropic"`
	AnthropicBaseURL string `validate:"omitempty,url"`

	EvaluationTimeout     time.Duration `validate:"gte=0"`
	EvaluationConcurrency int           `validate:"gte=1,lte=64"`

	BodyLimit        int `validate:"gt=0"`
	CORSAllowOrigins string
	AccessLog        bool
	RateLimitMax     int           `validate:"gte=0"`
	RateLimitWindow  time.Duration `validate:"gte=0"`
	RedisURL         string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional .env file.
// A missing provider credential is reported as an error so the process can stop before serving.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app_name", "Answer Evaluation API")
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "10000")
	v.SetDefault("log_level", "info")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("evaluation_timeout", "2m")
	v.SetDefault("evaluation_concurrency", 1)
	v.SetDefault("http_body_limit", 4*1024*1024)
	v.SetDefault("cors_allow_origins", "*")
	v.SetDefault("access_log", true)
	v.SetDefault("rate_limit_max", 0)
	v.SetDefault("rate_limit_window", "1m")

	timeout, err := parseDuration(v.GetString("evaluation_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation timeout: %w", err)
	}

	window, err := parseDuration(v.GetString("rate_limit_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app_name"),
		AppEnv:                v.GetString("app_env"),
		AppPort:               v.GetString("port"),
		LogLevel:              strings.ToLower(v.GetString("log_level")),
		AIProvider:            strings.ToLower(strings.TrimSpace(v.GetString("ai_provider"))),
		OpenAIAPIKey:          v.GetString("openai_api_key"),
		OpenAIBaseURL:         v.GetString("openai_base_url"),
		AnthropicAPIKey:       v.GetString("anthropic_api_key"),
		AnthropicBaseURL:      v.GetString("anthropic_base_url"),
		EvaluationTimeout:     timeout,
		EvaluationConcurrency: v.GetInt("evaluation_concurrency"),
		BodyLimit:             v.GetInt("http_body_limit"),
		CORSAllowOrigins:      v.GetString("cors_allow_origins"),
		AccessLog:             v.GetBool("access_log"),
		RateLimitMax:          v.GetInt("rate_limit_max"),
		RateLimitWindow:       window,
		RedisURL:              v.GetString("redis_url"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the struct tags on Config.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}
	return time.ParseDuration(value)
}
