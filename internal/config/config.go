package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
)

type Config struct {
	HTTPAddr    string        `env:"TAROT_HTTP_ADDR" envDefault:":8080"`
	RawLogLevel string        `env:"TAROT_LOG_LEVEL" envDefault:"info"`
	DeckID      string        `env:"TAROT_DECK" envDefault:"major_arcana"`
	APIKey      string        `env:"DEEPSEEK_API_KEY"`
	BaseURL     string        `env:"TAROT_LLM_BASE_URL" envDefault:"https://api.deepseek.com/v1"`
	Model       string        `env:"TAROT_LLM_MODEL" envDefault:"deepseek-chat"`
	MaxTokens   int           `env:"TAROT_LLM_MAX_TOKENS" envDefault:"600"`
	Temperature float64       `env:"TAROT_LLM_TEMPERATURE" envDefault:"0.7"`
	TopP        float64       `env:"TAROT_LLM_TOP_P" envDefault:"0.9"`
	LLMTimeout  time.Duration `env:"TAROT_LLM_TIMEOUT" envDefault:"30s"`
	SessionTTL  time.Duration `env:"TAROT_SESSION_TTL" envDefault:"30m"`
	RevealPause time.Duration `env:"TAROT_REVEAL_PAUSE" envDefault:"1500ms"`
	RawAgain    string        `env:"TAROT_AGAIN_POLICY" envDefault:"keep_question"`
	OTelEnabled bool          `env:"TAROT_OTEL_ENABLED" envDefault:"true"`
	OTelURL     string        `env:"TAROT_OTEL_ENDPOINT"`

	LogLevel slog.Level
}

// Load reads the environment. A missing API key is not an error: every draw
// then uses the fallback reading.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	level, err := parseLogLevel(c.RawLogLevel)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	if c.LLMTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid TAROT_LLM_TIMEOUT %s", c.LLMTimeout)
	}
	if c.Temperature <= 0 || c.Temperature > 2 {
		return Config{}, fmt.Errorf("invalid TAROT_LLM_TEMPERATURE %v", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return Config{}, fmt.Errorf("invalid TAROT_LLM_MAX_TOKENS %d", c.MaxTokens)
	}

	return c, nil
}

// AgainPolicy is the configured "ask again" behaviour.
func (c Config) AgainPolicy() domain.AgainPolicy {
	return domain.ParseAgainPolicy(c.RawAgain)
}

// HasAPIKey reports whether provider calls can be attempted.
func (c Config) HasAPIKey() bool { return c.APIKey != "" }

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid TAROT_LOG_LEVEL %q", s)
	}
}
