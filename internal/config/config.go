// Package config loads service configuration from config.yaml and
// environment variables (env wins; keys map dots to underscores, so
// engine.gemini.api_key becomes ENGINE_GEMINI_API_KEY).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tougaku/sensei/internal/llm"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Store   StoreConfig   `mapstructure:"store"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadSize   int64         `mapstructure:"max_upload_size"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Pretty  bool   `mapstructure:"pretty"`
	NoColor bool   `mapstructure:"no_color"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// EngineConfig selects and configures the grading engine.
type EngineConfig struct {
	// Provider: anthropic, openai, gemini or mock.
	Provider string `mapstructure:"provider"`

	// Mode: "live" calls the engine, "dummy" serves the fixed
	// placeholder results without any engine call (the original MVP
	// behavior, useful for frontend work and demos).
	Mode string `mapstructure:"mode"`

	Timeout time.Duration `mapstructure:"timeout"`

	Anthropic ProviderCreds `mapstructure:"anthropic"`
	OpenAI    OpenAICreds   `mapstructure:"openai"`
	Gemini    ProviderCreds `mapstructure:"gemini"`

	Retry RetryConfig `mapstructure:"retry"`
}

type ProviderCreds struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAICreds struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

type StoreConfig struct {
	// Path to the sqlite file recording engine usage. Empty disables
	// usage recording.
	Path string `mapstructure:"path"`
}

// Load reads config.yaml (working directory or ./config) and the
// environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_size", 10485760) // 10MB photos

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
	v.SetDefault("logging.no_color", false)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("engine.provider", "gemini")
	v.SetDefault("engine.mode", "live")
	v.SetDefault("engine.timeout", "60s")
	v.SetDefault("engine.anthropic.model", "claude-haiku")
	v.SetDefault("engine.openai.model", "gpt-4o-mini")
	v.SetDefault("engine.gemini.model", "gemini-flash")
	v.SetDefault("engine.retry.max_attempts", 3)
	v.SetDefault("engine.retry.initial_wait", "1s")
	v.SetDefault("engine.retry.max_wait", "10s")
	v.SetDefault("engine.retry.multiplier", 2.0)

	v.SetDefault("store.path", "sensei.db")
}

// Validate checks the parts a typo would otherwise surface at request
// time.
func (c *Config) Validate() error {
	if c.Engine.Mode != "live" && c.Engine.Mode != "dummy" {
		return fmt.Errorf("engine.mode must be \"live\" or \"dummy\", got %q", c.Engine.Mode)
	}
	if c.Engine.Mode == "dummy" {
		return nil
	}
	return c.EngineConfig().Validate()
}

// EngineConfig converts the engine section to the llm package's form.
func (c *Config) EngineConfig() llm.Config {
	return llm.Config{
		Provider: c.Engine.Provider,
		Anthropic: llm.AnthropicConfig{
			APIKey: c.Engine.Anthropic.APIKey,
			Model:  c.Engine.Anthropic.Model,
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:  c.Engine.OpenAI.APIKey,
			Model:   c.Engine.OpenAI.Model,
			BaseURL: c.Engine.OpenAI.BaseURL,
		},
		Gemini: llm.GeminiConfig{
			APIKey: c.Engine.Gemini.APIKey,
			Model:  c.Engine.Gemini.Model,
		},
		Retry: llm.RetryConfig{
			MaxAttempts: c.Engine.Retry.MaxAttempts,
			InitialWait: c.Engine.Retry.InitialWait,
			MaxWait:     c.Engine.Retry.MaxWait,
			Multiplier:  c.Engine.Retry.Multiplier,
		},
		Timeout: c.Engine.Timeout,
	}
}
