// Package config provides application configuration.
package config

import (
	"fmt"
	"os"

	"github.com/rteja/assessly/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	Port string

	// PrimaryProvider and SecondaryProvider name the two orchestrated
	// backends: "openai", "gemini", "anthropic", "openrouter", or "mock".
	PrimaryProvider   string
	SecondaryProvider string

	// StoreBackend selects session persistence: "memory" or "sqlite".
	StoreBackend string
	DBPath       string

	LLM llm.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		PrimaryProvider:   getEnv("ASSESSLY_PRIMARY_PROVIDER", "openai"),
		SecondaryProvider: getEnv("ASSESSLY_SECONDARY_PROVIDER", "gemini"),
		StoreBackend:      getEnv("ASSESSLY_STORE", "memory"),
		DBPath:            getEnv("ASSESSLY_DB", ""),
		LLM:               llm.ConfigFromEnv(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured providers and store are usable.
func (c *Config) Validate() error {
	if c.PrimaryProvider == c.SecondaryProvider {
		return fmt.Errorf("primary and secondary providers must differ, both are %q", c.PrimaryProvider)
	}
	if err := c.LLM.Validate(c.PrimaryProvider); err != nil {
		return fmt.Errorf("primary provider: %w", err)
	}
	if err := c.LLM.Validate(c.SecondaryProvider); err != nil {
		return fmt.Errorf("secondary provider: %w", err)
	}

	switch c.StoreBackend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown store backend: %q", c.StoreBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
