package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full process configuration, parsed from the environment
// (with .env as a convenience during development).
type Config struct {
	IdentityName string `env:"IDENTITY_NAME" envDefault:"Mira"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"data/mind.json"`

	AIProvider string `env:"AI_PROVIDER" envDefault:"pollinations"`
	AIAPIKey   string `env:"AI_API_KEY"`

	DiscordToken string `env:"DISCORD_TOKEN"`

	RESTAddr string `env:"REST_ADDR" envDefault:":8080"`

	LogFile  string `env:"LOG_FILE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	LLMCallsPerMinute int `env:"LLM_CALLS_PER_MINUTE" envDefault:"6"`
}

// New loads .env if present and parses the environment into a Config.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
