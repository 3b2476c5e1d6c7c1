// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds everything the application needs at startup. The two Supabase
// values are mandatory; startup fails without them.
type Config struct {
	SupabaseURL     string        `env:"SUPABASE_URL"`
	SupabaseAnonKey string        `env:"SUPABASE_ANON_KEY"`
	StorageBucket   string        `env:"NALODAO_STORAGE_BUCKET" env-default:"media"`
	HTTPTimeout     time.Duration `env:"NALODAO_HTTP_TIMEOUT" env-default:"30s"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from a .env file (if present) and the process
// environment. A missing SUPABASE_URL or SUPABASE_ANON_KEY is an error.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required endpoint configuration.
func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	return nil
}
