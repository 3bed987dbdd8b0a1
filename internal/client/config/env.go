package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "OTPKEEPER_"

// parseEnv overlays cfg with OTPKEEPER_* variables. Variables from the given
// .env files (default ".env") are loaded first without overriding the real
// environment; a missing file is not an error.
func parseEnv(cfg *Config, dotenvFiles ...string) error {
	_ = godotenv.Load(dotenvFiles...)

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
