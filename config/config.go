package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	Port          string
	AllowedOrigin string
}

// Load reads settings from a .env file when one exists, falling back to the
// process environment. Every field is required; the caller is expected to
// treat an error as fatal before anything starts listening.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Port:          strings.TrimSpace(os.Getenv("PORT")),
		AllowedOrigin: strings.TrimSpace(os.Getenv("ALLOWED_ORIGIN")),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.Port == "" {
		missing = append(missing, "PORT")
	}
	if cfg.AllowedOrigin == "" {
		missing = append(missing, "ALLOWED_ORIGIN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
