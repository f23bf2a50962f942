package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds HTTP listener settings for the scoring service.
type Config struct {
	Addr            string        `env:"MATHCRAFT_ADDR" envDefault:":5000"`
	ReadTimeout     time.Duration `env:"MATHCRAFT_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"MATHCRAFT_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"MATHCRAFT_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// DefaultConfig returns a Config with the same defaults as the env tags.
func DefaultConfig() Config {
	return Config{
		Addr:            ":5000",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// ConfigFromEnv builds a Config from MATHCRAFT_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
