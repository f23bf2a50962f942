package scoring

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds scoring service client configuration.
type Config struct {
	// BaseURL is the scoring service root, e.g. "http://localhost:5000".
	BaseURL string `env:"MATHCRAFT_SERVER_URL" envDefault:"http://localhost:5000"`

	// User is the learner profile requests act for. Empty means the
	// server's default learner.
	User string `env:"MATHCRAFT_USER"`

	// Timeout bounds a single HTTP request.
	Timeout time.Duration `env:"MATHCRAFT_CLIENT_TIMEOUT" envDefault:"10s"`

	Retry RetryConfig `envPrefix:"MATHCRAFT_RETRY_"`
}

// RetryConfig configures retries of idempotent reads.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"INITIAL_WAIT" envDefault:"250ms"`
	MaxWait     time.Duration `env:"MAX_WAIT" envDefault:"2s"`
	Multiplier  float64       `env:"MULTIPLIER" envDefault:"2"`
}

// DefaultConfig returns a Config with the same defaults as the env tags.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
		Timeout: 10 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 250 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv builds a Config from MATHCRAFT_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("MATHCRAFT_SERVER_URL must not be empty")
	}
	if c.User != "" && !ValidUsername(c.User) {
		return fmt.Errorf("invalid learner name %q: use up to %d letters, digits, '_' or '-'", c.User, MaxUsernameLen)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("client timeout must be positive, got %s", c.Timeout)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
