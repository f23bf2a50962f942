package scoring

import (
	"errors"
	"testing"
	"time"
)

func TestCheckAPIVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"", false},
		{APIVersion, false},
		{"v1.4.2", false},
		{"v1", false},
		{"v2.0.0", true},
		{"v0.9.0", true},
		{"1.0.0", true}, // missing "v" prefix is not valid semver here
		{"garbage", true},
	}

	for _, tt := range tests {
		err := CheckAPIVersion(tt.version)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckAPIVersion(%q) error = %v, wantErr %v", tt.version, err, tt.wantErr)
		}
		var incompatible *ErrIncompatibleAPI
		if err != nil && !errors.As(err, &incompatible) {
			t.Errorf("CheckAPIVersion(%q) error type = %T, want *ErrIncompatibleAPI", tt.version, err)
		}
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("ConfigFromEnv() = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("MATHCRAFT_SERVER_URL", "http://scoring.test:8080")
	t.Setenv("MATHCRAFT_CLIENT_TIMEOUT", "3s")
	t.Setenv("MATHCRAFT_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("MATHCRAFT_USER", "alex")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.BaseURL != "http://scoring.test:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %s, want 3s", cfg.Timeout)
	}
	if cfg.User != "alex" {
		t.Errorf("User = %q, want alex", cfg.User)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Retry.MaxAttempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty base URL")
	}

	cfg = DefaultConfig()
	cfg.Retry.MaxAttempts = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero retry attempts")
	}

	cfg = DefaultConfig()
	cfg.User = "steve the miner"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for learner name with spaces")
	}
}

func TestValidUsername(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"player", true},
		{"Steve_2", true},
		{"alex-b", true},
		{"", false},
		{"two words", false},
		{"semi;colon", false},
		{"abcdefghijklmnopqrstuvwxyz0123456", false}, // 33 chars
		{"abcdefghijklmnopqrstuvwxyz012345", true},   // 32 chars
	}
	for _, tt := range tests {
		if got := ValidUsername(tt.name); got != tt.want {
			t.Errorf("ValidUsername(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
