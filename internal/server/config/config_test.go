package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddr != ":5000" {
		t.Fatalf("unexpected default address: %q", cfg.EndpointAddr)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected default token TTL: %v", cfg.TokenTTL)
	}
	if cfg.CacheTTL != time.Hour {
		t.Fatalf("unexpected default cache TTL: %v", cfg.CacheTTL)
	}
	if cfg.ConnectTimeout != 10*time.Second {
		t.Fatalf("unexpected default connect timeout: %v", cfg.ConnectTimeout)
	}
	if cfg.JWTSecret != "" {
		t.Fatalf("there must be no default secret")
	}
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("ADDRESS", ":9999")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("SECURE_COOKIE", "true")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.EndpointAddr != ":9999" {
		t.Fatalf("ADDRESS not applied: %q", cfg.EndpointAddr)
	}
	if cfg.JWTSecret != "from-env" {
		t.Fatalf("JWT_SECRET not applied: %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("TOKEN_TTL not applied: %v", cfg.TokenTTL)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Fatalf("CACHE_TTL not applied: %v", cfg.CacheTTL)
	}
	if !cfg.SecureCookie {
		t.Fatalf("SECURE_COOKIE not applied")
	}
}

func TestEnvOverlay_InvalidDurationKeepsDefault(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.TokenTTL != time.Hour {
		t.Fatalf("invalid TOKEN_TTL must keep the default, got %v", cfg.TokenTTL)
	}
}

func TestValidate_RequiresSecret(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := cfg.Validate(); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}

	cfg.JWTSecret = "s"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}
