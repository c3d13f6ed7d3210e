package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/contacts")
	t.Setenv("SECRET_KEY", "super-secret")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
}

func TestLoad_Success(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_TTL", "2m")
	t.Setenv("REFRESH_TOKEN_TTL", "72h")
	t.Setenv("IDENTITY_CACHE_TTL", "30m")
	t.Setenv("TESTING", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTAlgorithm != "HS512" {
		t.Fatalf("JWTAlgorithm want HS512, got %s", cfg.JWTAlgorithm)
	}
	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("AccessTokenTTL want 2m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 72*time.Hour {
		t.Fatalf("RefreshTokenTTL want 72h, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.IdentityCacheTTL != 30*time.Minute {
		t.Fatalf("IdentityCacheTTL want 30m, got %v", cfg.IdentityCacheTTL)
	}
	if !cfg.Testing {
		t.Fatal("Testing flag not picked up")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTAlgorithm != "HS256" {
		t.Fatalf("default algorithm want HS256, got %s", cfg.JWTAlgorithm)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("default access ttl want 15m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.IdentityCacheTTL != time.Hour {
		t.Fatalf("default cache ttl want 1h, got %v", cfg.IdentityCacheTTL)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("REDIS_ADDRESS", "r")
	t.Setenv("SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing SECRET_KEY, got nil")
	}
}

func TestLoad_BadAlgorithm(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ALGORITHM", "RS256")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-HMAC algorithm, got nil")
	}
}
