package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("JWT_SECRET", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected default access token ttl, got %s", cfg.AccessTokenTTL)
	}
	if cfg.DefaultPageLimit != 10 {
		t.Fatalf("expected default page limit 10, got %d", cfg.DefaultPageLimit)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins by default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("LIST_CACHE_TTL", "30s")
	t.Setenv("AUTH_RATE_LIMIT", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.upcharify.com, http://localhost:3000")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected database url override, got %s", cfg.DatabaseURL)
	}
	if cfg.RefreshTokenTTL != 48*time.Hour {
		t.Fatalf("expected refresh ttl override, got %s", cfg.RefreshTokenTTL)
	}
	if cfg.ListCacheTTL != 30*time.Second {
		t.Fatalf("expected list cache ttl override, got %s", cfg.ListCacheTTL)
	}
	if cfg.AuthRateLimit != 2.5 {
		t.Fatalf("expected auth rate limit override, got %f", cfg.AuthRateLimit)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://localhost:3000" {
		t.Fatalf("expected parsed CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_LIMIT", "lots")
	t.Setenv("REDIS_TLS", "sometimes")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	cfg := Load()
	if cfg.DefaultPageLimit != 10 {
		t.Fatalf("expected fallback page limit, got %d", cfg.DefaultPageLimit)
	}
	if cfg.RedisTLS {
		t.Fatalf("expected fallback redis tls false")
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected fallback access ttl, got %s", cfg.AccessTokenTTL)
	}
}
