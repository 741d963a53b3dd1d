package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CAMERA_STORE_ADDR", "REDIS_DB", "SESSION_TTL", "CATALOG_PAGE_SIZE", "LOG_LEVEL", "ALLOW_SEED", "JWT_SECRET"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Addr != ":8080" || cfg.CatalogPageSize != 12 || cfg.SessionTTL != 24*time.Hour || cfg.LogLevel != "info" || cfg.AllowSeed {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.JWTSecret != "" {
		t.Fatalf("JWT_SECRET must not have a default, got %q", cfg.JWTSecret)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CAMERA_STORE_ADDR", ":9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CATALOG_PAGE_SIZE", "24")
	t.Setenv("ALLOW_SEED", "true")

	cfg := Load()
	if cfg.Addr != ":9090" || cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.CatalogPageSize != 24 || !cfg.AllowSeed {
		t.Fatalf("unexpected config %+v", cfg)
	}

	t.Setenv("SESSION_TTL", "soon")
	if Load().SessionTTL != 24*time.Hour {
		t.Fatalf("invalid duration must fall back to the default")
	}
}
