package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	CatalogPageSize int
	LogLevel        string
	AllowSeed       bool
}

// Load reads configuration from environment variables. An empty
// DATABASE_URL selects the in-memory store; an empty REDIS_ADDR keeps
// filter snapshots in process memory. JWT_SECRET has no default: without
// it the admin routes are not mounted.
func Load() Config {
	addr := os.Getenv("CAMERA_STORE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Config{
		Addr:              addr,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           intEnv("REDIS_DB", 0),
		SessionTTL:        durationEnv("SESSION_TTL", 24*time.Hour),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CatalogPageSize:   intEnv("CATALOG_PAGE_SIZE", 12),
		LogLevel:          stringEnv("LOG_LEVEL", "info"),
		AllowSeed:         os.Getenv("ALLOW_SEED") == "true",
	}
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
