package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wichananm65/camera-store-backend/internal/catalog/filtersync"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/cache"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/config"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/database"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/database/seed"
	"github.com/wichananm65/camera-store-backend/internal/infrastructure/session"
	httpHandler "github.com/wichananm65/camera-store-backend/internal/interface/http/handler"
	"github.com/wichananm65/camera-store-backend/internal/interface/http/router"
	"github.com/wichananm65/camera-store-backend/internal/interface/presenter"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

const (
	sessionIdle  = 30 * time.Minute
	evictEvery   = 5 * time.Minute
	shutdownWait = 10 * time.Second
)

// main wires dependencies and starts the HTTP server.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer backend.Close()

	links := usecase.NewLinkService(backend.Tx, backend.Categories, backend.Products)
	categories := usecase.NewCategoryService(backend.Tx, backend.Categories, links).
		WithCache(cache.NewCategoryCache(cache.DefaultTTL))

	if cfg.AllowSeed {
		if _, err := seed.Run(ctx, categories, backend.Products); err != nil {
			log.Fatal().Err(err).Msg("seed catalog")
		}
	}

	var snapshots filtersync.StorageFactory = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer client.Close()
		snapshots = session.NewRedisStore(client, cfg.SessionTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("filter snapshots stored in redis")
	}

	registry := filtersync.NewRegistry(snapshots, httpHandler.CategoryResolver(categories), cfg.CatalogPageSize, sessionIdle)
	go registry.Run(ctx, evictEvery)

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, admin routes will not be mounted")
	} else if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set, admin sign-in disabled")
	}

	app := router.New(router.Handlers{
		Auth:       httpHandler.NewAuthHandler(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret),
		Categories: httpHandler.NewCategoryHandler(categories, links, presenter.NewCategoryPresenter()),
		Catalog:    httpHandler.NewCatalogHandler(categories, backend.Products, registry, presenter.NewCatalogPresenter()),
	}, cfg.JWTSecret)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(shutdownWait); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("LOG_FORMAT") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
