package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taskflowhq/taskflow/config"
	"github.com/taskflowhq/taskflow/db"
	"github.com/taskflowhq/taskflow/internal/auth/domain"
	"github.com/taskflowhq/taskflow/internal/auth/handler"
	pgrepo "github.com/taskflowhq/taskflow/internal/auth/repository/postgres"
	redisrepo "github.com/taskflowhq/taskflow/internal/auth/repository/redis"
	"github.com/taskflowhq/taskflow/internal/auth/service"
	"github.com/taskflowhq/taskflow/internal/email"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := pgrepo.NewRepository(pool)

	var attemptStore domain.AttemptStore = repo
	if cfg.LoginAttemptBackend == "redis" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis URL", "error", err)
			os.Exit(1)
		}
		attemptStore = redisrepo.NewAttemptStore(goredis.NewClient(opts), 24*time.Hour)
	}

	tokenService, err := service.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.AccessExpireMinutes, cfg.RefreshExpireDays)
	if err != nil {
		logger.Error("failed to build token service", "error", err)
		os.Exit(1)
	}

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tracker := service.NewLoginAttemptTracker(attemptStore, logger)
	notifier := email.NewService(cfg.EmailEnabled, logger)

	userService := service.NewUserService(repo, tokenService, hasher, tracker, notifier, cfg, logger)
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, tokenService)

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
