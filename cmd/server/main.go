// Package main is the entry point for the commission engine API.
// It loads configuration, connects the database and Redis, sets up the HTTP
// server and shuts it down gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paynet/internal/config"
	applog "paynet/internal/logger"
	"paynet/internal/repositories"
	"paynet/internal/routes"
	"paynet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := applog.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run serves until SIGINT or SIGTERM and closes everything it opened.
func run(cfg config.AppConfig, log *zap.Logger) error {
	// amounts and rates go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := repositories.InitDB(cfg, log); err != nil {
		return fmt.Errorf("failed to initialise database: %w", err)
	}
	defer func() {
		if err := repositories.Close(repositories.DB); err != nil {
			log.Warn("failed to close database connection", zap.Error(err))
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Warn("failed to close redis connection", zap.Error(err))
			}
		}
	}()

	// Clear Redis cache on startup
	if repositories.CacheService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := repositories.CacheService.FlushAll(ctx); err != nil {
			log.Warn("failed to flush redis cache", zap.Error(err))
		} else {
			log.Info("redis cache flushed on startup")
		}
		cancel()
	}

	errorHandler := func(c *fiber.Ctx, err error) error {
		return utils.Error(c, log, err)
	}
	app := fiber.New(fiber.Config{
		AppName:               "paynet",
		DisableStartupMessage: config.IsProduction(),
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// bulk endpoints are the expensive ones
	app.Use("/api/v1/schemes/:id/commissions/bulk", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	deps := routes.Dependencies{
		DB:     repositories.DB,
		Cache:  repositories.CacheService,
		Config: cfg,
		Logger: log,
	}
	if err := routes.SetupRoutes(app, deps); err != nil {
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cfg.Port)
	}()
	log.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
