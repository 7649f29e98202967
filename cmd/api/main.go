package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"recipeadmin/config"
	_ "recipeadmin/docs"
	"recipeadmin/handlers"
	"recipeadmin/internal/cache"
	"recipeadmin/internal/db"
	"recipeadmin/internal/service"
	"recipeadmin/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.InitLogger(cfg.Logging)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := db.Open(ctx, cfg)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to open run store: %v", err)
	}
	defer store.Close()

	opts := []service.Option{service.WithLogger(logger)}
	if cfg.Cache.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pageCache, err := cache.NewRedisPageCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Page cache unavailable, serving without it")
		} else {
			defer pageCache.Close()
			opts = append(opts, service.WithCache(pageCache))
		}
	}

	runs := service.NewRunService(store, opts...)
	h := handlers.NewApplicationHandler(runs, logger, string(cfg.StoreMode()))
	app := newApp(cfg, h, logger)

	go func() {
		logger.WithFields(logrus.Fields{
			"port":  cfg.Server.Port,
			"store": cfg.StoreMode(),
		}).Info("Starting API server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logger.Fatalf("Server stopped: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down API server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
	logger.Info("API server shut down gracefully.")
}

func newApp(cfg *config.Config, h *handlers.ApplicationHandler, logger *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "recipe-admin",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,PATCH,OPTIONS",
	}))
	app.Use(middleware.RequestLogger(logger))

	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	h.RegisterRoutes(app, middleware.RateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	return app
}
