package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "climate-data-platform/internal/api/http"
	"climate-data-platform/internal/catalog"
	"climate-data-platform/internal/climate"
	"climate-data-platform/internal/config"
	"climate-data-platform/internal/jobs"
	"climate-data-platform/internal/scheduler"
	"climate-data-platform/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Grid all fields are synthesized on.
	grid, err := climate.NewGridSpec(cfg.GridStep)
	if err != nil {
		log.Fatalf("failed to build grid: %v", err)
	}

	// Durable file store plus in-memory cache with configured retention.
	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open data directory: %v", err)
	}
	cache := store.NewMemoryStore(cfg.CacheMaxFields, cfg.CacheMaxAge)

	// Core service orchestrating synthesis and stores.
	service := climate.NewService(grid, cache, fileStore)

	cat := catalog.Default()

	// Job runner executing extraction and aggregation requests.
	runner := jobs.NewRunner(service, cat, fileStore, cfg.JobWorkers, cfg.JobQueueSize)
	runner.Start()
	defer runner.Stop()

	// Scheduler that keeps the configured dates materialized.
	targets := make([]scheduler.Target, 0, len(cfg.PregenerateDates))
	for _, d := range cfg.PregenerateDates {
		targets = append(targets, scheduler.Target{Variable: climate.Var2mTemperature, Date: d})
	}
	sched := scheduler.New(targets, cfg.ScheduleInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "climate-data-platform",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Probes for orchestration.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	app.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service: service,
		Catalog: cat,
		Jobs:    runner,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
