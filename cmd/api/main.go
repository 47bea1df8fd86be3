package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"cookbook/docs"
	"cookbook/internal/config"
	"cookbook/internal/database"
	"cookbook/internal/database/migration"
	handlers "cookbook/internal/http/handler"
	"cookbook/internal/http/middleware"
	"cookbook/internal/logging"
	tracing "cookbook/internal/otel"
	"cookbook/internal/repository/postgres"
	"cookbook/internal/service"
	"cookbook/internal/storage"
)

// @title Cookbook API
// @version 1.0
// @description Recipe catalog: list recipes, fetch one (counting a view), create new ones.
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatalf("cookbook: %v", err)
	}
}

func run() error {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("tracing_shutdown_failed", err, nil)
		}
	}()

	// One pool for the whole process; every request borrows from it.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureSchema(ctx, db, logger, cfg.Database.Host); err != nil {
		return err
	}

	var objStore storage.Storage
	if cfg.MinIO.Enabled() {
		objStore, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
	} else {
		logger.Info("catalog_export_disabled", map[string]any{"reason": "MINIO_ENDPOINT not set"})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "cookbook"),
	)
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register service metrics: %w", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	recipeRepo := postgres.NewRecipePostgres(db)
	recipeSvc := service.NewRecipeService(recipeRepo, objStore, metrics,
		service.WithExportURLTTL(cfg.ExportURLTTL()),
	)

	app := fiber.New(fiber.Config{
		AppName:               "Cookbook API",
		DisableStartupMessage: true,
		ErrorHandler:          handlers.ErrorHandler(logger),
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	app.Use(middleware.RequestLogger(logger))

	handlers.RegisterRoutes(app, db, recipeSvc, reg)

	app.Get("/swagger/*", handlers.SwaggerUI(docs.SwaggerInfo))

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server_started", map[string]any{"addr": addr})
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		logger.Info("server_stopping", nil)
		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server_stopped", nil)
	return nil
}
